package ics

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultMaxPerEvent caps the occurrences produced by one recurring event.
const DefaultMaxPerEvent = 500

// Window bounds an expansion. Occurrences starting in [Start, End) are kept.
type Window struct {
	Start time.Time
	End   time.Time
	// Location converts occurrence times. Defaults to time.Local.
	Location *time.Location
	// MaxPerEvent defaults to DefaultMaxPerEvent.
	MaxPerEvent int
}

// Occurrence is one concrete instance of an event.
type Occurrence struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	Categories  []string
	Start       time.Time
	End         time.Time
}

// Expand turns events into the timed occurrences that start inside w,
// ordered by start. All-day events are skipped.
func Expand(events []Event, w Window) ([]Occurrence, error) {
	if w.End.Before(w.Start) {
		return nil, errors.New("expand: window ends before it starts")
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.MaxPerEvent <= 0 {
		w.MaxPerEvent = DefaultMaxPerEvent
	}

	var (
		order     []string
		bases     = make(map[string][]Event)
		overrides = make(map[string][]Event)
	)
	for _, ev := range events {
		if _, seen := bases[ev.UID]; !seen {
			if _, seen := overrides[ev.UID]; !seen {
				order = append(order, ev.UID)
			}
		}
		if ev.IsOverride() {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
		} else {
			bases[ev.UID] = append(bases[ev.UID], ev)
		}
	}

	var out []Occurrence
	for _, uid := range order {
		base, ok := bases[uid]
		if !ok {
			// Overrides without their recurring event stand alone.
			for _, ov := range overrides[uid] {
				out = appendInWindow(out, ov, ov.Start, ov.End, w)
			}
			continue
		}
		for _, ev := range base {
			if ev.AllDay {
				slog.Debug("skipping all-day event", slog.String("uid", uid), slog.String("summary", ev.Summary))
				continue
			}
			out = expandEvent(out, ev, overrides[uid], w)
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		return a.Start.Compare(b.Start)
	})
	return out, nil
}

func expandEvent(out []Occurrence, ev Event, overrides []Event, w Window) []Occurrence {
	if ev.RRule == "" {
		start, end := ev.Start, ev.End
		if ov, ok := findOverride(overrides, start); ok {
			ev, start, end = ov, ov.Start, ov.End
		}
		return appendInWindow(out, ev, start, end, w)
	}

	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		slog.Warn("skipping event with invalid RRULE",
			slog.String("uid", ev.UID),
			slog.String("rrule", ev.RRule),
			slog.String("error", err.Error()),
		)
		return out
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	starts := set.Between(w.Start.In(loc), w.End.In(loc), true)
	if len(starts) > w.MaxPerEvent {
		slog.Warn("truncating recurring event",
			slog.String("uid", ev.UID),
			slog.Int("occurrences", len(starts)),
			slog.Int("cap", w.MaxPerEvent),
		)
		starts = starts[:w.MaxPerEvent]
	}

	dur := ev.End.Sub(ev.Start)
	for _, start := range starts {
		inst, s, e := ev, start, start.Add(dur)
		if ov, ok := findOverride(overrides, start); ok {
			inst, s, e = ov, ov.Start, ov.End
		}
		out = appendInWindow(out, inst, s, e, w)
	}
	return out
}

func findOverride(overrides []Event, start time.Time) (Event, bool) {
	for _, ov := range overrides {
		if ov.RecurrenceID != nil && ov.RecurrenceID.Equal(start) {
			return ov, true
		}
	}
	return Event{}, false
}

func appendInWindow(out []Occurrence, ev Event, start, end time.Time, w Window) []Occurrence {
	if start.Before(w.Start) || !start.Before(w.End) {
		return out
	}
	return append(out, Occurrence{
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		URL:         ev.URL,
		Categories:  slices.Clone(ev.Categories),
		Start:       start.In(w.Location),
		End:         end.In(w.Location),
	})
}
