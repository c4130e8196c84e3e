// Package ics reads conference blocks and sessions from iCalendar files.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ErrEmptyCalendar is returned for an empty ICS payload.
var ErrEmptyCalendar = errors.New("empty ICS body")

// Event is a VEVENT normalized for expansion.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	Categories  []string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time
	// RecurrenceID is set on overrides of a recurring instance.
	RecurrenceID *time.Time
}

// IsOverride reports whether the event replaces one recurring instance.
func (e Event) IsOverride() bool {
	return e.RecurrenceID != nil
}

// Parse parses an ICS payload. Events that cannot be read are skipped with
// a warning.
func Parse(body []byte) ([]Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyCalendar
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var events []Event
	for _, ve := range cal.Events() {
		ev, err := parseEvent(ve)
		if err != nil {
			slog.Warn("skipping ics event", slog.String("error", err.Error()))
			continue
		}
		events = append(events, ev)
	}

	slog.Debug("ics parse completed", slog.Int("event_count", len(events)))
	return events, nil
}

func parseEvent(ve *ical.VEvent) (Event, error) {
	var ev Event

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("missing UID")
	}
	ev.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		ev.URL = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		ev.Categories = append(ev.Categories, splitList(p.Value)...)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, fmt.Errorf("event %s: missing DTSTART", ev.UID)
	}
	ev.AllDay = isDate(dtStart)

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, fmt.Errorf("event %s: reading DTSTART: %w", ev.UID, err)
	}
	ev.Start = start

	end, err := ve.GetEndAt()
	switch {
	case err == nil:
		ev.End = end
	case ev.AllDay:
		ev.End = start.AddDate(0, 0, 1)
	default:
		ev.End = start
	}
	if ev.End.Before(ev.Start) {
		return ev, fmt.Errorf("event %s: ends before it starts", ev.UID)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		tzid := param(p, "TZID")
		for _, part := range splitList(p.Value) {
			t, err := parseTime(part, tzid)
			if err != nil {
				slog.Warn("skipping EXDATE", slog.String("uid", ev.UID), slog.String("value", part))
				continue
			}
			ev.ExDates = append(ev.ExDates, t)
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		t, err := parseTime(p.Value, param(p, "TZID"))
		if err != nil {
			return ev, fmt.Errorf("event %s: reading RECURRENCE-ID: %w", ev.UID, err)
		}
		ev.RecurrenceID = &t
	}

	return ev, nil
}

func isDate(p *ical.IANAProperty) bool {
	if strings.EqualFold(param(p, "VALUE"), "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func param(p *ical.IANAProperty, name string) string {
	if p.ICalParameters == nil {
		return ""
	}
	if vs, ok := p.ICalParameters[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseTime parses an ICS DATE or DATE-TIME value. Floating values use
// tzid when it names a known zone and time.Local otherwise.
func parseTime(v, tzid string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}

	loc := time.Local
	if tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}

	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
