package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/agenda/internal/dateutil"
)

// MaxOverviewDays bounds the number of days an overview may span.
const MaxOverviewDays = 31

// ErrRangeTooLong is returned when an overview spans more than MaxOverviewDays.
var ErrRangeTooLong = errors.New("date range is too long")

// Overview holds the merged days of a date range and their totals.
type Overview struct {
	Start time.Time
	End   time.Time
	Days  []*Day
	Stats Stats
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.FixedMinutes += other.FixedMinutes
	s.FreeMinutes += other.FreeMinutes
	s.Sessions += other.Sessions
	s.Conflicts += other.Conflicts
}

// Summarize builds an overview from already merged days.
func Summarize(start, end time.Time, days []*Day) *Overview {
	o := &Overview{Start: start, End: end, Days: days}
	for _, d := range days {
		o.Stats.Add(d.Stats())
	}
	return o
}

// Overview merges every day from start to end, inclusive.
func (s *Service) Overview(ctx context.Context, start, end time.Time) (*Overview, error) {
	start = dateutil.TruncateToDay(start.In(s.opts.Location))
	end = dateutil.TruncateToDay(end.In(s.opts.Location))
	if end.Before(start) {
		return nil, dateutil.ErrEndDateBeforeStart
	}

	r := dateutil.DateRange{Start: start, End: end}
	if r.Days() > MaxOverviewDays {
		return nil, fmt.Errorf("%w: %d days, at most %d", ErrRangeTooLong, r.Days(), MaxOverviewDays)
	}

	days := make([]*Day, 0, r.Days())
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		d, err := s.Day(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", day.Format("2006-01-02"), err)
		}
		days = append(days, d)
	}

	return Summarize(start, end, days), nil
}
