// Package dateutil provides date parsing and validation utilities.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimeFormat  = errors.New("time must be in HH:MM format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange represents a validated date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate and endDate accept anything ParseDay does; endDate defaults
// to startDate. Returns an error if endDate is before startDate.
func NewDateRange(startDate, endDate string, relativeTo time.Time) (*DateRange, error) {
	start, err := ParseDay(startDate, relativeTo)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDay(endDate, relativeTo)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// Days returns the number of days covered by the range, inclusive.
func (r *DateRange) Days() int {
	n := 0
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDay parses a day that can be:
//   - Empty string or "today": the day of relativeTo
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, today included)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD) in relativeTo's location
//
// All inputs are case-insensitive.
func ParseDay(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if target, ok := weekdayMap[input]; ok {
		days := (int(target) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, days), nil
	}

	result, err := time.ParseInLocation("2006-01-02", input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// At returns the instant at clock time hhmm ("HH:MM") on day.
func At(day time.Time, hhmm string) (time.Time, error) {
	if len(hhmm) != 5 {
		return time.Time{}, ErrInvalidTimeFormat
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}
	d := TruncateToDay(day)
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location()), nil
}

// Span parses a start and end clock time on day. An end of "24:00" is
// accepted as midnight of the next day.
func Span(day time.Time, start, end string) (time.Time, time.Time, error) {
	s, err := At(day, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var e time.Time
	if end == "24:00" {
		e = TruncateToDay(day).AddDate(0, 0, 1)
	} else if e, err = At(day, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// FormatDuration formats a duration as hours and minutes, e.g. "1h30m".
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
