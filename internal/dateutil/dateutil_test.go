package dateutil

import (
	"errors"
	"testing"
	"time"
)

// Wednesday, June 25, 2014 at 10:30 UTC.
var refTime = time.Date(2014, 6, 25, 10, 30, 0, 0, time.UTC)

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr error
	}{
		{"", time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC), nil},
		{"today", time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC), nil},
		{"TODAY", time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC), nil},
		{"tomorrow", time.Date(2014, 6, 26, 0, 0, 0, 0, time.UTC), nil},
		{"yesterday", time.Date(2014, 6, 24, 0, 0, 0, 0, time.UTC), nil},
		{"wednesday", time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC), nil},
		{"thursday", time.Date(2014, 6, 26, 0, 0, 0, 0, time.UTC), nil},
		{"monday", time.Date(2014, 6, 30, 0, 0, 0, 0, time.UTC), nil},
		{"2014-06-24", time.Date(2014, 6, 24, 0, 0, 0, 0, time.UTC), nil},
		{" 2014-06-26 ", time.Date(2014, 6, 26, 0, 0, 0, 0, time.UTC), nil},
		{"next-monday", time.Time{}, ErrInvalidDateFormat},
		{"06/25/2014", time.Time{}, ErrInvalidDateFormat},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDay(tc.input, refTime)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDay(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("2014-06-25", "2014-06-27", refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days() != 3 {
		t.Errorf("expected 3 days, got %d", r.Days())
	}

	r, err = NewDateRange("tomorrow", "", refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(r.End) || r.Days() != 1 {
		t.Errorf("expected single day range, got %v - %v", r.Start, r.End)
	}

	if _, err := NewDateRange("2014-06-25", "2014-06-24", refTime); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Errorf("expected ErrEndDateBeforeStart, got %v", err)
	}
}

func TestAt(t *testing.T) {
	got, err := At(refTime, "14:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2014, 6, 25, 14, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "9:00", "25:00", "14-05", "14:60"} {
		if _, err := At(refTime, bad); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("At(%q): expected ErrInvalidTimeFormat, got %v", bad, err)
		}
	}
}

func TestSpan(t *testing.T) {
	start, end, err := Span(refTime, "23:00", "24:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2014, 6, 25, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2014, 6, 26, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end %v", end)
	}

	if _, _, err := Span(refTime, "9", "10:00"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestTruncateToDay(t *testing.T) {
	got := TruncateToDay(refTime)
	if got.Hour() != 0 || got.Minute() != 0 || got.Day() != 25 {
		t.Errorf("TruncateToDay = %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected location preserved, got %v", got.Location())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{45 * time.Minute, "45m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
		{59 * time.Second, "0m"},
	}

	for _, tc := range tests {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
