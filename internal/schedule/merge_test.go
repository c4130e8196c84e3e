package schedule

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

var refDay = time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC)

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad clock %q: %v", hhmm, err)
	}
	return refDay.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

func item(t *testing.T, start, end, title string) Item {
	t.Helper()
	return Item{Title: title, Type: TypeSession, Start: at(t, start), End: at(t, end)}
}

func conflicting(t *testing.T, start, end, title string) Item {
	t.Helper()
	it := item(t, start, end, title)
	it.Flags = FlagConflictsWithPrevious
	return it
}

func format(items []Item) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("\n  " + it.String())
		if it.ConflictsWithPrevious() {
			b.WriteString("  conflict")
		}
	}
	return b.String()
}

func assertItems(t *testing.T, got, want []Item) {
	t.Helper()
	equal := len(got) == len(want)
	for i := 0; equal && i < len(got); i++ {
		equal = got[i].Title == want[i].Title &&
			got[i].Start.Equal(want[i].Start) &&
			got[i].End.Equal(want[i].End) &&
			got[i].ConflictsWithPrevious() == want[i].ConflictsWithPrevious()
	}
	if !equal {
		t.Errorf("expected%s\nactual%s", format(want), format(got))
	}
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		mutable   []Item
		immutable []Item
		want      []Item
	}{
		{
			name:      "no intersection - within range",
			mutable:   []Item{item(t, "14:00", "14:30", "m1")},
			immutable: []Item{item(t, "14:25", "14:50", "i1")},
			want:      []Item{item(t, "14:00", "14:30", "m1"), item(t, "14:25", "14:50", "i1")},
		},
		{
			name:      "simple intersection on the right",
			mutable:   []Item{item(t, "14:00", "16:00", "m1")},
			immutable: []Item{item(t, "15:00", "16:00", "i1")},
			want:      []Item{item(t, "14:00", "15:00", "m1"), item(t, "15:00", "16:00", "i1")},
		},
		{
			name:      "simple intersection on the left",
			mutable:   []Item{item(t, "14:00", "16:00", "m1")},
			immutable: []Item{item(t, "13:00", "15:00", "i1")},
			want:      []Item{item(t, "13:00", "15:00", "i1"), item(t, "15:00", "16:00", "m1")},
		},
		{
			name:      "same time",
			mutable:   []Item{item(t, "14:00", "16:00", "m1")},
			immutable: []Item{item(t, "14:00", "16:00", "i1")},
			want:      []Item{item(t, "14:00", "16:00", "i1")},
		},
		{
			name:      "no split, remaining not big enough",
			mutable:   []Item{item(t, "14:00", "16:09", "m1")},
			immutable: []Item{item(t, "14:05", "16:00", "i1")},
			want:      []Item{item(t, "14:05", "16:00", "i1")},
		},
		{
			name:      "split",
			mutable:   []Item{item(t, "14:00", "16:10", "m1")},
			immutable: []Item{item(t, "14:00", "16:00", "i1")},
			want:      []Item{item(t, "14:00", "16:00", "i1"), item(t, "16:00", "16:10", "m1")},
		},
		{
			name:    "2 splits",
			mutable: []Item{item(t, "14:00", "17:00", "m1")},
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:30", "16:00", "i2"),
			},
			want: []Item{
				item(t, "14:00", "14:30", "m1"),
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:00", "15:30", "m1"),
				item(t, "15:30", "16:00", "i2"),
				item(t, "16:00", "17:00", "m1"),
			},
		},
		{
			name:    "2 splits with no remaining",
			mutable: []Item{item(t, "14:00", "17:00", "m1")},
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "16:51", "i2"),
			},
			want: []Item{
				item(t, "14:00", "14:30", "m1"),
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:00", "16:30", "m1"),
				item(t, "16:30", "16:51", "i2"),
			},
		},
		{
			name: "2 splits, 3 free blocks, no remaining",
			mutable: []Item{
				item(t, "12:00", "15:00", "m1"),
				item(t, "15:00", "17:00", "m2"),
				item(t, "17:00", "17:40", "m3"),
			},
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "16:51", "i2"),
			},
			want: []Item{
				item(t, "12:00", "14:30", "m1"),
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:00", "16:30", "m2"),
				item(t, "16:30", "16:51", "i2"),
				item(t, "17:00", "17:40", "m3"),
			},
		},
		{
			name: "conflicting sessions, 2 splits, 3 free blocks, no remaining",
			mutable: []Item{
				item(t, "12:00", "15:00", "m1"),
				item(t, "15:00", "17:00", "m2"),
				item(t, "17:00", "17:40", "m3"),
			},
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "16:51", "i2"),
				item(t, "16:30", "16:40", "i3"),
			},
			want: []Item{
				item(t, "12:00", "14:30", "m1"),
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:00", "16:30", "m2"),
				item(t, "16:30", "16:51", "i2"),
				conflicting(t, "16:30", "16:40", "i3"),
				item(t, "17:00", "17:40", "m3"),
			},
		},
		{
			name: "borderline conflicting sessions, 2 splits, 3 free blocks, no remaining",
			mutable: []Item{
				item(t, "12:00", "15:00", "m1"),
				item(t, "15:00", "17:00", "m2"),
				item(t, "17:00", "17:40", "m3"),
			},
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "16:51", "i2"),
				item(t, "16:50", "17:00", "i3"),
			},
			want: []Item{
				item(t, "12:00", "14:30", "m1"),
				item(t, "14:30", "15:00", "i1"),
				item(t, "15:00", "16:30", "m2"),
				item(t, "16:30", "16:51", "i2"),
				item(t, "16:50", "17:00", "i3"),
				item(t, "17:00", "17:40", "m3"),
			},
		},
		{
			name: "conflicting sessions",
			immutable: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "19:00", "i2"),
				item(t, "16:30", "17:00", "i3"),
				item(t, "18:00", "18:30", "i4"),
			},
			want: []Item{
				item(t, "14:30", "15:00", "i1"),
				item(t, "16:30", "19:00", "i2"),
				conflicting(t, "16:30", "17:00", "i3"),
				conflicting(t, "18:00", "18:30", "i4"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Merge(tc.mutable, tc.immutable)
			if err != nil {
				t.Fatalf("Merge failed: %v", err)
			}
			assertItems(t, got, tc.want)
		})
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	got, err := Merge(nil, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}

	free := []Item{item(t, "10:00", "11:00", "m1"), item(t, "10:30", "12:00", "m2")}
	got, err = Merge(free, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	// Overlapping free blocks are left alone and never flagged.
	assertItems(t, got, free)
}

func TestMerge_UnsortedInput(t *testing.T) {
	got, err := Merge(
		[]Item{item(t, "14:00", "17:00", "m1")},
		[]Item{item(t, "15:30", "16:00", "i2"), item(t, "14:30", "15:00", "i1")},
	)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	assertItems(t, got, []Item{
		item(t, "14:00", "14:30", "m1"),
		item(t, "14:30", "15:00", "i1"),
		item(t, "15:00", "15:30", "m1"),
		item(t, "15:30", "16:00", "i2"),
		item(t, "16:00", "17:00", "m1"),
	})
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	mutable := []Item{item(t, "14:00", "17:00", "m1")}
	immutable := []Item{
		item(t, "16:30", "19:00", "i2"),
		item(t, "14:30", "15:00", "i1"),
		item(t, "16:30", "17:00", "i3"),
	}
	mutable[0].Tags = []string{"a"}

	if _, err := Merge(mutable, immutable); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if !mutable[0].End.Equal(at(t, "17:00")) {
		t.Errorf("mutable input end changed to %s", mutable[0].End.Format("15:04"))
	}
	if immutable[0].Title != "i2" || immutable[1].Title != "i1" {
		t.Error("immutable input was reordered")
	}
	for _, it := range immutable {
		if it.Flags != 0 {
			t.Errorf("immutable input %s was flagged", it.Title)
		}
	}
}

func TestMerge_ZeroLengthItems(t *testing.T) {
	got, err := Merge(
		[]Item{item(t, "14:10", "14:10", "m1"), item(t, "18:00", "18:00", "m2")},
		[]Item{item(t, "14:00", "15:00", "i1"), item(t, "16:00", "16:00", "i2")},
	)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	// m1 sits inside i1 and is shadowed; m2 touches nothing and is kept.
	assertItems(t, got, []Item{
		item(t, "14:00", "15:00", "i1"),
		item(t, "16:00", "16:00", "i2"),
		item(t, "18:00", "18:00", "m2"),
	})
}

func TestMerge_InvalidItem(t *testing.T) {
	tests := []struct {
		name      string
		mutable   []Item
		immutable []Item
	}{
		{"inverted mutable", []Item{item(t, "15:00", "14:00", "m1")}, nil},
		{"inverted immutable", nil, []Item{item(t, "15:00", "14:00", "i1")}},
		{"empty title", []Item{{Start: at(t, "14:00"), End: at(t, "15:00")}}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Merge(tc.mutable, tc.immutable)
			if !errors.Is(err, ErrInvalidItem) {
				t.Errorf("expected ErrInvalidItem, got %v", err)
			}
		})
	}
}

func TestMerge_CarriesFieldsThrough(t *testing.T) {
	free := item(t, "14:00", "17:00", "m1")
	free.ID = "free-1"
	free.Type = TypeFree
	free.Subtitle = "3 sessions available"
	fixed := item(t, "15:00", "15:30", "i1")
	fixed.Type = TypeKeynote
	fixed.Room = "Hall A"
	fixed.Flags = FlagHasLivestream | FlagConflictsWithNext

	got, err := Merge([]Item{free}, []Item{fixed})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for _, it := range []Item{got[0], got[2]} {
		if it.ID != "free-1" || it.Type != TypeFree || it.Subtitle != "3 sessions available" {
			t.Errorf("fragment lost its fields: %+v", it)
		}
	}
	if got[1].Room != "Hall A" || got[1].Type != TypeKeynote {
		t.Errorf("fixed item lost its fields: %+v", got[1])
	}
	if got[1].Flags != FlagHasLivestream {
		t.Errorf("expected stale conflict flag cleared and livestream kept, got %b", got[1].Flags)
	}
}

func TestResolver_Options(t *testing.T) {
	t.Run("no tolerance splits on any overlap", func(t *testing.T) {
		r, err := New(Options{CheckConflicts: true})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := r.Merge(
			[]Item{item(t, "14:00", "14:30", "m1")},
			[]Item{item(t, "14:25", "14:50", "i1")},
		)
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		assertItems(t, got, []Item{item(t, "14:00", "14:25", "m1"), item(t, "14:25", "14:50", "i1")})
	})

	t.Run("larger minimum fragment drops short remainders", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MinFragment = 45 * time.Minute
		r, err := New(opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := r.Merge(
			[]Item{item(t, "14:00", "17:00", "m1")},
			[]Item{item(t, "14:30", "15:00", "i1"), item(t, "15:30", "16:00", "i2")},
		)
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		assertItems(t, got, []Item{
			item(t, "14:30", "15:00", "i1"),
			item(t, "15:30", "16:00", "i2"),
			item(t, "16:00", "17:00", "m1"),
		})
	})

	t.Run("conflict check disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.CheckConflicts = false
		r, err := New(opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		got, err := r.Merge(nil, []Item{item(t, "16:30", "19:00", "i1"), item(t, "16:30", "17:00", "i2")})
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if Conflicts(got) != 0 {
			t.Errorf("expected no conflicts, got %d", Conflicts(got))
		}
	})

	t.Run("negative values rejected", func(t *testing.T) {
		for _, opts := range []Options{{AllowedOverlap: -time.Minute}, {MinFragment: -time.Minute}} {
			if _, err := New(opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("New(%+v): expected ErrInvalidOptions, got %v", opts, err)
			}
		}
	})
}

func TestSameStart(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"14:00", "14:00", true},
		{"14:00", "14:05", true},
		{"14:05", "14:00", true},
		{"14:00", "14:06", false},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s-%s", tc.a, tc.b), func(t *testing.T) {
			a := item(t, tc.a, "15:00", "a")
			b := item(t, tc.b, "15:00", "b")
			if got := SameStart(a, b, DefaultAllowedOverlap); got != tc.want {
				t.Errorf("SameStart = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}
	if _, err := ParseType("lunch"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}
