// Package schedule merges free schedule blocks with fixed ones and flags
// the conflicts that cannot be resolved.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidItem    = errors.New("invalid schedule item")
	ErrInvalidOptions = errors.New("invalid merge options")
	ErrUnknownType    = errors.New("unknown item type")
)

// Type is the coarse category of a schedule item.
type Type string

const (
	TypeFree    Type = "free"
	TypeBreak   Type = "break"
	TypeKeynote Type = "keynote"
	TypeSession Type = "session"
	TypeCodelab Type = "codelab"
	TypeMisc    Type = "misc"
)

// Types returns every known item type.
func Types() []Type {
	return []Type{TypeFree, TypeBreak, TypeKeynote, TypeSession, TypeCodelab, TypeMisc}
}

// ParseType parses a type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Flags is a bit set of display annotations.
type Flags uint8

const (
	// FlagConflictsWithPrevious marks an item that overlaps an earlier
	// fixed item in the merged output.
	FlagConflictsWithPrevious Flags = 1 << iota
	// FlagConflictsWithNext marks the earlier item of a conflicting pair.
	FlagConflictsWithNext
	FlagHasLivestream
	FlagNotRemovable
)

const conflictMask = FlagConflictsWithPrevious | FlagConflictsWithNext

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Item is one displayable block of time.
type Item struct {
	ID       string
	Title    string
	Subtitle string
	Room     string
	Type     Type
	Tags     []string
	Start    time.Time
	End      time.Time
	Flags    Flags
}

// Duration returns the length of the item.
func (it Item) Duration() time.Duration {
	return it.End.Sub(it.Start)
}

// ConflictsWithPrevious reports whether the item overlaps an earlier fixed item.
func (it Item) ConflictsWithPrevious() bool {
	return it.Flags.Has(FlagConflictsWithPrevious)
}

// Validate checks that the item is well formed.
func (it Item) Validate() error {
	if it.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidItem)
	}
	if it.Start.After(it.End) {
		return fmt.Errorf("%w: %q starts at %s after it ends at %s",
			ErrInvalidItem, it.Title, it.Start.Format(time.RFC3339), it.End.Format(time.RFC3339))
	}
	return nil
}

func (it Item) String() string {
	return fmt.Sprintf("%s %s-%s", it.Title, it.Start.Format("15:04"), it.End.Format("15:04"))
}

// Intersect reports whether two items overlap by more than tolerance on
// both edges.
func Intersect(a, b Item, tolerance time.Duration) bool {
	return b.End.After(a.Start.Add(tolerance)) && b.Start.Add(tolerance).Before(a.End)
}

// SameStart reports whether two items start within tolerance of each other.
func SameStart(a, b Item, tolerance time.Duration) bool {
	d := a.Start.Sub(b.Start)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func containedIn(inner, outer Item) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}
