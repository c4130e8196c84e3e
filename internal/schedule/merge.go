package schedule

import (
	"fmt"
	"slices"
	"time"
)

// Default merge tolerances.
const (
	DefaultAllowedOverlap = 5 * time.Minute
	DefaultMinFragment    = 10 * time.Minute
)

// Options tunes the resolver.
type Options struct {
	// AllowedOverlap is how far two blocks may overlap before they count
	// as intersecting.
	AllowedOverlap time.Duration
	// MinFragment is the shortest trimmed free block that is kept.
	MinFragment time.Duration
	// CheckConflicts enables conflict flags among fixed items.
	CheckConflicts bool
}

// DefaultOptions returns the default resolver options.
func DefaultOptions() Options {
	return Options{
		AllowedOverlap: DefaultAllowedOverlap,
		MinFragment:    DefaultMinFragment,
		CheckConflicts: true,
	}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.AllowedOverlap < 0 {
		return fmt.Errorf("%w: allowed overlap must not be negative", ErrInvalidOptions)
	}
	if o.MinFragment < 0 {
		return fmt.Errorf("%w: minimum fragment must not be negative", ErrInvalidOptions)
	}
	return nil
}

// Resolver merges mutable and immutable schedule items. It holds no state
// beyond its options and is safe for concurrent use.
type Resolver struct {
	opts Options
}

// New creates a Resolver with the given options.
func New(opts Options) (*Resolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{opts: opts}, nil
}

// Options returns the resolver options.
func (r *Resolver) Options() Options {
	return r.opts
}

var defaultResolver = &Resolver{opts: DefaultOptions()}

// Merge merges items with the default options.
func Merge(mutable, immutable []Item) ([]Item, error) {
	return defaultResolver.Merge(mutable, immutable)
}

// Merge returns one list ordered by start time in which every immutable
// item appears unchanged and mutable items are trimmed, split or dropped
// around them. Immutable items that still overlap each other are flagged.
// The input slices are not modified.
func (r *Resolver) Merge(mutable, immutable []Item) ([]Item, error) {
	free, err := sortedCopy(mutable)
	if err != nil {
		return nil, fmt.Errorf("mutable items: %w", err)
	}
	fixed, err := sortedCopy(immutable)
	if err != nil {
		return nil, fmt.Errorf("immutable items: %w", err)
	}

	for _, block := range fixed {
		free = r.carve(free, block)
	}

	if r.opts.CheckConflicts {
		r.markConflicts(fixed)
	}

	out := make([]Item, 0, len(fixed)+len(free))
	out = append(out, fixed...)
	out = append(out, free...)
	sortByStart(out)
	return out, nil
}

// carve returns the free items that survive next to block.
func (r *Resolver) carve(free []Item, block Item) []Item {
	out := make([]Item, 0, len(free)+1)
	for _, m := range free {
		if !Intersect(block, m, r.opts.AllowedOverlap) {
			out = append(out, m)
			continue
		}
		if containedIn(m, block) {
			continue
		}

		if m.Start.Before(block.Start) {
			head := m
			head.End = block.Start
			out = r.keep(out, head)
			if m.End.After(block.End) {
				tail := m
				tail.Start = block.End
				out = r.keep(out, tail)
			}
			continue
		}

		tail := m
		tail.Start = block.End
		out = r.keep(out, tail)
	}
	return out
}

func (r *Resolver) keep(out []Item, fragment Item) []Item {
	if fragment.Duration() <= 0 || fragment.Duration() < r.opts.MinFragment {
		return out
	}
	return append(out, fragment)
}

// markConflicts flags overlapping items. items must be sorted by start.
// The scan for an item stops at the first later item it does not overlap.
func (r *Resolver) markConflicts(items []Item) {
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if !Intersect(items[j], items[i], r.opts.AllowedOverlap) {
				break
			}
			items[j].Flags |= FlagConflictsWithPrevious
			items[i].Flags |= FlagConflictsWithNext
		}
	}
}

func sortedCopy(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		it.Tags = slices.Clone(it.Tags)
		it.Flags &^= conflictMask
		out[i] = it
	}
	sortByStart(out)
	return out, nil
}

func sortByStart(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Start.Compare(b.Start)
	})
}

// Conflicts counts items flagged as conflicting with a previous item.
func Conflicts(items []Item) int {
	n := 0
	for _, it := range items {
		if it.ConflictsWithPrevious() {
			n++
		}
	}
	return n
}
