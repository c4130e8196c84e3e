package ics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Blocks converts occurrences into venue blocks of type typ. An empty typ
// takes the type from the first category naming a known type and falls
// back to misc.
func Blocks(occs []Occurrence, typ schedule.Type) ([]*agenda.Block, error) {
	blocks := make([]*agenda.Block, 0, len(occs))
	for _, o := range occs {
		t := typ
		if t == "" {
			t = typeFromCategories(o.Categories)
		}
		b := &agenda.Block{
			Title:    o.Summary,
			Subtitle: o.Location,
			Type:     t,
			Start:    o.Start,
			End:      o.End,
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("event %s at %s: %w", o.UID, o.Start.Format("2006-01-02 15:04"), err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func typeFromCategories(categories []string) schedule.Type {
	for _, c := range categories {
		if t, err := schedule.ParseType(strings.ToLower(c)); err == nil {
			return t
		}
	}
	return schedule.TypeMisc
}

// Sessions converts occurrences into catalog sessions. Each occurrence of a
// recurring event becomes its own session.
func Sessions(occs []Occurrence) ([]*agenda.Session, error) {
	sessions := make([]*agenda.Session, 0, len(occs))
	for _, o := range occs {
		s := &agenda.Session{
			ID:            SessionID(o),
			Title:         o.Summary,
			Room:          o.Location,
			Speakers:      speakers(o.Description),
			Tags:          o.Categories,
			LivestreamURL: o.URL,
			Start:         o.Start,
			End:           o.End,
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("event %s at %s: %w", o.UID, o.Start.Format("2006-01-02 15:04"), err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// SessionID identifies one occurrence of an event.
func SessionID(o Occurrence) string {
	return o.UID + "@" + strconv.FormatInt(o.Start.UnixMilli(), 10)
}

// speakers reads a "Speakers:" line from an event description.
func speakers(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Speakers:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
