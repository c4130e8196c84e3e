// Package agenda defines the stored conference data and builds the merged
// schedule for a conference day.
package agenda

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrEmptySessionID  = errors.New("session id cannot be empty")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrBlockNotFound   = errors.New("block not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Session tags with a display meaning.
const (
	TagKeynote  = "FLAG_KEYNOTE"
	TagCodelabs = "TYPE_CODELABS"
)

// Block is a venue-wide block of time: a keynote, a break or a free slot.
type Block struct {
	ID       int64
	Title    string
	Subtitle string
	Type     schedule.Type
	Start    time.Time
	End      time.Time
	Source   string // import source, empty for blocks added by hand
}

// NewBlock creates a validated Block.
func NewBlock(title, subtitle, typ string, start, end time.Time) (*Block, error) {
	t, err := schedule.ParseType(typ)
	if err != nil {
		return nil, err
	}
	b := &Block{
		Title:    strings.TrimSpace(title),
		Subtitle: subtitle,
		Type:     t,
		Start:    start,
		End:      end,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the block fields.
func (b *Block) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if _, err := schedule.ParseType(string(b.Type)); err != nil {
		return err
	}
	if !b.End.After(b.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// IsFree reports whether the block can be trimmed around fixed items.
func (b *Block) IsFree() bool {
	return b.Type == schedule.TypeFree
}

// Item converts the block into a schedule item.
func (b *Block) Item() schedule.Item {
	it := schedule.Item{
		ID:       "block-" + strconv.FormatInt(b.ID, 10),
		Title:    b.Title,
		Subtitle: b.Subtitle,
		Type:     b.Type,
		Start:    b.Start,
		End:      b.End,
	}
	if !b.IsFree() {
		it.Flags |= schedule.FlagNotRemovable
	}
	return it
}

// Session is one talk from the conference catalog.
type Session struct {
	ID            string
	Title         string
	Room          string
	Speakers      string
	Tags          []string
	LivestreamURL string
	Start         time.Time
	End           time.Time
	InSchedule    bool
}

// Validate checks the session fields.
func (s *Session) Validate() error {
	if s.ID == "" {
		return ErrEmptySessionID
	}
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if !s.End.After(s.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// Type derives the display type from the session tags.
func (s *Session) Type() schedule.Type {
	switch {
	case slices.Contains(s.Tags, TagKeynote):
		return schedule.TypeKeynote
	case slices.Contains(s.Tags, TagCodelabs):
		return schedule.TypeCodelab
	default:
		return schedule.TypeSession
	}
}

// Subtitle joins the room and speakers.
func (s *Session) Subtitle() string {
	switch {
	case s.Room != "" && s.Speakers != "":
		return s.Room + " - " + s.Speakers
	case s.Room != "":
		return s.Room
	default:
		return s.Speakers
	}
}

// Item converts the session into a schedule item.
func (s *Session) Item() schedule.Item {
	it := schedule.Item{
		ID:       s.ID,
		Title:    s.Title,
		Subtitle: s.Subtitle(),
		Room:     s.Room,
		Type:     s.Type(),
		Tags:     slices.Clone(s.Tags),
		Start:    s.Start,
		End:      s.End,
	}
	if s.LivestreamURL != "" {
		it.Flags |= schedule.FlagHasLivestream
	}
	return it
}

// Day is the merged schedule of one conference day.
type Day struct {
	Date  time.Time
	Items []schedule.Item
}

// Conflicts counts the items that overlap an earlier fixed item.
func (d *Day) Conflicts() int {
	return schedule.Conflicts(d.Items)
}

// Stats holds aggregated minutes and counts of a merged day.
type Stats struct {
	FixedMinutes int
	FreeMinutes  int
	Sessions     int
	Conflicts    int
}

// Stats sums the day per item kind. Sessions count towards scheduled time.
func (d *Day) Stats() Stats {
	var s Stats
	for _, it := range d.Items {
		minutes := int(it.Duration() / time.Minute)
		switch it.Type {
		case schedule.TypeFree:
			s.FreeMinutes += minutes
		case schedule.TypeSession, schedule.TypeCodelab:
			s.Sessions++
			s.FixedMinutes += minutes
		default:
			s.FixedMinutes += minutes
		}
		if it.ConflictsWithPrevious() {
			s.Conflicts++
		}
	}
	return s
}

// SessionsAvailableText is the subtitle of a free block.
func SessionsAvailableText(n int) string {
	if n == 1 {
		return "1 session available"
	}
	return fmt.Sprintf("%d sessions available", n)
}
