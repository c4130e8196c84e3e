package agenda

import (
	"context"
	"time"
)

// SessionCount is the number of sessions starting at the same time.
type SessionCount struct {
	Start time.Time
	Count int
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	OnlyInSchedule bool
	LivestreamOnly bool
}

// Repository defines the storage interface for blocks and sessions.
type Repository interface {
	// CreateBlock adds a new block and sets its ID.
	CreateBlock(ctx context.Context, b *Block) error

	// DeleteBlock removes a block. Returns ErrBlockNotFound if it does not exist.
	DeleteBlock(ctx context.Context, id int64) error

	// ListBlocks returns blocks starting within [start, end), ordered by start.
	ListBlocks(ctx context.Context, start, end time.Time) ([]*Block, error)

	// ReplaceBlocks atomically replaces every block imported from source.
	ReplaceBlocks(ctx context.Context, source string, blocks []*Block) error

	// UpsertSession inserts a session or updates the one with the same ID.
	// The in-schedule mark of an existing session is preserved.
	UpsertSession(ctx context.Context, s *Session) error

	// GetSession retrieves a session by ID. Returns ErrSessionNotFound if missing.
	GetSession(ctx context.Context, id string) (*Session, error)

	// SetInSchedule stars or unstars a session.
	SetInSchedule(ctx context.Context, id string, in bool) error

	// ListSessions returns sessions starting within [start, end), ordered by start.
	ListSessions(ctx context.Context, start, end time.Time, filter SessionFilter) ([]*Session, error)

	// CountSessionsByStart counts sessions not in the schedule that start
	// within [start, end), grouped by start time.
	CountSessionsByStart(ctx context.Context, start, end time.Time, livestreamOnly bool) ([]SessionCount, error)

	// Close releases any resources held by the repository.
	Close() error
}
