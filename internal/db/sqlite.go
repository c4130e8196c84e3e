// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// SQLite implements agenda.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ agenda.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const insertBlockQuery = `
	INSERT INTO blocks (title, subtitle, type, start_ms, end_ms, source)
	VALUES (?, ?, ?, ?, ?, ?)
`

// CreateBlock adds a new block to the repository.
func (s *SQLite) CreateBlock(ctx context.Context, b *agenda.Block) error {
	result, err := s.db.ExecContext(ctx, insertBlockQuery,
		b.Title,
		b.Subtitle,
		b.Type,
		b.Start.UnixMilli(),
		b.End.UnixMilli(),
		b.Source,
	)
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id

	return nil
}

// DeleteBlock removes a block.
func (s *SQLite) DeleteBlock(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("block %d: %w", id, agenda.ErrBlockNotFound)
	}

	return nil
}

// ListBlocks returns blocks starting within [start, end).
func (s *SQLite) ListBlocks(ctx context.Context, start, end time.Time) ([]*agenda.Block, error) {
	query := `
		SELECT id, title, subtitle, type, start_ms, end_ms, source
		FROM blocks
		WHERE start_ms >= ? AND start_ms < ?
		ORDER BY start_ms, id
	`

	rows, err := s.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	loc := start.Location()
	var blocks []*agenda.Block
	for rows.Next() {
		var (
			b              agenda.Block
			typ            string
			startMs, endMs int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Subtitle, &typ, &startMs, &endMs, &b.Source); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.Type = schedule.Type(typ)
		b.Start = time.UnixMilli(startMs).In(loc)
		b.End = time.UnixMilli(endMs).In(loc)
		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return blocks, nil
}

// ReplaceBlocks deletes every block imported from source and inserts
// blocks in a single transaction.
func (s *SQLite) ReplaceBlocks(ctx context.Context, source string, blocks []*agenda.Block) error {
	if source == "" {
		return errors.New("replacing blocks: empty source")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting blocks from %s: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertBlockQuery)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		b.Source = source
		result, err := stmt.ExecContext(ctx,
			b.Title,
			b.Subtitle,
			b.Type,
			b.Start.UnixMilli(),
			b.End.UnixMilli(),
			b.Source,
		)
		if err != nil {
			return fmt.Errorf("inserting block %q: %w", b.Title, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		b.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// UpsertSession inserts or updates a session, keeping its in-schedule mark.
func (s *SQLite) UpsertSession(ctx context.Context, sess *agenda.Session) error {
	query := `
		INSERT INTO sessions (
			id, title, room, speakers, tags, livestream_url, start_ms, end_ms, in_schedule
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			room = excluded.room,
			speakers = excluded.speakers,
			tags = excluded.tags,
			livestream_url = excluded.livestream_url,
			start_ms = excluded.start_ms,
			end_ms = excluded.end_ms
	`

	_, err := s.db.ExecContext(ctx, query,
		sess.ID,
		sess.Title,
		sess.Room,
		sess.Speakers,
		strings.Join(sess.Tags, ","),
		sess.LivestreamURL,
		sess.Start.UnixMilli(),
		sess.End.UnixMilli(),
		sess.InSchedule,
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	return nil
}

const sessionColumns = `id, title, room, speakers, tags, livestream_url, start_ms, end_ms, in_schedule`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, loc *time.Location) (*agenda.Session, error) {
	var (
		sess           agenda.Session
		tags           string
		startMs, endMs int64
	)
	err := row.Scan(
		&sess.ID,
		&sess.Title,
		&sess.Room,
		&sess.Speakers,
		&tags,
		&sess.LivestreamURL,
		&startMs,
		&endMs,
		&sess.InSchedule,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		sess.Tags = strings.Split(tags, ",")
	}
	sess.Start = time.UnixMilli(startMs).In(loc)
	sess.End = time.UnixMilli(endMs).In(loc)
	return &sess, nil
}

// GetSession retrieves a session by ID.
func (s *SQLite) GetSession(ctx context.Context, id string) (*agenda.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, id), time.Local)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, agenda.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return sess, nil
}

// SetInSchedule stars or unstars a session.
func (s *SQLite) SetInSchedule(ctx context.Context, id string, in bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE sessions SET in_schedule = ? WHERE id = ?`, in, id)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session %s: %w", id, agenda.ErrSessionNotFound)
	}

	return nil
}

// ListSessions returns sessions starting within [start, end).
func (s *SQLite) ListSessions(ctx context.Context, start, end time.Time, filter agenda.SessionFilter) ([]*agenda.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE start_ms >= ? AND start_ms < ?`
	if filter.OnlyInSchedule {
		query += ` AND in_schedule = 1`
	}
	if filter.LivestreamOnly {
		query += ` AND livestream_url != ''`
	}
	query += ` ORDER BY start_ms, id`

	rows, err := s.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*agenda.Session
	for rows.Next() {
		sess, err := scanSession(rows, start.Location())
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// CountSessionsByStart counts unstarred sessions grouped by start time.
func (s *SQLite) CountSessionsByStart(ctx context.Context, start, end time.Time, livestreamOnly bool) ([]agenda.SessionCount, error) {
	query := `
		SELECT start_ms, COUNT(*)
		FROM sessions
		WHERE start_ms >= ? AND start_ms < ? AND in_schedule = 0
	`
	if livestreamOnly {
		query += ` AND livestream_url != ''`
	}
	query += ` GROUP BY start_ms ORDER BY start_ms`

	rows, err := s.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []agenda.SessionCount
	for rows.Next() {
		var (
			startMs int64
			c       agenda.SessionCount
		)
		if err := rows.Scan(&startMs, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning session count: %w", err)
		}
		c.Start = time.UnixMilli(startMs).In(start.Location())
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session counts: %w", err)
	}

	return counts, nil
}
