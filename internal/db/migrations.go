package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS blocks (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			title     TEXT NOT NULL,
			subtitle  TEXT NOT NULL DEFAULT '',
			type      TEXT NOT NULL CHECK(type IN ('free', 'break', 'keynote', 'session', 'codelab', 'misc')),
			start_ms  INTEGER NOT NULL,
			end_ms    INTEGER NOT NULL,
			source    TEXT NOT NULL DEFAULT '',
			CHECK(end_ms > start_ms)
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_start ON blocks(start_ms);
		CREATE INDEX IF NOT EXISTS idx_blocks_source ON blocks(source);

		CREATE TABLE IF NOT EXISTS sessions (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			room            TEXT NOT NULL DEFAULT '',
			speakers        TEXT NOT NULL DEFAULT '',
			tags            TEXT NOT NULL DEFAULT '',
			livestream_url  TEXT NOT NULL DEFAULT '',
			start_ms        INTEGER NOT NULL,
			end_ms          INTEGER NOT NULL,
			in_schedule     INTEGER NOT NULL DEFAULT 0,
			CHECK(end_ms > start_ms)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_ms);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
