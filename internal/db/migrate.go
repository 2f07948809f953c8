package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// whole list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		solver     TEXT NOT NULL,
		case_dir   TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at   TEXT,
		outcome    TEXT NOT NULL DEFAULT 'running'
		           CHECK(outcome IN ('running','completed','meshed','failed'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_case ON sessions(case_dir)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,

	`CREATE TABLE IF NOT EXISTS turns (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('system','user','assistant')),
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (session_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id)`,

	`CREATE TABLE IF NOT EXISTS dictionary_writes (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL
		           CHECK(category IN ('system','constant','initial_condition','unknown')),
		path       TEXT NOT NULL,
		written_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_writes_session ON dictionary_writes(session_id)`,

	// Track which model produced each session.
	`ALTER TABLE sessions ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
}
