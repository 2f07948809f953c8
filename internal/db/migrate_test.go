package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertSession(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO sessions (id, solver, case_dir, started_at)
		VALUES (?, 'openfoam', '/tmp/case', '2025-01-01T00:00:00Z')`, id)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"sessions", "turns", "dictionary_writes"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_sessions_case", "idx_sessions_started", "idx_turns_session", "idx_writes_session"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_SessionDefaults(t *testing.T) {
	db := openTestDB(t)
	insertSession(t, db, "s1")

	var outcome, model string
	var endedAt sql.NullString
	err := db.QueryRow(`SELECT outcome, model, ended_at FROM sessions WHERE id = 's1'`).Scan(&outcome, &model, &endedAt)
	require.NoError(t, err)
	assert.Equal(t, "running", outcome)
	assert.Equal(t, "", model)
	assert.False(t, endedAt.Valid)
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)
	insertSession(t, db, "s1")

	_, err := db.Exec(`UPDATE sessions SET outcome = 'exploded' WHERE id = 's1'`)
	assert.Error(t, err, "invalid outcome")

	_, err = db.Exec(`INSERT INTO turns (id, session_id, seq, role, content, created_at)
		VALUES ('t1', 's1', 1, 'robot', 'hi', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid role")

	_, err = db.Exec(`INSERT INTO dictionary_writes (id, session_id, name, category, path, written_at)
		VALUES ('w1', 's1', 'U', 'mesh', '/tmp/case/0/U', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid category")
}

func TestMigrate_TurnSeqUniquePerSession(t *testing.T) {
	db := openTestDB(t)
	insertSession(t, db, "s1")

	insert := `INSERT INTO turns (id, session_id, seq, role, content, created_at)
		VALUES (?, 's1', 1, 'user', 'hi', '2025-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "t1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "t2")
	assert.Error(t, err)
}

func TestMigrate_CascadeDelete(t *testing.T) {
	db := openTestDB(t)
	insertSession(t, db, "s1")
	_, err := db.Exec(`INSERT INTO dictionary_writes (id, session_id, name, category, path, written_at)
		VALUES ('w1', 's1', 'U', 'initial_condition', '/tmp/case/0/U', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM sessions WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dictionary_writes`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := CasePath(t.TempDir())

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
	assert.Equal(t, ".whittle", filepath.Base(filepath.Dir(path)))

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
