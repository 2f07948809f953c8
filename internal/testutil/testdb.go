package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory journal that closes with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening test journal")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestStore returns a fresh journal database together with the
// transactional boundary the journal records exchanges through.
func NewTestStore(t testing.TB) (*sql.DB, db.UnitOfWork) {
	t.Helper()
	database := NewTestDB(t)
	return database, db.NewSQLiteUnitOfWork(database)
}

// SessionCreator is the part of the session repository SeedSession needs.
type SessionCreator interface {
	Create(ctx context.Context, s *domain.Session) error
}

// SeedSession stores a session so turns and writes have a parent row.
func SeedSession(t testing.TB, repo SessionCreator, opts ...SessionOption) *domain.Session {
	t.Helper()
	s := NewTestSession(opts...)
	require.NoError(t, repo.Create(context.Background(), s), "seeding session")
	return s
}
