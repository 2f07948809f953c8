package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/domain"
)

// SQLiteDictionaryWriteRepo implements DictionaryWriteRepo on SQLite.
type SQLiteDictionaryWriteRepo struct {
	db db.DBTX
}

func NewSQLiteDictionaryWriteRepo(db db.DBTX) *SQLiteDictionaryWriteRepo {
	return &SQLiteDictionaryWriteRepo{db: db}
}

func (r *SQLiteDictionaryWriteRepo) Create(ctx context.Context, w *domain.DictionaryWrite) error {
	query := `INSERT INTO dictionary_writes (id, session_id, name, category, path, written_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.SessionID,
		w.Name,
		string(w.Category),
		w.Path,
		formatTime(w.WrittenAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dictionary write: %w", err)
	}
	return nil
}

func (r *SQLiteDictionaryWriteRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.DictionaryWrite, error) {
	query := `SELECT id, session_id, name, category, path, written_at
		FROM dictionary_writes WHERE session_id = ? ORDER BY written_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing dictionary writes: %w", err)
	}
	defer rows.Close()

	var writes []*domain.DictionaryWrite
	for rows.Next() {
		var w domain.DictionaryWrite
		var category, writtenAtStr string
		if err := rows.Scan(&w.ID, &w.SessionID, &w.Name, &category, &w.Path, &writtenAtStr); err != nil {
			return nil, fmt.Errorf("scanning dictionary write row: %w", err)
		}
		w.Category = domain.DictionaryType(category)
		w.WrittenAt, err = time.Parse(timeLayout, writtenAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing written_at: %w", err)
		}
		writes = append(writes, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dictionary writes: %w", err)
	}
	return writes, nil
}

func (r *SQLiteDictionaryWriteRepo) DistinctNames(ctx context.Context, sessionID string) ([]string, error) {
	query := `SELECT name FROM dictionary_writes WHERE session_id = ?
		GROUP BY name ORDER BY MIN(rowid)`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing written names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning written name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating written names: %w", err)
	}
	return names, nil
}
