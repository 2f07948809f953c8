package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/domain"
)

// SQLiteTurnRepo implements TurnRepo on SQLite.
type SQLiteTurnRepo struct {
	db db.DBTX
}

func NewSQLiteTurnRepo(db db.DBTX) *SQLiteTurnRepo {
	return &SQLiteTurnRepo{db: db}
}

func (r *SQLiteTurnRepo) Create(ctx context.Context, t *domain.Turn) error {
	query := `INSERT INTO turns (id, session_id, seq, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.SessionID,
		t.Seq,
		string(t.Role),
		t.Content,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

func (r *SQLiteTurnRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Turn, error) {
	query := `SELECT id, session_id, seq, role, content, created_at
		FROM turns WHERE session_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing turns: %w", err)
	}
	defer rows.Close()

	var turns []*domain.Turn
	for rows.Next() {
		var t domain.Turn
		var role, createdAtStr string
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Seq, &role, &t.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning turn row: %w", err)
		}
		t.Role = domain.TurnRole(role)
		t.CreatedAt, err = time.Parse(timeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		turns = append(turns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

func (r *SQLiteTurnRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting turns: %w", err)
	}
	return n, nil
}
