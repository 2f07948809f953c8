package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo on SQLite.
type SQLiteSessionRepo struct {
	db db.DBTX
}

func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, solver, model, case_dir, started_at, ended_at, outcome`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Solver,
		s.Model,
		s.CaseDir,
		formatTime(s.StartedAt),
		nullableTime(s.EndedAt),
		string(s.Outcome),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSessionRepo) ListRecent(ctx context.Context, caseDir string, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE ? = '' OR case_dir = ?
		ORDER BY started_at DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, caseDir, caseDir, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) Finish(ctx context.Context, id string, outcome domain.SessionOutcome, endedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET outcome = ?, ended_at = ? WHERE id = ?`,
		string(outcome), formatTime(endedAt), id)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var startedAtStr, outcome string
	var endedAt sql.NullString

	err := row.Scan(&s.ID, &s.Solver, &s.Model, &s.CaseDir, &startedAtStr, &endedAt, &outcome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	s.StartedAt, err = time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	s.EndedAt = parseNullableTime(endedAt)
	s.Outcome = domain.SessionOutcome(outcome)
	return &s, nil
}
