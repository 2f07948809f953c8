package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/whittle/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// ListRecent returns the newest sessions for caseDir first. An empty
	// caseDir lists sessions of every case.
	ListRecent(ctx context.Context, caseDir string, limit int) ([]*domain.Session, error)
	Finish(ctx context.Context, id string, outcome domain.SessionOutcome, endedAt time.Time) error
}

type TurnRepo interface {
	Create(ctx context.Context, t *domain.Turn) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Turn, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

type DictionaryWriteRepo interface {
	Create(ctx context.Context, w *domain.DictionaryWrite) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.DictionaryWrite, error)
	// DistinctNames returns each written name once, in first-write order.
	DistinctNames(ctx context.Context, sessionID string) ([]string, error)
}
