package testutil

import (
	"time"

	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.Session)

func WithCaseDir(dir string) SessionOption {
	return func(s *domain.Session) {
		s.CaseDir = dir
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartedAt = t
	}
}

func WithSolver(solver string) SessionOption {
	return func(s *domain.Session) {
		s.Solver = solver
	}
}

func NewTestSession(opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		Solver:    "openfoam",
		Model:     "gpt-4o-mini",
		CaseDir:   "/tmp/case",
		StartedAt: time.Now().UTC(),
		Outcome:   domain.OutcomeRunning,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func NewTestTurn(sessionID string, seq int, role domain.TurnRole, content string) *domain.Turn {
	return &domain.Turn{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Seq:       seq,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestDictionaryWrite(sessionID, name string, category domain.DictionaryType) *domain.DictionaryWrite {
	return &domain.DictionaryWrite{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Name:      name,
		Category:  category,
		Path:      "/tmp/case/" + name,
		WrittenAt: time.Now().UTC(),
	}
}
