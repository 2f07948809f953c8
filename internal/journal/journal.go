// Package journal records each assistant session, its conversation turns and
// the dictionaries it wrote, in a SQLite database kept inside the case.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/alexanderramin/whittle/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journal appends one session's history. Recording never fails the
// session: storage errors are logged and the call returns.
type Journal struct {
	sessions repository.SessionRepo
	turns    repository.TurnRepo
	writes   repository.DictionaryWriteRepo
	uow      db.UnitOfWork
	logger   *zap.Logger
	closer   func() error
	now      func() time.Time

	mu      sync.Mutex
	session *domain.Session
	seq     int
	// ctx is the context Start ran under. Reporter callbacks carry none,
	// so dictionary writes are recorded under it.
	ctx context.Context
}

// Open opens the journal database of caseDir.
func Open(caseDir string, logger *zap.Logger) (*Journal, error) {
	database, err := db.OpenDB(db.CasePath(caseDir))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	j := New(database, db.NewSQLiteUnitOfWork(database), logger)
	j.closer = database.Close
	return j, nil
}

// New builds a Journal on an open database.
func New(database *sql.DB, uow db.UnitOfWork, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		sessions: repository.NewSQLiteSessionRepo(database),
		turns:    repository.NewSQLiteTurnRepo(database),
		writes:   repository.NewSQLiteDictionaryWriteRepo(database),
		uow:      uow,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new session row. Dictionary writes reported later are
// recorded under ctx, so canceling it stops them.
func (j *Journal) Start(ctx context.Context, solver, model, caseDir string) {
	s := &domain.Session{
		ID:        uuid.New().String(),
		Solver:    solver,
		Model:     model,
		CaseDir:   caseDir,
		StartedAt: j.now(),
		Outcome:   domain.OutcomeRunning,
	}
	if err := j.sessions.Create(ctx, s); err != nil {
		j.logger.Warn("journal: starting session", zap.Error(err))
		return
	}
	j.mu.Lock()
	j.session = s
	j.seq = 0
	j.ctx = ctx
	j.mu.Unlock()
}

// SessionID returns the current session id, or "" before Start succeeds.
func (j *Journal) SessionID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.session == nil {
		return ""
	}
	return j.session.ID
}

// RecordExchange stores a prompt and the model's reply as two consecutive
// turns. Both are written or neither.
func (j *Journal) RecordExchange(ctx context.Context, prompt, reply string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.session == nil {
		return
	}
	now := j.now()
	turns := []*domain.Turn{
		{ID: uuid.New().String(), SessionID: j.session.ID, Seq: j.seq + 1, Role: domain.RoleUser, Content: prompt, CreatedAt: now},
		{ID: uuid.New().String(), SessionID: j.session.ID, Seq: j.seq + 2, Role: domain.RoleAssistant, Content: reply, CreatedAt: now},
	}
	err := j.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTurnRepo(tx)
		for _, t := range turns {
			if err := repo.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		j.logger.Warn("journal: recording exchange", zap.String("session", j.session.ID), zap.Error(err))
		return
	}
	j.seq += len(turns)
}

// DictionaryWritten records a write. It satisfies dictionary.Reporter.
func (j *Journal) DictionaryWritten(name string, category domain.DictionaryType, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.session == nil {
		return
	}
	w := &domain.DictionaryWrite{
		ID:        uuid.New().String(),
		SessionID: j.session.ID,
		Name:      name,
		Category:  category,
		Path:      path,
		WrittenAt: j.now(),
	}
	if err := j.writes.Create(j.ctx, w); err != nil {
		j.logger.Warn("journal: recording write", zap.String("name", name), zap.Error(err))
	}
}

// Finish stamps the session's outcome and end time.
func (j *Journal) Finish(ctx context.Context, outcome domain.SessionOutcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.session == nil {
		return
	}
	if err := j.sessions.Finish(ctx, j.session.ID, outcome, j.now()); err != nil {
		j.logger.Warn("journal: finishing session", zap.Error(err))
	}
}

// Close releases the database opened by Open.
func (j *Journal) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer()
}

// History summarizes the newest sessions recorded for caseDir.
func (j *Journal) History(ctx context.Context, caseDir string, limit int) ([]domain.SessionSummary, error) {
	sessions, err := j.sessions.ListRecent(ctx, caseDir, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		count, err := j.turns.CountBySession(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		names, err := j.writes.DistinctNames(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.SessionSummary{Session: *s, TurnCount: count, Written: names})
	}
	return summaries, nil
}

// Turns returns the conversation of one session in order.
func (j *Journal) Turns(ctx context.Context, sessionID string) ([]*domain.Turn, error) {
	return j.turns.ListBySession(ctx, sessionID)
}
