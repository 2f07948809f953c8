package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/alexanderramin/whittle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var _ dictionary.Reporter = (*Journal)(nil)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	database, uow := testutil.NewTestStore(t)
	return New(database, uow, nil)
}

func TestJournal_RecordsSession(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	j.Start(ctx, "openfoam", "gpt-4o-mini", "/cases/pipe")
	require.NotEmpty(t, j.SessionID())

	j.RecordExchange(ctx, "initial prompt", "reply with controlDict")
	j.DictionaryWritten("controlDict", domain.DictSystem, "/cases/pipe/system/controlDict")
	j.RecordExchange(ctx, "add U", "reply with U")
	j.DictionaryWritten("U", domain.DictInitialCondition, "/cases/pipe/0/U")
	j.DictionaryWritten("controlDict", domain.DictSystem, "/cases/pipe/system/controlDict")
	j.Finish(ctx, domain.OutcomeCompleted)

	history, err := j.History(ctx, "/cases/pipe", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	got := history[0]
	assert.Equal(t, j.SessionID(), got.ID)
	assert.Equal(t, "openfoam", got.Solver)
	assert.Equal(t, domain.OutcomeCompleted, got.Outcome)
	assert.NotNil(t, got.EndedAt)
	assert.Equal(t, 4, got.TurnCount)
	assert.Equal(t, []string{"controlDict", "U"}, got.Written)

	turns, err := j.Turns(ctx, j.SessionID())
	require.NoError(t, err)
	require.Len(t, turns, 4)
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.Seq)
	}
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "initial prompt", turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, turns[3].Role)
	assert.Equal(t, "reply with U", turns[3].Content)
}

func TestJournal_IgnoresCallsBeforeStart(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	j.RecordExchange(ctx, "a", "b")
	j.DictionaryWritten("U", domain.DictInitialCondition, "/x/0/U")
	j.Finish(ctx, domain.OutcomeFailed)

	assert.Empty(t, j.SessionID())
	history, err := j.History(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestJournal_ExchangeIsAtomic(t *testing.T) {
	database := testutil.NewTestDB(t)
	core, logs := observer.New(zap.WarnLevel)
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("disk full")}
	j := New(database, failing, zap.New(core))
	ctx := context.Background()
	j.Start(ctx, "openfoam", "", "/c")

	j.RecordExchange(ctx, "prompt", "reply")

	turns, err := j.Turns(ctx, j.SessionID())
	require.NoError(t, err)
	assert.Empty(t, turns, "user turn rolled back with the failed reply")
	assert.Equal(t, 1, logs.FilterMessage("journal: recording exchange").Len())

	failing.FailOn = 0
	j.RecordExchange(ctx, "prompt", "reply")
	turns, err = j.Turns(ctx, j.SessionID())
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].Seq, "sequence not advanced by the failed exchange")
}

func TestJournal_StorageErrorsAreLoggedNotReturned(t *testing.T) {
	database, uow := testutil.NewTestStore(t)
	core, logs := observer.New(zap.WarnLevel)
	j := New(database, uow, zap.New(core))
	ctx := context.Background()
	j.Start(ctx, "openfoam", "", "/c")
	require.NoError(t, database.Close())

	j.DictionaryWritten("U", domain.DictInitialCondition, "/c/0/U")
	j.Finish(ctx, domain.OutcomeCompleted)

	assert.Equal(t, 1, logs.FilterMessage("journal: recording write").Len())
	assert.Equal(t, 1, logs.FilterMessage("journal: finishing session").Len())
}

func TestJournal_WritesStopWhenSessionCanceled(t *testing.T) {
	database, uow := testutil.NewTestStore(t)
	core, logs := observer.New(zap.WarnLevel)
	j := New(database, uow, zap.New(core))
	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx, "openfoam", "", "/c")

	j.DictionaryWritten("controlDict", domain.DictSystem, "/c/system/controlDict")
	cancel()
	j.DictionaryWritten("U", domain.DictInitialCondition, "/c/0/U")

	history, err := j.History(context.Background(), "/c", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, []string{"controlDict"}, history[0].Written)
	failed := logs.FilterMessage("journal: recording write").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "U", failed[0].ContextMap()["name"])
	assert.Contains(t, failed[0].ContextMap()["error"], context.Canceled.Error())
}

func TestOpen_CreatesCaseJournal(t *testing.T) {
	caseDir := t.TempDir()

	j, err := Open(caseDir, nil)
	require.NoError(t, err)
	j.Start(context.Background(), "openfoam", "", caseDir)
	require.NoError(t, j.Close())

	assert.FileExists(t, db.CasePath(caseDir))

	reopened, err := Open(caseDir, nil)
	require.NoError(t, err)
	defer reopened.Close()
	history, err := reopened.History(context.Background(), caseDir, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.OutcomeRunning, history[0].Outcome)
	assert.Equal(t, filepath.Clean(caseDir), history[0].CaseDir)
}
