// Package assistant drives one interactive case-setup session: it sends the
// user's turns to the model, writes the dictionaries found in each reply and
// runs the mesh once every required file exists.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/alexanderramin/whittle/internal/mesh"
	"github.com/alexanderramin/whittle/internal/solver"
	"go.uber.org/zap"
)

// State is a node of the session state machine.
type State string

const (
	StateInit            State = "INIT"
	StateAwaitingInput   State = "AWAITING_INPUT"
	StateProcessingReply State = "PROCESSING_REPLY"
	StateRunningMesh     State = "RUNNING_MESH"
	StateDone            State = "DONE"
)

// Reserved input commands.
const (
	CommandDone     = "done"
	CommandRun      = "run"
	CommandGenerate = "generate"
)

// Conversation sends one user turn and returns the model's reply.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
}

// Dictionaries writes the dictionaries of a reply and tracks the required set.
type Dictionaries interface {
	ProcessReply(text string) error
	MissingRequired() []string
	Progress() (met, total int)
}

// Input yields one line of user text. It returns io.EOF once input ends.
type Input interface {
	ReadLine(ctx context.Context) (string, error)
}

// Display shows session progress to the user.
type Display interface {
	Welcome(solverName string)
	Reply(text string)
	Reminder(missing []string, met, total int)
	Missing(title string, missing []string)
	Info(message string)
	Error(err error)
	Busy(message string, fn func() error) error
	NextSteps()
}

// Journal records the session. Implementations must not fail the session.
type Journal interface {
	RecordExchange(ctx context.Context, prompt, reply string)
	Finish(ctx context.Context, outcome domain.SessionOutcome)
}

// Parts are the solver collaborators a session works with.
type Parts struct {
	Prompts      solver.PromptSource
	Conversation Conversation
	Dictionaries Dictionaries
	Paths        casedir.PathResolver
	Mesh         mesh.Executor
}

// PartsFrom adapts a solver component bundle.
func PartsFrom(c *solver.Components) Parts {
	return Parts{
		Prompts:      c.Prompts,
		Conversation: c.Conversation,
		Dictionaries: c.Dictionaries,
		Paths:        c.Paths,
		Mesh:         c.Mesh,
	}
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithJournal records the session in j.
func WithJournal(j Journal) Option {
	return func(a *Assistant) {
		if j != nil {
			a.journal = j
		}
	}
}

// WithLogger sets the logger for state transitions and failures.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Assistant is the session state machine. It is not safe for concurrent use.
type Assistant struct {
	solverName string
	parts      Parts
	in         Input
	out        Display
	journal    Journal
	logger     *zap.Logger

	state    State
	failures int
	meshed   bool
}

// New creates an Assistant in StateInit.
func New(solverName string, parts Parts, in Input, out Display, opts ...Option) *Assistant {
	a := &Assistant{
		solverName: solverName,
		parts:      parts,
		in:         in,
		out:        out,
		journal:    nopJournal{},
		logger:     zap.NewNop(),
		state:      StateInit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current state.
func (a *Assistant) State() State {
	return a.state
}

// Run drives the session until it reaches StateDone or cannot continue.
// Failed turns are reported as they happen; if any occurred, Run returns
// ErrTurnsFailed after the session is done.
func (a *Assistant) Run(ctx context.Context) error {
	err := a.loop(ctx)
	if err == nil && a.failures > 0 {
		err = fmt.Errorf("%w: %d failed", ErrTurnsFailed, a.failures)
	}

	outcome := domain.OutcomeCompleted
	switch {
	case err != nil:
		outcome = domain.OutcomeFailed
	case a.meshed:
		outcome = domain.OutcomeMeshed
	}
	a.journal.Finish(context.WithoutCancel(ctx), outcome)
	a.logger.Info("session finished", zap.String("outcome", string(outcome)), zap.Int("failures", a.failures))
	return err
}

func (a *Assistant) loop(ctx context.Context) error {
	for {
		switch a.state {
		case StateInit:
			if err := a.init(ctx); err != nil {
				return err
			}
		case StateAwaitingInput:
			if err := a.awaitInput(ctx); err != nil {
				return err
			}
		case StateRunningMesh:
			a.runMesh(ctx)
		case StateDone:
			a.out.NextSteps()
			return nil
		default:
			return fmt.Errorf("assistant: unexpected state %s", a.state)
		}
	}
}

func (a *Assistant) init(ctx context.Context) error {
	a.out.Welcome(a.solverName)
	if err := a.parts.Paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("preparing case directory: %w", err)
	}
	a.exchange(ctx, a.parts.Prompts.InitialPrompt())
	a.transition(StateAwaitingInput)
	return nil
}

func (a *Assistant) awaitInput(ctx context.Context) error {
	if missing := a.parts.Dictionaries.MissingRequired(); len(missing) > 0 {
		met, total := a.parts.Dictionaries.Progress()
		a.out.Reminder(missing, met, total)
	}

	line, err := a.in.ReadLine(ctx)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		if len(a.parts.Dictionaries.MissingRequired()) > 0 {
			return ErrInputClosed
		}
		a.transition(StateDone)
		return nil
	}

	text := strings.TrimSpace(line)
	switch strings.ToLower(text) {
	case "":
	case CommandDone:
		if missing := a.parts.Dictionaries.MissingRequired(); len(missing) > 0 {
			a.out.Missing("Cannot finish yet. Missing required files:", missing)
			return nil
		}
		a.transition(StateDone)
	case CommandRun:
		if !a.fillGaps(ctx) {
			return nil
		}
		a.transition(StateRunningMesh)
	case CommandGenerate:
		if len(a.parts.Dictionaries.MissingRequired()) == 0 {
			a.out.Info("All required files are present.")
			return nil
		}
		a.fillGaps(ctx)
	default:
		a.exchange(ctx, text)
	}
	return nil
}

// fillGaps asks the model for the missing required files, if any, and
// reports whether the required set is complete afterwards.
func (a *Assistant) fillGaps(ctx context.Context) bool {
	missing := a.parts.Dictionaries.MissingRequired()
	if len(missing) == 0 {
		return true
	}
	a.out.Missing("Generating missing required files:", missing)
	a.exchange(ctx, a.parts.Prompts.MissingFilesPrompt(missing))

	if still := a.parts.Dictionaries.MissingRequired(); len(still) > 0 {
		a.out.Missing("Still missing required files:", still)
		return false
	}
	return true
}

// exchange sends prompt, shows the reply and writes its dictionaries.
// Failures are reported and counted; the session carries on.
func (a *Assistant) exchange(ctx context.Context, prompt string) {
	var reply string
	err := a.out.Busy("Thinking...", func() error {
		var err error
		reply, err = a.parts.Conversation.Send(ctx, prompt)
		return err
	})
	if err != nil {
		a.fail(fmt.Errorf("asking the model: %w", err))
		return
	}
	a.journal.RecordExchange(ctx, prompt, reply)

	prev := a.state
	a.transition(StateProcessingReply)
	defer a.transition(prev)

	a.out.Reply(reply)
	if err := a.parts.Dictionaries.ProcessReply(reply); err != nil {
		a.fail(fmt.Errorf("processing reply: %w", err))
	}
}

func (a *Assistant) runMesh(ctx context.Context) {
	a.out.Info("Running mesh generation...")
	if err := a.parts.Mesh.Run(ctx); err != nil {
		a.fail(fmt.Errorf("mesh generation: %w", err))
		a.transition(StateAwaitingInput)
		return
	}
	a.meshed = true
	a.transition(StateDone)
}

func (a *Assistant) fail(err error) {
	a.failures++
	a.logger.Error("session step failed", zap.String("state", string(a.state)), zap.Error(err))
	a.out.Error(err)
}

func (a *Assistant) transition(to State) {
	if a.state == to {
		return
	}
	a.logger.Debug("state transition", zap.String("from", string(a.state)), zap.String("to", string(to)))
	a.state = to
}

type nopJournal struct{}

func (nopJournal) RecordExchange(context.Context, string, string) {}
func (nopJournal) Finish(context.Context, domain.SessionOutcome)  {}
