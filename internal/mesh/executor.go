package mesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrCommandFailed indicates a mesh step exited unsuccessfully.
var ErrCommandFailed = errors.New("mesh command failed")

// Executor runs the external meshing and mesh-checking tools for a case.
type Executor interface {
	Run(ctx context.Context) error
}

// Step is one external command. When IfExists is set, the step only runs if
// that case-relative path exists.
type Step struct {
	Command  []string
	IfExists string
}

// Name is the executable name, used for the log file suffix.
func (s Step) Name() string {
	if len(s.Command) == 0 {
		return ""
	}
	return filepath.Base(s.Command[0])
}

// CommandRunner starts one process in dir and blocks until it exits.
type CommandRunner func(ctx context.Context, dir string, out io.Writer, name string, args ...string) error

// ExecRunner runs the command with os/exec, sending stdout and stderr to out.
func ExecRunner(ctx context.Context, dir string, out io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// Runner executes a fixed list of steps in the case directory. Each step's
// output goes to the configured writer and to <case>/log.<command>.
type Runner struct {
	caseDir string
	steps   []Step
	out     io.Writer
	run     CommandRunner
	logger  *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommandRunner replaces the process launcher.
func WithCommandRunner(run CommandRunner) Option {
	return func(r *Runner) { r.run = run }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner. out may be nil to discard tool output.
func NewRunner(caseDir string, steps []Step, out io.Writer, opts ...Option) *Runner {
	if out == nil {
		out = io.Discard
	}
	r := &Runner{
		caseDir: caseDir,
		steps:   steps,
		out:     out,
		run:     ExecRunner,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Steps returns the configured steps.
func (r *Runner) Steps() []Step {
	return append([]Step(nil), r.steps...)
}

// Run executes the steps in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context) error {
	for _, step := range r.steps {
		if len(step.Command) == 0 {
			continue
		}
		if step.IfExists != "" {
			if _, err := os.Stat(filepath.Join(r.caseDir, step.IfExists)); err != nil {
				r.logger.Debug("skipping mesh step",
					zap.String("command", step.Name()),
					zap.String("missing", step.IfExists))
				continue
			}
		}
		if err := r.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	logPath := filepath.Join(r.caseDir, "log."+step.Name())
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", logPath, err)
	}
	defer logFile.Close()

	r.logger.Info("running mesh step",
		zap.Strings("command", step.Command),
		zap.String("log", logPath))

	out := io.MultiWriter(r.out, logFile)
	if err := r.run(ctx, r.caseDir, out, step.Command[0], step.Command[1:]...); err != nil {
		r.logger.Error("mesh step failed", zap.String("command", step.Name()), zap.Error(err))
		return fmt.Errorf("%w: %s: %w (see %s)", ErrCommandFailed, step.Name(), err, logPath)
	}
	return nil
}
