// Package cli wires whittle's commands: the interactive session on a case
// directory, the journal history and the solver list.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/whittle/internal/assistant"
	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/alexanderramin/whittle/internal/config"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/journal"
	"github.com/alexanderramin/whittle/internal/llm"
	"github.com/alexanderramin/whittle/internal/logging"
	"github.com/alexanderramin/whittle/internal/solver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd creates the top-level "whittle" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "whittle [CASE_DIR]",
		Short: "AI assistant for OpenFOAM case setup and meshing",
		Long: `Whittle talks you through a CFD case: it asks a language model for the
dictionaries your case needs, writes them into the case directory and runs
the mesh tools once every required file is present. "whittle template" writes
the mesh dictionaries from built-in templates instead.

During a session type "generate" to ask for the missing required files,
"run" to generate the mesh, or "done" to finish.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, app, args)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	if app.In != nil {
		root.SetIn(app.In)
	}
	if app.Out != nil {
		root.SetOut(app.Out)
	}
	if app.Err != nil {
		root.SetErr(app.Err)
	}

	root.AddCommand(
		newHistoryCmd(app),
		newSolversCmd(app),
		newTemplateCmd(app),
	)
	return root
}

// ReportError prints err, and for a missing credential the ways to set one.
func ReportError(w io.Writer, err error) {
	fmt.Fprintln(w, formatter.StyleRed.Render("Error: "+err.Error()))
	var credErr *config.CredentialError
	if errors.As(err, &credErr) {
		fmt.Fprintln(w, "Please provide it through one of:")
		for _, line := range credErr.Remediation() {
			fmt.Fprintln(w, "  - "+line)
		}
	}
}

func loadSettings(cmd *cobra.Command, app *App) (*config.Settings, *solver.Registry, error) {
	settings, err := config.Load(cmd.Flags(), app.Paths)
	if err != nil {
		return nil, nil, err
	}
	registry, err := solver.NewDefaultRegistry(settings.PluginsDir)
	if err != nil {
		return nil, nil, err
	}
	return settings, registry, nil
}

// openJournal returns nil when the journal is off or cannot be opened; the
// session goes on without it.
func openJournal(settings *config.Settings, caseDir string, logger *zap.Logger) *journal.Journal {
	if settings.NoJournal {
		return nil
	}
	jrnl, err := journal.Open(caseDir, logger.Named("journal"))
	if err != nil {
		logger.Warn("journal disabled", zap.Error(err))
		return nil
	}
	return jrnl
}

func runSession(cmd *cobra.Command, app *App, args []string) error {
	settings, registry, err := loadSettings(cmd, app)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if settings.ListSolvers {
		fmt.Fprintln(out, formatter.FormatSolverList(registry.IDs(), registry.DisplayName))
		return nil
	}

	if app.Client == nil {
		if err := settings.Validate(); err != nil {
			return err
		}
	}
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	caseDir, err := config.ValidateCaseDir(path)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Verbose: settings.Verbose, File: logging.CaseLogPath(caseDir)})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	display := newTerminalDisplay(out, app.interactive())
	reporters := dictionary.MultiReporter{display}
	jrnl := openJournal(settings, caseDir, logger)
	if jrnl != nil {
		defer func() { _ = jrnl.Close() }()
		reporters = append(reporters, jrnl)
	}

	var observer llm.Observer = llm.NoopObserver{}
	if settings.LLM.LogCalls {
		observer = llm.NewLogObserver(logger.Named("llm"))
	}

	components, err := registry.Create(ctx, settings.Solver, solver.Options{
		CaseDir:       caseDir,
		LLM:           settings.LLM,
		Client:        app.Client,
		Observer:      observer,
		Reporter:      reporters,
		Logger:        logger,
		MeshOutput:    out,
		CommandRunner: app.CommandRunner,
	})
	if err != nil {
		return err
	}

	opts := []assistant.Option{assistant.WithLogger(logger.Named("assistant"))}
	if jrnl != nil {
		jrnl.Start(ctx, strings.ToLower(strings.TrimSpace(settings.Solver)), settings.LLM.Model, caseDir)
		opts = append(opts, assistant.WithJournal(jrnl))
	}

	logger.Info("session starting",
		zap.String("solver", settings.Solver),
		zap.String("provider", string(settings.LLM.Provider)),
		zap.String("model", settings.LLM.Model),
		zap.String("case_dir", caseDir))

	a := assistant.New(
		registry.DisplayName(settings.Solver),
		assistant.PartsFrom(components),
		newInput(cmd.InOrStdin(), out, app.interactive()),
		display,
		opts...,
	)
	return a.Run(ctx)
}
