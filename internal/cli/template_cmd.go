package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/alexanderramin/whittle/internal/config"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/alexanderramin/whittle/internal/logging"
	"github.com/alexanderramin/whittle/internal/solver"
	"github.com/alexanderramin/whittle/internal/template"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// templateFlags holds the mesh description given on the command line or
// collected by the interactive form.
type templateFlags struct {
	geometry   string
	complexity string
	min        []float64
	max        []float64
	cells      []int
	layers     int
	inside     []float64
}

var templateFlagNames = []string{"geometry", "complexity", "min", "max", "cells", "layers", "inside"}

func newTemplateCmd(app *App) *cobra.Command {
	var f templateFlags
	box := template.DefaultBox()
	inside := template.DefaultInside()

	cmd := &cobra.Command{
		Use:   "template CASE_DIR",
		Short: "Write OpenFOAM mesh dictionaries from built-in templates",
		Long: `Write a blockMeshDict for a box domain, or a snappyHexMeshDict plus a
background blockMeshDict for a surface file, without asking the model.

Pass --geometry to mesh around an STL file; it is copied into
constant/triSurface. On a terminal with no mesh flags set, whittle asks for
the values instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd, app, &f, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.geometry, "geometry", "", "Surface file to mesh around with snappyHexMesh")
	fs.StringVar(&f.complexity, "complexity", string(template.ComplexityModerate), "Geometry complexity: simple, moderate or complex")
	fs.Float64SliceVar(&f.min, "min", []float64{box.Min.X, box.Min.Y, box.Min.Z}, "Box minimum corner x,y,z")
	fs.Float64SliceVar(&f.max, "max", []float64{box.Max.X, box.Max.Y, box.Max.Z}, "Box maximum corner x,y,z")
	fs.IntSliceVar(&f.cells, "cells", []int{box.Cells.X, box.Cells.Y, box.Cells.Z}, "Cells along x,y,z")
	fs.IntVar(&f.layers, "layers", 3, "Surface layers for snappyHexMesh")
	fs.Float64SliceVar(&f.inside, "inside", []float64{inside.X, inside.Y, inside.Z}, "Point in the fluid region for snappyHexMesh")
	return cmd
}

func runTemplate(cmd *cobra.Command, app *App, f *templateFlags, path string) error {
	settings, err := config.Load(cmd.Flags(), app.Paths)
	if err != nil {
		return err
	}
	caseDir, err := config.ValidateCaseDir(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if app.interactive() && !anyFlagChanged(cmd, templateFlagNames) {
		if err := askTemplate(ctx, f); err != nil {
			return err
		}
	}
	plan, err := f.plan()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Verbose: settings.Verbose, File: logging.CaseLogPath(caseDir)})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	reporters := dictionary.MultiReporter{newTerminalDisplay(out, app.interactive())}
	jrnl := openJournal(settings, caseDir, logger)
	if jrnl != nil {
		defer func() { _ = jrnl.Close() }()
		reporters = append(reporters, jrnl)
	}

	def := solver.OpenFOAM()
	manager, paths := def.Dictionaries(caseDir, reporters, logger)
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("preparing case directory: %w", err)
	}

	logger.Info("template setup starting",
		zap.String("strategy", string(plan.Strategy)),
		zap.String("case_dir", caseDir))
	if jrnl != nil {
		jrnl.Start(ctx, def.ID, "", caseDir)
	}

	res, err := template.Apply(plan, paths.SurfaceDir(), manager)
	if jrnl != nil {
		outcome := domain.OutcomeCompleted
		if err != nil {
			outcome = domain.OutcomeFailed
		}
		jrnl.Finish(context.WithoutCancel(ctx), outcome)
	}
	if err != nil {
		return err
	}

	if res.Surface != "" {
		fmt.Fprintln(out, formatter.FormatCopied(res.Surface))
	}
	tools := []string{"blockMesh"}
	if plan.Strategy == template.StrategySnappy {
		tools = append(tools, "snappyHexMesh")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.FormatTemplateNextSteps(tools))
	if missing := manager.MissingRequired(); len(missing) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, formatter.FormatMissing("Still needed before running the solver:", missing))
	}
	return nil
}

func (f *templateFlags) plan() (template.Plan, error) {
	complexity := template.Complexity(strings.ToLower(strings.TrimSpace(f.complexity)))
	switch complexity {
	case template.ComplexitySimple, template.ComplexityModerate, template.ComplexityComplex:
	default:
		return template.Plan{}, fmt.Errorf("unknown complexity %q (want simple, moderate or complex)", f.complexity)
	}

	geometry := strings.TrimSpace(f.geometry)
	plan := template.Plan{
		Strategy: template.ChooseStrategy(geometry != "", complexity),
		Geometry: geometry,
		Layers:   f.layers,
	}
	if plan.Strategy == template.StrategySnappy {
		inside, err := vec("inside", f.inside)
		if err != nil {
			return template.Plan{}, err
		}
		plan.Inside = inside
		return plan, nil
	}

	lo, err := vec("min", f.min)
	if err != nil {
		return template.Plan{}, err
	}
	hi, err := vec("max", f.max)
	if err != nil {
		return template.Plan{}, err
	}
	if len(f.cells) != 3 {
		return template.Plan{}, fmt.Errorf("--cells needs 3 values, got %d", len(f.cells))
	}
	plan.Box = template.Box{
		Min:   lo,
		Max:   hi,
		Cells: template.Cells{X: f.cells[0], Y: f.cells[1], Z: f.cells[2]},
	}
	return plan, nil
}

func vec(name string, v []float64) (template.Vec, error) {
	if len(v) != 3 {
		return template.Vec{}, fmt.Errorf("--%s needs 3 values, got %d", name, len(v))
	}
	return template.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func anyFlagChanged(cmd *cobra.Command, names []string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// parseFloats reads "x,y,z" as typed into a form field.
func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", strings.TrimSpace(p))
		}
		out = append(out, v)
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("enter three comma-separated numbers")
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%q is not a positive whole number", strings.TrimSpace(p))
		}
		out = append(out, v)
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("enter three comma-separated numbers")
	}
	return out, nil
}
