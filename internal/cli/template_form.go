package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/whittle/internal/template"
	"github.com/charmbracelet/huh"
)

// askTemplate fills f from a sequence of huh prompts, starting from the
// values f already holds.
func askTemplate(ctx context.Context, f *templateFlags) error {
	var hasGeometry bool
	complexity := f.complexity
	if err := runTemplateForm(ctx, huh.NewGroup(
		huh.NewConfirm().
			Title("Do you have CAD geometry (STL/OBJ/etc)?").
			Value(&hasGeometry),
	)); err != nil {
		return err
	}

	if hasGeometry {
		if err := runTemplateForm(ctx, huh.NewGroup(
			huh.NewSelect[string]().
				Title("How would you describe the geometry complexity?").
				Options(
					huh.NewOption("Simple", string(template.ComplexitySimple)),
					huh.NewOption("Moderate", string(template.ComplexityModerate)),
					huh.NewOption("Complex", string(template.ComplexityComplex)),
				).
				Value(&complexity),
		)); err != nil {
			return err
		}
	}
	f.complexity = complexity

	if template.ChooseStrategy(hasGeometry, template.Complexity(complexity)) == template.StrategySnappy {
		return askSurface(ctx, f)
	}
	f.geometry = ""
	return askBox(ctx, f)
}

func askSurface(ctx context.Context, f *templateFlags) error {
	layers := strconv.Itoa(f.layers)
	err := runTemplateForm(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Path to your STL file").
			Value(&f.geometry).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a geometry file is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Number of surface layers").
			Placeholder(layers).
			Value(&layers).
			Validate(validateNonNegativeInt),
	))
	if err != nil {
		return err
	}
	if strings.TrimSpace(layers) != "" {
		f.layers, _ = strconv.Atoi(strings.TrimSpace(layers))
	}
	return nil
}

func askBox(ctx context.Context, f *templateFlags) error {
	lo, hi, cells := joinFloats(f.min), joinFloats(f.max), joinInts(f.cells)
	err := runTemplateForm(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Minimum corner (x,y,z)").
			Value(&lo).
			Validate(func(s string) error { _, err := parseFloats(s); return err }),
		huh.NewInput().
			Title("Maximum corner (x,y,z)").
			Value(&hi).
			Validate(func(s string) error { _, err := parseFloats(s); return err }),
		huh.NewInput().
			Title("Cells along x,y,z").
			Value(&cells).
			Validate(func(s string) error { _, err := parseInts(s); return err }),
	))
	if err != nil {
		return err
	}
	if f.min, err = parseFloats(lo); err != nil {
		return err
	}
	if f.max, err = parseFloats(hi); err != nil {
		return err
	}
	f.cells, err = parseInts(cells)
	return err
}

func runTemplateForm(ctx context.Context, group *huh.Group) error {
	err := huh.NewForm(group).
		WithTheme(whittleHuhTheme()).
		WithShowHelp(false).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("template setup canceled")
	}
	return err
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
