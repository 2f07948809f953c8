package template

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrGeometryNotFound = errors.New("geometry file not found")

// Strategy names the mesh tool a plan is written for.
type Strategy string

const (
	StrategyBlockMesh Strategy = "blockMesh"
	StrategySnappy    Strategy = "snappyHexMesh"
)

// Complexity is how the user describes their geometry.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// ChooseStrategy picks blockMesh unless there is CAD geometry that is more
// than simple.
func ChooseStrategy(hasGeometry bool, complexity Complexity) Strategy {
	if hasGeometry && complexity != ComplexitySimple {
		return StrategySnappy
	}
	return StrategyBlockMesh
}

// Plan is everything needed to write one strategy's dictionaries.
type Plan struct {
	Strategy Strategy
	// Box is the blockMesh domain. Snappy plans use BackgroundBox instead.
	Box Box
	// Geometry is the path of the surface file to copy into the case.
	Geometry string
	Layers   int
	Inside   Vec
}

// DefaultInside is a point well inside BackgroundBox and away from its
// centre, where geometry usually sits.
func DefaultInside() Vec {
	return Vec{X: 0.9, Y: 0.9, Z: 0.9}
}

// Store persists a rendered dictionary. dictionary.Manager satisfies it.
type Store interface {
	Store(name, content string) error
}

// Result lists what Apply put into the case.
type Result struct {
	Written []string
	// Surface is the copied geometry path, empty for blockMesh plans.
	Surface string
}

// Apply renders the plan's dictionaries into store. For snappy plans the
// geometry is copied into surfaceDir first, so a missing file writes
// nothing.
func Apply(plan Plan, surfaceDir string, store Store) (*Result, error) {
	switch plan.Strategy {
	case StrategyBlockMesh:
		content, err := BlockMeshDict(plan.Box)
		if err != nil {
			return nil, err
		}
		if err := store.Store("blockMeshDict", content); err != nil {
			return nil, err
		}
		return &Result{Written: []string{"blockMeshDict"}}, nil

	case StrategySnappy:
		return applySnappy(plan, surfaceDir, store)

	default:
		return nil, fmt.Errorf("unknown mesh strategy %q", plan.Strategy)
	}
}

func applySnappy(plan Plan, surfaceDir string, store Store) (*Result, error) {
	if strings.TrimSpace(plan.Geometry) == "" {
		return nil, fmt.Errorf("%w: no path given", ErrGeometryNotFound)
	}
	surface := Surface{File: filepath.Base(plan.Geometry), Layers: plan.Layers, Inside: plan.Inside}
	snappy, err := SnappyHexMeshDict(surface)
	if err != nil {
		return nil, err
	}
	background := BackgroundBox()
	if !background.Contains(plan.Inside) {
		return nil, fmt.Errorf("%w: location in mesh (%s %s %s) is outside the background box",
			ErrInvalidSurface, formatNum(plan.Inside.X), formatNum(plan.Inside.Y), formatNum(plan.Inside.Z))
	}
	blockMesh, err := BlockMeshDict(background)
	if err != nil {
		return nil, err
	}

	target, err := copyGeometry(plan.Geometry, surfaceDir)
	if err != nil {
		return nil, err
	}
	res := &Result{Surface: target}
	for _, d := range []struct{ name, content string }{
		{"snappyHexMeshDict", snappy},
		{"blockMeshDict", blockMesh},
	} {
		if err := store.Store(d.name, d.content); err != nil {
			return res, err
		}
		res.Written = append(res.Written, d.name)
	}
	return res, nil
}

func copyGeometry(src, dir string) (string, error) {
	in, err := os.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrGeometryNotFound, src)
	}
	if err != nil {
		return "", fmt.Errorf("opening geometry: %w", err)
	}
	defer in.Close()

	if info, err := in.Stat(); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrGeometryNotFound, src)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	target := filepath.Join(dir, filepath.Base(src))
	if sameFile(src, target) {
		return target, nil
	}
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("copying geometry: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("copying geometry: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("copying geometry: %w", err)
	}
	return target, nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
