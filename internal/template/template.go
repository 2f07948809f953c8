// Package template renders OpenFOAM mesh dictionaries from fixed templates,
// for cases that are set up without asking the model.
package template

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	texttemplate "text/template"
)

//go:embed dicts/*.tmpl
var dicts embed.FS

var (
	ErrInvalidBox     = errors.New("invalid box")
	ErrInvalidSurface = errors.New("invalid surface")
)

var dictTemplates = texttemplate.Must(
	texttemplate.New("dicts").
		Funcs(texttemplate.FuncMap{"num": formatNum}).
		ParseFS(dicts, "dicts/*.tmpl"),
)

// Vec is a point in case coordinates.
type Vec struct {
	X, Y, Z float64
}

// Cells counts hex cells along each axis.
type Cells struct {
	X, Y, Z int
}

// Box is an axis-aligned single-block domain.
type Box struct {
	Min   Vec
	Max   Vec
	Cells Cells
}

// DefaultBox is a unit square, one tenth deep, at 20 cells per axis.
func DefaultBox() Box {
	return Box{
		Max:   Vec{X: 1, Y: 1, Z: 0.1},
		Cells: Cells{X: 20, Y: 20, Z: 20},
	}
}

// BackgroundBox is the domain snappyHexMesh refines around a surface.
func BackgroundBox() Box {
	return Box{
		Min:   Vec{X: -1, Y: -1, Z: -1},
		Max:   Vec{X: 1, Y: 1, Z: 1},
		Cells: Cells{X: 20, Y: 20, Z: 20},
	}
}

func (b Box) Validate() error {
	axes := []struct {
		name     string
		min, max float64
		cells    int
	}{
		{"x", b.Min.X, b.Max.X, b.Cells.X},
		{"y", b.Min.Y, b.Max.Y, b.Cells.Y},
		{"z", b.Min.Z, b.Max.Z, b.Cells.Z},
	}
	for _, a := range axes {
		if a.max <= a.min {
			return fmt.Errorf("%w: %s max %s must exceed min %s", ErrInvalidBox, a.name, formatNum(a.max), formatNum(a.min))
		}
		if a.cells < 1 {
			return fmt.Errorf("%w: %s needs at least one cell, got %d", ErrInvalidBox, a.name, a.cells)
		}
	}
	return nil
}

// Contains reports whether p lies strictly inside the box.
func (b Box) Contains(p Vec) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

type patch struct {
	Name string
	Face string
}

// Vertex numbering follows the blockMesh hex convention; faces point outward.
var boxPatches = []patch{
	{"minX", "0 4 7 3"},
	{"maxX", "1 2 6 5"},
	{"minY", "0 1 5 4"},
	{"maxY", "3 7 6 2"},
	{"minZ", "0 3 2 1"},
	{"maxZ", "4 5 6 7"},
}

// BlockMeshDict renders a blockMeshDict with one patch per box face.
func BlockMeshDict(b Box) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	return render("blockMeshDict.tmpl", struct {
		Box
		Patches []patch
	}{b, boxPatches})
}

var surfaceName = regexp.MustCompile(`^\w[\w.-]*$`)

// Surface is a triangulated geometry refined and snapped to by
// snappyHexMesh.
type Surface struct {
	// File is the base name inside constant/triSurface, e.g. "wing.stl".
	File   string
	Layers int
	// Inside is locationInMesh: a point in the fluid, outside the body.
	Inside Vec
}

// Name is File without its extension. It keys the geometry entry.
func (s Surface) Name() string {
	return strings.TrimSuffix(s.File, filepath.Ext(s.File))
}

func (s Surface) Validate() error {
	if s.File != filepath.Base(s.File) {
		return fmt.Errorf("%w: %q must be a bare file name", ErrInvalidSurface, s.File)
	}
	if !surfaceName.MatchString(s.Name()) {
		return fmt.Errorf("%w: %q is not a usable geometry name", ErrInvalidSurface, s.File)
	}
	if s.Layers < 0 {
		return fmt.Errorf("%w: layer count %d is negative", ErrInvalidSurface, s.Layers)
	}
	return nil
}

// SnappyHexMeshDict renders a snappyHexMeshDict for one surface.
func SnappyHexMeshDict(s Surface) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	return render("snappyHexMeshDict.tmpl", struct {
		Name   string
		File   string
		Layers int
		Inside Vec
	}{s.Name(), s.File, s.Layers, s.Inside})
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := dictTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", strings.TrimSuffix(name, ".tmpl"), err)
	}
	return sb.String(), nil
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
