package casedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver knows where each configuration category lives inside a case.
type PathResolver interface {
	Root() string
	SystemDir() string
	ConstantDir() string
	InitialDir() string

	// EnsureDirectories creates every case subdirectory. Calling it on a
	// populated case is a no-op and never touches existing files.
	EnsureDirectories() error
}

// Spec names the subdirectories of a case, relative to its root.
type Spec struct {
	System   string
	Constant string
	Initial  string
	Extra    []string
}

// OpenFOAMSpec is the standard OpenFOAM case layout.
func OpenFOAMSpec() Spec {
	return Spec{
		System:   "system",
		Constant: "constant",
		Initial:  "0",
		Extra:    []string{filepath.Join("constant", "triSurface")},
	}
}

// Validate rejects empty or escaping subdirectory names.
func (s Spec) Validate() error {
	for label, dir := range map[string]string{"system": s.System, "constant": s.Constant, "initial": s.Initial} {
		if err := checkRelative(dir); err != nil {
			return fmt.Errorf("casedir: %s dir: %w", label, err)
		}
	}
	for _, dir := range s.Extra {
		if err := checkRelative(dir); err != nil {
			return fmt.Errorf("casedir: extra dir: %w", err)
		}
	}
	return nil
}

func checkRelative(dir string) error {
	if dir == "" {
		return fmt.Errorf("name is required")
	}
	if filepath.IsAbs(dir) {
		return fmt.Errorf("%q must be relative to the case root", dir)
	}
	clean := filepath.Clean(dir)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%q escapes the case root", dir)
	}
	return nil
}

// Layout is a PathResolver rooted at one case directory.
type Layout struct {
	root     string
	system   string
	constant string
	initial  string
	extra    []string
}

// NewLayout resolves spec against root.
func NewLayout(root string, spec Spec) *Layout {
	extra := make([]string, 0, len(spec.Extra))
	for _, dir := range spec.Extra {
		extra = append(extra, filepath.Join(root, dir))
	}
	return &Layout{
		root:     root,
		system:   filepath.Join(root, spec.System),
		constant: filepath.Join(root, spec.Constant),
		initial:  filepath.Join(root, spec.Initial),
		extra:    extra,
	}
}

// NewOpenFOAMLayout returns the system/, constant/, 0/ layout with
// constant/triSurface for surface geometry.
func NewOpenFOAMLayout(root string) *Layout {
	return NewLayout(root, OpenFOAMSpec())
}

func (l *Layout) Root() string        { return l.root }
func (l *Layout) SystemDir() string   { return l.system }
func (l *Layout) ConstantDir() string { return l.constant }
func (l *Layout) InitialDir() string  { return l.initial }

// SurfaceDir is where surface geometry for snappyHexMesh is read from.
func (l *Layout) SurfaceDir() string {
	return filepath.Join(l.constant, "triSurface")
}

func (l *Layout) EnsureDirectories() error {
	dirs := append([]string{l.system, l.constant, l.initial}, l.extra...)
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating case directory %s: %w", dir, err)
		}
	}
	return nil
}
