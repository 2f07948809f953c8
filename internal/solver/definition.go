package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/llm"
	"github.com/alexanderramin/whittle/internal/mesh"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Definition describes a solver declaratively: where its files go, which
// names are required, how blocks are fenced and how the mesh is built.
type Definition struct {
	ID          string                  `yaml:"id"`
	DisplayName string                  `yaml:"display_name"`
	Fences      []string                `yaml:"fences"`
	Layout      LayoutDefinition        `yaml:"layout"`
	Categories  CategoryDefinition      `yaml:"categories"`
	Required    []RequirementDefinition `yaml:"required"`
	Mesh        []MeshStepDefinition    `yaml:"mesh"`
	Prompts     PromptDefinition        `yaml:"prompts"`
}

// LayoutDefinition names case subdirectories relative to the case root.
// Empty fields fall back to the OpenFOAM layout.
type LayoutDefinition struct {
	System   string   `yaml:"system"`
	Constant string   `yaml:"constant"`
	Initial  string   `yaml:"initial"`
	Extra    []string `yaml:"extra"`
}

// CategoryDefinition lists the names classified as system files and as
// initial conditions. Everything else is a constant file.
type CategoryDefinition struct {
	System  []string `yaml:"system"`
	Initial []string `yaml:"initial"`
}

// RequirementDefinition is either a bare file name or {any_of: [...]}.
type RequirementDefinition struct {
	AnyOf []string
}

func (r *RequirementDefinition) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		r.AnyOf = []string{name}
		return nil
	case yaml.MappingNode:
		var raw struct {
			AnyOf []string `yaml:"any_of"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		r.AnyOf = raw.AnyOf
		return nil
	default:
		return fmt.Errorf("line %d: requirement must be a file name or an any_of list", node.Line)
	}
}

func (r RequirementDefinition) MarshalYAML() (any, error) {
	if len(r.AnyOf) == 1 {
		return r.AnyOf[0], nil
	}
	return map[string][]string{"any_of": r.AnyOf}, nil
}

// Requirement converts the definition into a ledger requirement.
func (r RequirementDefinition) Requirement() dictionary.Requirement {
	if len(r.AnyOf) == 1 {
		return dictionary.Require(r.AnyOf[0])
	}
	return dictionary.RequireAny(r.AnyOf...)
}

// MeshStepDefinition is one meshing command. IfExists is a case-relative
// path that must exist for the step to run.
type MeshStepDefinition struct {
	Command  []string `yaml:"command"`
	IfExists string   `yaml:"if_exists"`
}

// PromptDefinition overrides the generated prompts.
type PromptDefinition struct {
	System  string `yaml:"system"`
	Initial string `yaml:"initial"`
}

// Validate reports the first structural problem in the definition.
func (d Definition) Validate() error {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return fmt.Errorf("solver: id is required")
	}
	if !idPattern.MatchString(strings.ToLower(id)) {
		return fmt.Errorf("solver: id %q must be alphanumeric with - or _", id)
	}
	for _, tag := range d.Fences {
		if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, " \t\n`") {
			return fmt.Errorf("solver %s: invalid fence tag %q", id, tag)
		}
	}
	if err := d.Layout.Spec().Validate(); err != nil {
		return fmt.Errorf("solver %s: %w", id, err)
	}
	if len(d.Required) == 0 {
		return fmt.Errorf("solver %s: at least one required file is needed", id)
	}
	for i, req := range d.Required {
		if len(req.AnyOf) == 0 {
			return fmt.Errorf("solver %s: required[%d] names no files", id, i)
		}
		for _, name := range req.AnyOf {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("solver %s: required[%d] has an empty name", id, i)
			}
		}
	}
	for i, step := range d.Mesh {
		if len(step.Command) == 0 || strings.TrimSpace(step.Command[0]) == "" {
			return fmt.Errorf("solver %s: mesh[%d] command is required", id, i)
		}
		if step.IfExists != "" && (filepath.IsAbs(step.IfExists) || strings.HasPrefix(filepath.Clean(step.IfExists), "..")) {
			return fmt.Errorf("solver %s: mesh[%d] if_exists must stay inside the case", id, i)
		}
	}
	return nil
}

// Normalized returns a copy with defaults applied: lower-case id, display
// name and fence tag derived from the id.
func (d Definition) Normalized() Definition {
	out := d
	out.ID = normalizeID(d.ID)
	out.DisplayName = strings.TrimSpace(d.DisplayName)
	if out.DisplayName == "" {
		out.DisplayName = out.ID
	}
	out.Fences = nil
	for _, tag := range d.Fences {
		out.Fences = append(out.Fences, strings.TrimSpace(tag))
	}
	if len(out.Fences) == 0 {
		out.Fences = []string{out.ID}
	}
	return out
}

// Spec resolves the layout against the OpenFOAM defaults.
func (l LayoutDefinition) Spec() casedir.Spec {
	spec := casedir.OpenFOAMSpec()
	if l.System != "" {
		spec.System = l.System
	}
	if l.Constant != "" {
		spec.Constant = l.Constant
	}
	if l.Initial != "" {
		spec.Initial = l.Initial
	}
	if l.Extra != nil {
		spec.Extra = l.Extra
	}
	return spec
}

// Requirements returns the ledger seed in declaration order.
func (d Definition) Requirements() []dictionary.Requirement {
	reqs := make([]dictionary.Requirement, 0, len(d.Required))
	for _, req := range d.Required {
		reqs = append(reqs, req.Requirement())
	}
	return reqs
}

// MeshSteps converts the mesh section into executor steps.
func (d Definition) MeshSteps() []mesh.Step {
	steps := make([]mesh.Step, 0, len(d.Mesh))
	for _, step := range d.Mesh {
		steps = append(steps, mesh.Step{
			Command:  append([]string(nil), step.Command...),
			IfExists: step.IfExists,
		})
	}
	return steps
}

// Factory assembles the components for a case from the definition.
func (d Definition) Factory() Factory {
	def := d.Normalized()
	return func(ctx context.Context, opts Options) (*Components, error) {
		if strings.TrimSpace(opts.CaseDir) == "" {
			return nil, fmt.Errorf("solver %s: case directory is required", def.ID)
		}
		logger := opts.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		logger = logger.With(zap.String("solver", def.ID))

		manager, paths := def.Dictionaries(opts.CaseDir, opts.Reporter, logger)

		prompts := opts.Prompts
		if prompts == nil {
			prompts = def.PromptSource()
		}

		client := opts.Client
		if client == nil {
			var err error
			client, err = llm.NewClient(ctx, opts.LLM, opts.Observer)
			if err != nil {
				return nil, fmt.Errorf("solver %s: %w", def.ID, err)
			}
		}

		meshOpts := []mesh.Option{mesh.WithLogger(logger.Named("mesh"))}
		if opts.CommandRunner != nil {
			meshOpts = append(meshOpts, mesh.WithCommandRunner(opts.CommandRunner))
		}
		runner := mesh.NewRunner(opts.CaseDir, def.MeshSteps(), opts.MeshOutput, meshOpts...)

		return &Components{
			Prompts:      prompts,
			Conversation: llm.NewConversation(client, prompts.SystemPrompt()),
			Dictionaries: manager,
			Paths:        paths,
			Mesh:         runner,
		}, nil
	}
}

// Dictionaries builds the case layout and the dictionary manager writing
// into it. It needs no model client, so template commands use it directly.
func (d Definition) Dictionaries(caseDir string, reporter dictionary.Reporter, logger *zap.Logger) (*dictionary.Manager, *casedir.Layout) {
	def := d.Normalized()
	if logger == nil {
		logger = zap.NewNop()
	}
	paths := casedir.NewLayout(caseDir, def.Layout.Spec())
	classifier := dictionary.NewSetClassifier(paths, def.Categories.System, def.Categories.Initial)
	writer := dictionary.NewFileWriter(classifier, reporter)
	extractor := dictionary.NewFenceExtractor(def.Fences...)
	return dictionary.NewManager(extractor, classifier, writer, def.Requirements(), logger.Named("dictionary")), paths
}

// DefinitionFile pairs a parsed definition with the file it came from.
type DefinitionFile struct {
	Definition Definition
	Path       string
}

// ParseDefinitionYAML decodes and validates a single solver definition.
func ParseDefinitionYAML(data []byte) (Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Definition{}, fmt.Errorf("solver: definition payload is empty")
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("solver: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def.Normalized(), nil
}

// LoadDefinitionFile reads and parses one YAML definition.
func LoadDefinitionFile(path string) (DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("solver: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DefinitionFile{}, fmt.Errorf("solver: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("solver: read %s: %w", path, err)
	}
	def, err := ParseDefinitionYAML(data)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return DefinitionFile{Definition: def, Path: filepath.Clean(path)}, nil
}

// LoadDefinitionDir parses every *.yaml or *.yml file in dir, sorted by
// path. A missing directory means no plugins.
func LoadDefinitionDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("solver: read %s: %w", trimmed, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		def, err := LoadDefinitionFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Path < defs[j].Path })
	return defs, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
