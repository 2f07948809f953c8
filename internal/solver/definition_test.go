package solver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/dictionary"
	"github.com/alexanderramin/whittle/internal/mesh"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const su2YAML = `
id: SU2
display_name: SU2
fences: [su2, cfg]
layout:
  system: config
  constant: mesh
  initial: restart
  extra: []
categories:
  system: [solver.cfg]
  initial: [restart.dat]
required:
  - solver.cfg
  - any_of: [mesh.su2, mesh.cgns]
mesh:
  - command: [SU2_DEF, solver.cfg]
    if_exists: config/solver.cfg
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(su2YAML))
	require.NoError(t, err)

	assert.Equal(t, "su2", def.ID)
	assert.Equal(t, "SU2", def.DisplayName)
	assert.Equal(t, []string{"su2", "cfg"}, def.Fences)
	spec := def.Layout.Spec()
	assert.Equal(t, "config", spec.System)
	assert.Equal(t, "mesh", spec.Constant)
	assert.Equal(t, "restart", spec.Initial)
	assert.Empty(t, spec.Extra)

	wantReqs := []dictionary.Requirement{
		dictionary.Require("solver.cfg"),
		dictionary.RequireAny("mesh.su2", "mesh.cgns"),
	}
	if diff := cmp.Diff(wantReqs, def.Requirements()); diff != "" {
		t.Errorf("requirements mismatch (-want +got):\n%s", diff)
	}
	wantSteps := []mesh.Step{{Command: []string{"SU2_DEF", "solver.cfg"}, IfExists: "config/solver.cfg"}}
	if diff := cmp.Diff(wantSteps, def.MeshSteps()); diff != "" {
		t.Errorf("mesh steps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefinitionYAML_Defaults(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte("id: tiny\nrequired: [a]\n"))
	require.NoError(t, err)

	assert.Equal(t, "tiny", def.DisplayName)
	assert.Equal(t, []string{"tiny"}, def.Fences)
	assert.Equal(t, casedir.OpenFOAMSpec(), def.Layout.Spec())
	assert.Empty(t, def.MeshSteps())
}

func TestParseDefinitionYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "   \n"},
		{"malformed", "id: [unterminated"},
		{"missing id", "required: [a]"},
		{"bad id", "id: 'open foam'\nrequired: [a]"},
		{"no requirements", "id: x"},
		{"empty any_of", "id: x\nrequired:\n  - any_of: []"},
		{"sequence requirement", "id: x\nrequired:\n  - [a, b]"},
		{"escaping layout", "id: x\nlayout: {system: ../sys}\nrequired: [a]"},
		{"absolute layout", "id: x\nlayout: {initial: /tmp/0}\nrequired: [a]"},
		{"empty mesh command", "id: x\nrequired: [a]\nmesh:\n  - command: []"},
		{"escaping if_exists", "id: x\nrequired: [a]\nmesh:\n  - command: [m]\n    if_exists: ../x"},
		{"bad fence", "id: x\nfences: ['a b']\nrequired: [a]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitionYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("id: beta\nrequired: [a]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("id: alpha\nrequired: [a]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	defs, err := LoadDefinitionDir(dir)
	require.NoError(t, err)

	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Definition.ID)
	assert.Equal(t, filepath.Join(dir, "a.yaml"), defs[0].Path)
	assert.Equal(t, "beta", defs[1].Definition.ID)
}

func TestLoadDefinitionDir_Missing(t *testing.T) {
	defs, err := LoadDefinitionDir(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Empty(t, defs)

	defs, err = LoadDefinitionDir("  ")
	assert.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoadDefinitionDir_InvalidFileNamesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: broken\n"), 0o644))

	_, err := LoadDefinitionDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoadDefinitionFile_Directory(t *testing.T) {
	_, err := LoadDefinitionFile(t.TempDir())
	assert.Error(t, err)
}

func TestRequirementDefinition_MarshalRoundTrip(t *testing.T) {
	single, err := RequirementDefinition{AnyOf: []string{"U"}}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "U", single)

	group, err := RequirementDefinition{AnyOf: []string{"a", "b"}}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"any_of": {"a", "b"}}, group)
}

func TestPromptSource_GeneratedPrompts(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(su2YAML))
	require.NoError(t, err)

	prompts := def.PromptSource()

	assert.Contains(t, prompts.SystemPrompt(), "SU2")
	assert.Contains(t, prompts.SystemPrompt(), "solver.cfg, mesh.su2 or mesh.cgns")
	assert.Contains(t, prompts.SystemPrompt(), "```su2")
	assert.Contains(t, prompts.InitialPrompt(), "SU2 case")
}

func TestPromptSource_MissingFilesPrompt(t *testing.T) {
	prompts := NewPrompts("sys", "init", "foam")

	got := prompts.MissingFilesPrompt([]string{"fvSolution", "blockMeshDict or snappyHexMeshDict", "p"})

	assert.Contains(t, got, "fvSolution, blockMeshDict or snappyHexMeshDict, p")
	assert.Contains(t, got, "```foam")
	assert.NotContains(t, got, "controlDict")
}
