package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func openFOAMRequirements() []Requirement {
	return []Requirement{
		Require("controlDict"),
		Require("fvSchemes"),
		Require("fvSolution"),
		RequireAny("blockMeshDict", "snappyHexMeshDict"),
		Require("U"),
		Require("p"),
	}
}

func TestLedger_FreshReportsEverything(t *testing.T) {
	l := NewLedger(openFOAMRequirements())

	assert.Equal(t, []string{
		"controlDict", "fvSchemes", "fvSolution",
		"blockMeshDict or snappyHexMeshDict", "U", "p",
	}, l.Missing())
	assert.False(t, l.Complete())
}

func TestLedger_DisjunctionEitherMemberSatisfies(t *testing.T) {
	for _, mesh := range []string{"blockMeshDict", "snappyHexMeshDict"} {
		l := NewLedger(openFOAMRequirements())
		l.Record(mesh)

		assert.NotContains(t, l.Missing(), "blockMeshDict or snappyHexMeshDict", mesh)
		assert.NotContains(t, l.Missing(), "blockMeshDict", mesh)
		assert.NotContains(t, l.Missing(), "snappyHexMeshDict", mesh)
		assert.Contains(t, l.Missing(), "p", mesh)
	}
}

func TestLedger_EntriesAfterDisjunctionStillReported(t *testing.T) {
	l := NewLedger(openFOAMRequirements())
	l.Record("controlDict")
	l.Record("fvSchemes")
	l.Record("fvSolution")

	assert.Equal(t, []string{"blockMeshDict or snappyHexMeshDict", "U", "p"}, l.Missing())
}

func TestLedger_UntrackedNamesOnlyWritten(t *testing.T) {
	l := NewLedger(openFOAMRequirements())
	l.Record("transportProperties")
	l.Record("k")
	l.Record("transportProperties")

	assert.False(t, l.Tracks("transportProperties"))
	assert.Equal(t, []string{"transportProperties", "k"}, l.Written())
	assert.Len(t, l.Missing(), 6)
}

func TestLedger_Monotonic(t *testing.T) {
	l := NewLedger(openFOAMRequirements())
	l.Record("U")
	for i := 0; i < 3; i++ {
		l.Record("transportProperties")
		l.Record("U")
	}

	assert.True(t, l.Satisfied("U"))
	assert.NotContains(t, l.Missing(), "U")
}

func TestLedger_EmptyRequirementsComplete(t *testing.T) {
	l := NewLedger(nil)

	assert.True(t, l.Complete())
	assert.NotNil(t, l.Missing())
	assert.Empty(t, l.Missing())
}

func TestRequireAny_Label(t *testing.T) {
	r := RequireAny("a", "b", "c")
	assert.Equal(t, "a or b or c", r.Label)
	assert.Equal(t, []string{"a", "b", "c"}, r.AnyOf)
}

func TestLedger_Progress(t *testing.T) {
	l := NewLedger(openFOAMRequirements())

	met, total := l.Progress()
	assert.Equal(t, 0, met)
	assert.Equal(t, 6, total)

	l.Record("snappyHexMeshDict")
	l.Record("blockMeshDict")
	l.Record("U")
	l.Record("transportProperties")

	met, total = l.Progress()
	assert.Equal(t, 2, met)
	assert.Equal(t, 6, total)
}
