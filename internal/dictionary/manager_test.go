package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	layout := casedir.NewOpenFOAMLayout(root)
	require.NoError(t, layout.EnsureDirectories())
	classifier := NewSetClassifier(layout, testSystemNames, testInitialNames)
	m := NewManager(
		NewFenceExtractor("openfoam", "foam"),
		classifier,
		NewFileWriter(classifier, nil),
		openFOAMRequirements(),
		nil,
	)
	return m, root
}

func reply(names ...string) string {
	var b strings.Builder
	b.WriteString("Sure, here are the files.\n\n")
	for _, n := range names {
		b.WriteString(foamBlock("openfoam", n, "// generated"))
		b.WriteString("\n")
	}
	return b.String()
}

func TestManager_AllRequiredPresent(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.ProcessReply(reply("blockMeshDict", "controlDict", "fvSchemes", "fvSolution", "U", "p")))

	assert.Equal(t, []string{}, m.MissingRequired())
	assert.True(t, m.Complete())
	assert.FileExists(t, filepath.Join(root, "system", "blockMeshDict"))
	assert.FileExists(t, filepath.Join(root, "0", "U"))
	assert.FileExists(t, filepath.Join(root, "0", "p"))
}

func TestManager_MissingPressureReportedOnce(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.ProcessReply(reply("blockMeshDict", "controlDict", "fvSchemes")))
	require.NoError(t, m.ProcessReply(reply("fvSolution", "U", "transportProperties", "k", "nut")))
	require.NoError(t, m.ProcessReply(reply("controlDict", "turbulenceProperties")))

	missing := m.MissingRequired()
	count := 0
	for _, name := range missing {
		if name == "p" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"p"}, missing)

	met, total := m.Progress()
	assert.Equal(t, 5, met)
	assert.Equal(t, 6, total)
}

func TestManager_SnappyOnlySatisfiesMesh(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.ProcessReply(reply("snappyHexMeshDict", "controlDict", "fvSchemes", "fvSolution", "U", "p")))

	assert.Empty(t, m.MissingRequired())
	assert.NoFileExists(t, filepath.Join(root, "system", "blockMeshDict"))
}

func TestManager_WrittenIncludesNonRequired(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.ProcessReply(reply("transportProperties", "controlDict")))

	assert.Equal(t, []string{"transportProperties", "controlDict"}, m.Written())
	assert.FileExists(t, filepath.Join(root, "constant", "transportProperties"))
}

func TestManager_LedgerMonotonicAcrossReplies(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.ProcessReply(reply("U")))
	require.NoError(t, m.ProcessReply("no blocks at all"))
	require.NoError(t, m.ProcessReply("```openfoam\nunnamed block\n```"))
	require.NoError(t, m.ProcessReply(reply("k")))

	assert.NotContains(t, m.MissingRequired(), "U")
}

type failingWriter struct {
	inner  Writer
	failOn string
	calls  []string
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(name, content string, category domain.DictionaryType) error {
	w.calls = append(w.calls, name)
	if name == w.failOn {
		return errDiskFull
	}
	return w.inner.Write(name, content, category)
}

func TestManager_WriteFailureKeepsEarlierProgress(t *testing.T) {
	root := t.TempDir()
	layout := casedir.NewOpenFOAMLayout(root)
	require.NoError(t, layout.EnsureDirectories())
	classifier := NewSetClassifier(layout, testSystemNames, testInitialNames)
	writer := &failingWriter{inner: NewFileWriter(classifier, nil), failOn: "fvSchemes"}
	m := NewManager(NewFenceExtractor("openfoam"), classifier, writer, openFOAMRequirements(), nil)

	err := m.ProcessReply(reply("controlDict", "fvSchemes", "fvSolution"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "fvSchemes")
	assert.Equal(t, []string{"controlDict", "fvSchemes"}, writer.calls, "remaining blocks are not attempted")
	assert.NotContains(t, m.MissingRequired(), "controlDict")
	assert.Contains(t, m.MissingRequired(), "fvSchemes")
	assert.Contains(t, m.MissingRequired(), "fvSolution")
	_, statErr := os.Stat(filepath.Join(root, "system", "fvSolution"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManager_StoreWritesAndRecords(t *testing.T) {
	m, root := newTestManager(t)

	require.NoError(t, m.Store("blockMeshDict", "// from template"))

	data, err := os.ReadFile(filepath.Join(root, "system", "blockMeshDict"))
	require.NoError(t, err)
	assert.Equal(t, "// from template", string(data))
	assert.NotContains(t, m.MissingRequired(), "blockMeshDict or snappyHexMeshDict")
	assert.Equal(t, []string{"blockMeshDict"}, m.Written())
}

func TestManager_StoreRejectsBadName(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.Store("../escape", "x")
	require.Error(t, err)
	assert.Empty(t, m.Written())
}
