package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	files  map[string]string
	order  []string
	failOn string
}

func newMemStore() *memStore {
	return &memStore{files: map[string]string{}}
}

func (m *memStore) Store(name, content string) error {
	if name == m.failOn {
		return errors.New("disk full")
	}
	m.files[name] = content
	m.order = append(m.order, name)
	return nil
}

func writeGeometry(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("solid body\nendsolid body\n"), 0o644))
	return path
}

func TestApply_BlockMesh(t *testing.T) {
	store := newMemStore()

	res, err := Apply(Plan{Strategy: StrategyBlockMesh, Box: DefaultBox()}, t.TempDir(), store)
	require.NoError(t, err)

	assert.Equal(t, []string{"blockMeshDict"}, res.Written)
	assert.Empty(t, res.Surface)
	assert.Contains(t, store.files["blockMeshDict"], "(1 1 0.1)  // vertex 6")
}

func TestApply_SnappyCopiesGeometry(t *testing.T) {
	src := writeGeometry(t, t.TempDir(), "body.stl")
	surfaceDir := filepath.Join(t.TempDir(), "constant", "triSurface")
	store := newMemStore()

	res, err := Apply(Plan{Strategy: StrategySnappy, Geometry: src, Layers: 3, Inside: DefaultInside()}, surfaceDir, store)
	require.NoError(t, err)

	assert.Equal(t, []string{"snappyHexMeshDict", "blockMeshDict"}, res.Written)
	assert.Equal(t, res.Written, store.order)
	assert.Equal(t, filepath.Join(surfaceDir, "body.stl"), res.Surface)
	data, err := os.ReadFile(res.Surface)
	require.NoError(t, err)
	assert.Equal(t, "solid body\nendsolid body\n", string(data))
	assert.Contains(t, store.files["snappyHexMeshDict"], `file "body.stl";`)
	assert.Contains(t, store.files["blockMeshDict"], "(-1 -1 -1)  // vertex 0")
}

func TestApply_GeometryAlreadyInSurfaceDir(t *testing.T) {
	surfaceDir := t.TempDir()
	src := writeGeometry(t, surfaceDir, "body.stl")

	res, err := Apply(Plan{Strategy: StrategySnappy, Geometry: src, Inside: DefaultInside()}, surfaceDir, newMemStore())
	require.NoError(t, err)

	data, err := os.ReadFile(res.Surface)
	require.NoError(t, err)
	assert.Equal(t, "solid body\nendsolid body\n", string(data))
}

func TestApply_MissingGeometryWritesNothing(t *testing.T) {
	surfaceDir := filepath.Join(t.TempDir(), "triSurface")
	store := newMemStore()

	_, err := Apply(Plan{Strategy: StrategySnappy, Geometry: filepath.Join(t.TempDir(), "nope.stl"), Inside: DefaultInside()}, surfaceDir, store)
	require.ErrorIs(t, err, ErrGeometryNotFound)

	_, err = Apply(Plan{Strategy: StrategySnappy, Inside: DefaultInside()}, surfaceDir, store)
	require.ErrorIs(t, err, ErrGeometryNotFound)

	assert.Empty(t, store.files)
	assert.NoDirExists(t, surfaceDir)
}

func TestApply_InsidePointOutsideBackground(t *testing.T) {
	src := writeGeometry(t, t.TempDir(), "body.stl")
	store := newMemStore()

	_, err := Apply(Plan{Strategy: StrategySnappy, Geometry: src, Inside: Vec{X: 2}}, t.TempDir(), store)
	require.ErrorIs(t, err, ErrInvalidSurface)
	assert.Empty(t, store.files)
}

func TestApply_StoreFailureKeepsEarlierWrites(t *testing.T) {
	src := writeGeometry(t, t.TempDir(), "body.stl")
	store := newMemStore()
	store.failOn = "blockMeshDict"

	res, err := Apply(Plan{Strategy: StrategySnappy, Geometry: src, Inside: DefaultInside()}, t.TempDir(), store)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"snappyHexMeshDict"}, res.Written)
}

func TestApply_UnknownStrategy(t *testing.T) {
	_, err := Apply(Plan{Strategy: "cfMesh"}, t.TempDir(), newMemStore())
	assert.ErrorContains(t, err, `unknown mesh strategy "cfMesh"`)
}
