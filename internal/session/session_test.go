package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slate/internal/config"
	"slate/internal/engine"
)

func openTestSession(t *testing.T) *Session {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, Initialize(dir))

	s, err := Open(config.Default(dir), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestInitializeAndFindRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestFindRootNotFound(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	assert.Error(t, err)
}

func TestSessionResolvesRelativePaths(t *testing.T) {
	s := openTestSession(t)

	rec := s.Commit("report.txt", []byte("hello"))
	require.True(t, rec.Committed)
	assert.Equal(t, engine.ChangeCreate, rec.Change)

	data, err := os.ReadFile(filepath.Join(s.BasePath, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSessionDiffThenCommit(t *testing.T) {
	s := openTestSession(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.BasePath, "page.html"), []byte("<old>"), 0644))

	diffed := s.Diff("page.html", []byte("<new>"))
	assert.Equal(t, engine.ChangeUpdate, diffed.Change)

	committed := s.Commit("page.html", []byte("<new>"))
	assert.True(t, committed.Committed)
	assert.Equal(t, []string{filepath.Join(s.BasePath, "page.html")}, s.History().Paths(engine.BucketUpdate))
}

func TestSessionApplyIntents(t *testing.T) {
	s := openTestSession(t)

	rec, err := s.Apply("new.txt", Put([]byte("body")))
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeCreate, rec.Change)

	rec, err = s.Apply("new.txt", Remove())
	require.NoError(t, err)
	assert.Equal(t, engine.ChangeDelete, rec.Change)
	assert.NoFileExists(t, filepath.Join(s.BasePath, "new.txt"))

	_, err = s.Apply("new.txt", Put(nil))
	assert.Error(t, err, "empty Put cannot be expressed through the delete-signal engine")
}

func TestSessionInventorySnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.txt"), []byte("seed"), 0644))

	s, err := Open(config.Default(dir), nil)
	require.NoError(t, err)
	defer s.Close()

	info, ok := s.Inventory.Get("seed.txt")
	require.True(t, ok)
	assert.Equal(t, int64(4), info.Size)

	// Later commits do not rewrite the inventory.
	s.Commit("seed.txt", nil)
	info, ok = s.Inventory.Get("seed.txt")
	require.True(t, ok)
	assert.True(t, info.Exists)
}

func TestSessionUndo(t *testing.T) {
	s := openTestSession(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.BasePath, "doc.txt"), []byte("v1"), 0644))

	committed := s.Commit("doc.txt", []byte("v2"))
	require.True(t, committed.Committed)

	_, err := s.Undo("doc.txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.BasePath, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestOpenWithoutStateDir(t *testing.T) {
	// An uninitialized base still works, with fingerprints held purely
	// in memory.
	dir := t.TempDir()

	s, err := Open(config.Default(dir), nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.DB)

	rec := s.Commit("a.txt", []byte("x"))
	assert.True(t, rec.Committed)
}

func TestSessionIDAssigned(t *testing.T) {
	s := openTestSession(t)
	assert.NotEmpty(t, s.ID)
}
