package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	info := Inspect(path)

	assert.Equal(t, "report.txt", info.Base)
	assert.Equal(t, ".txt", info.Ext)
	assert.Equal(t, "report", info.Stem)
	assert.True(t, info.Exists)
	assert.True(t, info.Readable)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.ModTime.IsZero())
}

func TestInspectMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.html")

	info := Inspect(path)

	assert.Equal(t, "gone.html", info.Base)
	assert.Equal(t, ".html", info.Ext)
	assert.Equal(t, "gone", info.Stem)
	assert.False(t, info.Exists)
	assert.False(t, info.Readable)
	assert.Zero(t, info.Size)
	assert.True(t, info.ModTime.IsZero())
}

func TestInspectNameDerivation(t *testing.T) {
	tests := []struct {
		path string
		base string
		ext  string
		stem string
	}{
		{"a/b/index.html", "index.html", ".html", "index"},
		{"noext", "noext", "", "noext"},
		{".hidden", ".hidden", ".hidden", ""},
		{"dir/archive.tar.gz", "archive.tar.gz", ".gz", "archive.tar"},
	}

	for _, tt := range tests {
		info := Inspect(tt.path)
		assert.Equal(t, tt.base, info.Base, tt.path)
		assert.Equal(t, tt.ext, info.Ext, tt.path)
		assert.Equal(t, tt.stem, info.Stem, tt.path)
	}
}

func TestInspectNeverCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0644))

	first := Inspect(path)
	require.NoError(t, os.WriteFile(path, []byte("longer content"), 0644))
	second := Inspect(path)

	assert.Equal(t, int64(3), first.Size)
	assert.Equal(t, int64(14), second.Size)
}
