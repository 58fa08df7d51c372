package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "slot.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestIsExistAndCreatePath(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsExist(dir))
	assert.False(t, IsExist(filepath.Join(dir, "missing")))

	dst := filepath.Join(dir, "a", "b", "config.yaml")
	require.NoError(t, CreatePath(dst, 0o755))
	assert.True(t, IsExist(filepath.Dir(dst)))
	assert.False(t, IsExist(dst))
}
