package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("hello world"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.txt", entries[0].Name())
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic("/nonexistent/dir/report.txt", []byte("data"), 0644)
	assert.Error(t, err)
}
