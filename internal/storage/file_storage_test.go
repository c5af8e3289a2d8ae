package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpilot/backend/internal/storage"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func TestFileStorage(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "technology.json", "arts.YAML", "health.yml", "notes.txt", ".hidden.json", "finance.toml")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "nested.json"), 0o755))

	fs, err := storage.NewFileStorage(tmpDir, ".json", ".yaml", ".yml", ".toml")
	require.NoError(t, err)
	assert.Equal(t, tmpDir, fs.Dir())

	names, err := fs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"arts.YAML", "finance.toml", "health.yml", "technology.json"}, names)

	data, err := fs.Read("technology.json")
	require.NoError(t, err)
	assert.Equal(t, "technology.json", string(data))
	assert.Equal(t, filepath.Join(tmpDir, "finance.toml"), fs.Path("finance.toml"))
}

func TestListWithoutFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "b.txt", "a.json")

	fs, err := storage.NewFileStorage(tmpDir)
	require.NoError(t, err)

	names, err := fs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.txt"}, names)
}

func TestEmptyDirectory(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir(), ".json")
	require.NoError(t, err)

	names, err := fs.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNewFileStorageErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := storage.NewFileStorage(filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)

	writeFiles(t, tmpDir, "plain.json")
	_, err = storage.NewFileStorage(filepath.Join(tmpDir, "plain.json"))
	assert.ErrorContains(t, err, "not a directory")
}

func TestReadErrors(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Read("missing.json")
	assert.Error(t, err)

	_, err = fs.Read("../escape.json")
	assert.ErrorContains(t, err, "invalid file name")
}
