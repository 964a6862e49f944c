package packager_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casefold/slackpack/pkg/packager"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := packager.Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, packager.ErrInputNotFound)
}

func TestDiscover_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "export.json", "{}")

	_, err := packager.Discover(file)
	require.Error(t, err)
	assert.ErrorIs(t, err, packager.ErrInputNotFound)
}

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "UPPER.JSON", "{}")
	writeFile(t, dir, "notes.txt", "not json")
	writeFile(t, dir, "data.jsonl", "{}")

	// JSON files below a subdirectory must not be picked up.
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "deep.json", "{}")

	files, err := packager.Discover(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"UPPER.JSON", "a.json", "b.json"}, names)
}

func TestDiscover_CarriesFileMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"ok":true}`)

	files, err := packager.Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "a.json", f.Name)
	assert.Equal(t, filepath.Join(dir, "a.json"), f.Path)
	assert.Equal(t, int64(len(`{"ok":true}`)), f.Size)
	assert.False(t, f.ModTime.IsZero())
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := packager.Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}
