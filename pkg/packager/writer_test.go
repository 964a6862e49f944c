package packager_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casefold/slackpack/pkg/packager"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func readEntry(t *testing.T, f *zip.File) []byte {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestArchiveWriter_Roundtrip(t *testing.T) {
	w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)
	w.AddFile("b.json", []byte(`{"b":2}`), fixedTime)
	w.AddFile("a.json", []byte(`{"a":1}`), fixedTime)

	dest := filepath.Join(t.TempDir(), "out.zip")
	absPath, size, err := w.WriteTo(dest)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(absPath))
	assert.Greater(t, size, int64(0))

	fi, err := os.Stat(absPath)
	require.NoError(t, err)
	assert.Equal(t, size, fi.Size())

	r, err := zip.OpenReader(absPath)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 2)
	// Entries are written in sorted path order regardless of AddFile order.
	assert.Equal(t, "search_results/a.json", r.File[0].Name)
	assert.Equal(t, "search_results/b.json", r.File[1].Name)

	for _, f := range r.File {
		assert.Equal(t, zip.Deflate, f.Method)
		assert.Equal(t, os.FileMode(0o644), f.Mode().Perm())
		assert.True(t, f.Modified.UTC().Equal(fixedTime))
	}
	assert.Equal(t, `{"a":1}`, string(readEntry(t, r.File[0])))
	assert.Equal(t, `{"b":2}`, string(readEntry(t, r.File[1])))
}

func TestArchiveWriter_StoreMethod(t *testing.T) {
	w := packager.NewArchiveWriter("search_results", packager.CompressionStore)
	w.AddFile("a.json", []byte(`{"a":1}`), fixedTime)

	dest := filepath.Join(t.TempDir(), "out.zip")
	absPath, _, err := w.WriteTo(dest)
	require.NoError(t, err)

	r, err := zip.OpenReader(absPath)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1)
	assert.Equal(t, zip.Store, r.File[0].Method)
}

func TestArchiveWriter_Deterministic(t *testing.T) {
	build := func(dest string) []byte {
		w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)
		w.AddFile("a.json", []byte(`[{"text":"hi"}]`), fixedTime)
		w.AddFile("b.json", []byte(`{"query":"from:alice"}`), fixedTime)
		absPath, _, err := w.WriteTo(dest)
		require.NoError(t, err)
		data, err := os.ReadFile(absPath)
		require.NoError(t, err)
		return data
	}

	dir := t.TempDir()
	first := build(filepath.Join(dir, "one.zip"))
	second := build(filepath.Join(dir, "two.zip"))
	assert.Equal(t, first, second)
}

func TestArchiveWriter_EmptyArchive(t *testing.T) {
	w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)

	dest := filepath.Join(t.TempDir(), "empty.zip")
	absPath, size, err := w.WriteTo(dest)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	r, err := zip.OpenReader(absPath)
	require.NoError(t, err)
	defer r.Close()
	assert.Empty(t, r.File)
}

func TestArchiveWriter_FailureLeavesNothing(t *testing.T) {
	base := t.TempDir()
	blocker := writeFile(t, base, "blocker", "occupied")

	w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)
	w.AddFile("a.json", []byte("{}"), fixedTime)

	// The destination's parent "directory" is a regular file, so directory
	// creation fails before any bytes are written.
	dest := filepath.Join(blocker, "nested", "out.zip")
	_, _, err := w.WriteTo(dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.Error(t, statErr)
}

func TestArchiveWriter_NoTempResidue(t *testing.T) {
	dir := t.TempDir()
	w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)
	w.AddFile("a.json", []byte("{}"), fixedTime)

	_, _, err := w.WriteTo(filepath.Join(dir, "out.zip"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"out.zip"}, names)
}

func TestArchiveWriter_CreatesDestinationDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "deep", "er", "out.zip")
	w := packager.NewArchiveWriter("search_results", packager.CompressionDeflate)
	w.AddFile("a.json", []byte("{}"), fixedTime)

	absPath, _, err := w.WriteTo(dest)
	require.NoError(t, err)
	_, err = os.Stat(absPath)
	assert.NoError(t, err)
}
