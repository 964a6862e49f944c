package packager

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Compression method names accepted by the writer.
const (
	CompressionDeflate = "deflate"
	CompressionStore   = "store"
)

type archiveEntry struct {
	content []byte
	modTime time.Time
}

// ArchiveWriter assembles the output ZIP with deterministic entry ordering
// and atomic placement: the archive appears complete at the destination or
// not at all.
type ArchiveWriter struct {
	channel string
	method  uint16
	files   map[string]archiveEntry
}

// NewArchiveWriter creates a writer placing entries under the given channel
// directory. compression is "deflate" or "store"; anything else falls back
// to deflate.
func NewArchiveWriter(channel, compression string) *ArchiveWriter {
	method := uint16(zip.Deflate)
	if compression == CompressionStore {
		method = zip.Store
	}
	return &ArchiveWriter{
		channel: channel,
		method:  method,
		files:   make(map[string]archiveEntry),
	}
}

// AddFile stages one file for the archive under its preserved base name.
func (w *ArchiveWriter) AddFile(name string, content []byte, modTime time.Time) {
	w.files[EntryPath(w.channel, name)] = archiveEntry{content: content, modTime: modTime}
}

// WriteTo creates the ZIP at outputPath. The archive is assembled in a
// temporary file in the destination directory and renamed into place once
// complete, so a failed run never leaves a partial archive at the output
// path. It returns the absolute archive path and the archive's size on disk.
func (w *ArchiveWriter) WriteTo(outputPath string) (string, int64, error) {
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", 0, fmt.Errorf("resolve output path: %w", err)
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(absPath)+".partial-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	// Sort entry paths for deterministic output.
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	zw := zip.NewWriter(tmp)
	for _, p := range paths {
		entry := w.files[p]
		hdr := &zip.FileHeader{
			Name:     p,
			Method:   w.method,
			Modified: entry.modTime.UTC(),
		}
		hdr.SetMode(0o644)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return "", 0, fmt.Errorf("create entry %s: %w", p, err)
		}
		if _, err := fw.Write(entry.content); err != nil {
			return "", 0, fmt.Errorf("write entry %s: %w", p, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", 0, fmt.Errorf("finalize archive: %w", err)
	}

	fi, err := tmp.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("stat temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		return "", 0, fmt.Errorf("move archive into place: %w", err)
	}
	committed = true
	return absPath, fi.Size(), nil
}
