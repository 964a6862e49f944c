package packager

import (
	"path"
	"path/filepath"
	"strings"
)

// The archive layout is the input contract of RelativityOne's Slack-to-RSMF
// importer: one channel directory at the archive root holding the packaged
// JSON files under their original names. Every path decision lives in this
// file so a change to the importer's convention stays out of discovery,
// validation and archive writing.

const (
	// DefaultChannel is the channel directory used when none is configured.
	// It matches the synthetic channel name Slack search exports are filed
	// under during RSMF conversion.
	DefaultChannel = "search_results"

	// FallbackArchiveName is used when no output path is given and the input
	// directory name does not yield a usable one ("." or the filesystem root).
	FallbackArchiveName = "slack_export.zip"

	archiveExt = ".zip"
)

// EntryPath returns the archive entry path for one packaged file. ZIP entry
// names use forward slashes on every platform.
func EntryPath(channel, name string) string {
	return path.Join(channel, name)
}

// DefaultArchivePath derives the archive path used when the caller does not
// supply one: the input folder's name plus ".zip", relative to the current
// working directory.
func DefaultArchivePath(inputDir string) string {
	base := filepath.Base(filepath.Clean(inputDir))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return FallbackArchiveName
	}
	return base + archiveExt
}

// ReportPath derives the sidecar report path for an archive: the archive path
// with its ".zip" suffix replaced by ".report.<ext>" for the given format.
func ReportPath(archivePath string, format ReportFormat) string {
	return strings.TrimSuffix(archivePath, archiveExt) + ".report." + format.Ext()
}
