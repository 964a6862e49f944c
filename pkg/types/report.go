package types

import "time"

// PackagingReport describes a single packaging run: which files went into the
// archive, which were skipped and why, and the totals an operator needs to
// confirm nothing was dropped silently.
//
// Included and Skipped partition the set of regular files seen in the input
// directory: every discovered file appears in exactly one of the two lists.
type PackagingReport struct {
	// Schema is the report layout version.
	Schema string `json:"schema" yaml:"schema"`

	// ToolVersion is the slackpack version that produced the report.
	ToolVersion string `json:"toolVersion" yaml:"toolVersion"`

	// RunID uniquely identifies this run so reports can be referenced from
	// downstream processing logs.
	RunID string `json:"runId" yaml:"runId"`

	// GeneratedAt is the timestamp when the run finished building the report.
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	InputDir    string `json:"inputDir" yaml:"inputDir"`
	ArchivePath string `json:"archivePath" yaml:"archivePath"`

	// Channel is the top-level directory inside the archive that holds the
	// packaged files.
	Channel string `json:"channel" yaml:"channel"`

	Compression string `json:"compression" yaml:"compression"`
	Redact      bool   `json:"redact,omitempty" yaml:"redact,omitempty"`
	DryRun      bool   `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`

	// Included lists archive entries in the order they were written.
	Included []IncludedFile `json:"included" yaml:"included"`

	// Skipped lists files left out of the archive, with the reason for each.
	Skipped []SkippedFile `json:"skipped" yaml:"skipped"`

	TotalDiscovered int `json:"totalDiscovered" yaml:"totalDiscovered"`
	TotalIncluded   int `json:"totalIncluded" yaml:"totalIncluded"`
	TotalSkipped    int `json:"totalSkipped" yaml:"totalSkipped"`

	// TotalRecords sums the record counts of all included array documents.
	TotalRecords int `json:"totalRecords" yaml:"totalRecords"`

	// ContentHash is a SHA256 over the included files' checksums, in entry
	// order. Two archives with the same content hash carry the same payload.
	ContentHash string `json:"contentHash" yaml:"contentHash"`

	// ArchiveBytes is the size of the archive on disk, 0 for dry runs.
	ArchiveBytes int64 `json:"archiveBytes" yaml:"archiveBytes"`
}

// IncludedFile is one archive entry plus the provenance recorded for it.
type IncludedFile struct {
	// Name is the source file's base name.
	Name string `json:"name" yaml:"name"`

	// ArchivePath is the entry path inside the ZIP, always forward-slashed.
	ArchivePath string `json:"archivePath" yaml:"archivePath"`

	// Size is the byte size of the packaged content.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the checksum of the packaged content (after redaction, when
	// redaction is enabled).
	SHA256 string `json:"sha256" yaml:"sha256"`

	// Records is the element count of a top-level JSON array document. It is
	// nil for documents whose top-level value is not an array.
	Records *int `json:"records,omitempty" yaml:"records,omitempty"`

	// Redacted marks entries whose content was altered by the redactor.
	Redacted bool `json:"redacted,omitempty" yaml:"redacted,omitempty"`
}

// SkippedFile records a discovered file that was left out of the archive.
type SkippedFile struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}
