package packager

import "errors"

// Fatal error kinds for a packaging run. Per-file validation failures are
// recorded in the report rather than returned; only directory-level and
// archive-level failures abort the run. Callers match these with errors.Is.
var (
	// ErrInputNotFound means the input directory is missing, unreadable or
	// not a directory. Nothing has been written when it is returned.
	ErrInputNotFound = errors.New("input directory not found")

	// ErrEmptyInput means no file survived validation and writing an empty
	// archive was not requested.
	ErrEmptyInput = errors.New("no valid JSON files to package")

	// ErrArchiveWrite means the archive (or the persisted report) could not
	// be written. The destination never holds a partial archive.
	ErrArchiveWrite = errors.New("archive write failed")
)
