package types

import "time"

// SourceFile is one candidate file discovered in the input directory.
// It is created during discovery and read-only afterwards.
type SourceFile struct {
	Path    string    // location on disk, as given by the caller
	Name    string    // base name, preserved as the archive entry name
	Size    int64     // byte size at discovery time
	ModTime time.Time // modification time, used for the archive entry header
}

// Result is the outcome of a successful packaging run.
type Result struct {
	ArchivePath string          // absolute archive path; on dry runs, the path that would have been written
	FileCount   int             // number of entries written to the archive
	SizeBytes   int64           // size of the archive on disk, 0 on dry runs
	Report      PackagingReport // the full run report
}
