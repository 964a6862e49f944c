package packager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/casefold/slackpack/pkg/types"
)

const jsonExt = ".json"

// Discover lists the candidate files directly inside inputDir. The scan is
// deliberately non-recursive: the importer layout is flat, and a flat scan
// cannot produce colliding entry names. A candidate is a regular file with a
// .json extension (compared case-insensitively); everything else in the
// directory is ignored.
//
// os.ReadDir returns entries sorted by name, which fixes the candidate order
// and, downstream, the archive entry order.
func Discover(inputDir string) ([]types.SourceFile, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, inputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, inputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, inputDir, err)
	}

	var files []types.SourceFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), jsonExt) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// Raced away between listing and stat; treat as absent.
			continue
		}
		files = append(files, types.SourceFile{
			Path:    filepath.Join(inputDir, name),
			Name:    name,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return files, nil
}
