package fileutil

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// MaxResourceSize is the maximum file size accepted when validating icon
// resources (10MB). This prevents memory exhaustion from oversized files.
const MaxResourceSize = 10 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxResourceSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxResourceSize)

// ReadFileWithLimit reads a file up to MaxResourceSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Get file info to fail fast if size is already too large
	info, err := f.Stat()
	if err == nil {
		if info.Size() > MaxResourceSize {
			return nil, ErrFileTooLarge
		}
	}

	// Read with limit
	r := io.LimitReader(f, MaxResourceSize+1)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if len(data) > MaxResourceSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}
