// Package file implements the local filesystem source for the raw extracts.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Local is a filesystem data source bound to a single path.
type Local struct{ path string }

// NewLocal returns a Local data source for path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading.
//
// A context that is already done short-circuits without touching the
// filesystem. Filesystem errors are wrapped with the path and remain
// matchable with errors.Is (e.g. os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// MissingError lists every required input that does not exist.
type MissingError struct {
	Paths []string
}

func (e *MissingError) Error() string {
	return "missing required input file(s): " + strings.Join(e.Paths, ", ")
}

// Is makes errors.Is(err, os.ErrNotExist) hold for a MissingError.
func (e *MissingError) Is(target error) bool { return target == os.ErrNotExist }

// EnsureExist checks that every path names an existing regular file. All
// missing paths are collected into a single *MissingError; any other stat
// failure is returned as is.
func EnsureExist(paths ...string) error {
	var missing []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			missing = append(missing, p)
		case err != nil:
			return fmt.Errorf("stat %s: %w", p, err)
		case fi.IsDir():
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Paths: missing}
	}
	return nil
}
