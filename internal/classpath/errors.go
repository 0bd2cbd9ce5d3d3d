package classpath

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind classifies a directory access failure.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "directory not found"
	KindPermission   ErrorKind = "permission denied"
	KindNotDirectory ErrorKind = "not a directory"
	KindIO           ErrorKind = "io"
)

// DirError reports a jar directory that could not be listed.
// A missing jar directory means a broken classpath, so the builder never
// swallows one.
type DirError struct {
	Dir  string // full path that was listed
	Kind ErrorKind
	Err  error
}

func (e *DirError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("list %s: %s", e.Dir, e.Kind)
	}
	return fmt.Sprintf("list %s: %s: %v", e.Dir, e.Kind, e.Err)
}

func (e *DirError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newDirError(dir string, err error) *DirError {
	return &DirError{Dir: dir, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.ENOTDIR):
		return KindNotDirectory
	default:
		return KindIO
	}
}

// KindOf returns the kind of the first DirError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var de *DirError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
