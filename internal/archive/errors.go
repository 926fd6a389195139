package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrNameTooLong means a logical path fits neither the name field nor a
	// prefix/name split.
	ErrNameTooLong = errors.New("name too long for ustar header")
	// ErrFileTooLarge means the size does not fit 11 octal digits.
	ErrFileTooLarge = errors.New("file too large for ustar header")
	ErrEmptyName    = errors.New("empty entry name")
	ErrNotRegular   = errors.New("not a regular file")
)

// FileError is a per-entry failure that happened before anything was
// written for the entry (stat, open, header encoding). The run continues.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ReadError is a source read failure after the header was written. The
// body was zero-filled to its declared size; the run continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failure writing or flushing the archive stream. The
// stream can no longer be trusted, so it aborts the run.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsFatal reports whether err compromises the archive stream.
func IsFatal(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
