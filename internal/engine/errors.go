package engine

import (
	"errors"
	"fmt"
)

// ErrInputPath means the scan root is missing or not a directory.
var ErrInputPath = errors.New("invalid search path")

// DirError reports a directory that could not be listed. Its subtree is
// skipped; the rest of the walk continues.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("readdir %s: %v", e.Path, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// outcome collects what happened in one subtree. Warnings are local
// failures already handled; fatal stops the whole walk.
type outcome struct {
	warnings []error
	fatal    error
}

func (o *outcome) warn(err error) {
	o.warnings = append(o.warnings, err)
}

func (o *outcome) merge(sub outcome) {
	o.warnings = append(o.warnings, sub.warnings...)
	if o.fatal == nil {
		o.fatal = sub.fatal
	}
}
