package pattern

import (
	"errors"
	"fmt"
)

// ErrPattern is matched by every *PatternError.
var ErrPattern = errors.New("invalid pattern")

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Set     string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s pattern %q: %v", e.Set, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPattern) true for any PatternError.
func (e *PatternError) Is(target error) bool { return target == ErrPattern }
