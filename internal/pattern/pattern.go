// Package pattern compiles the regular-expression name sets that decide
// what counts as game-client cache data.
package pattern

import (
	"github.com/dlclark/regexp2"
)

// compileOptions mirrors the dialect the pattern lists are written in:
// ECMAScript syntax, case-insensitive.
const compileOptions = regexp2.ECMAScript | regexp2.IgnoreCase

// compiledPattern is one compiled entry of a Set.
type compiledPattern struct {
	re       *regexp2.Regexp
	original string
}

func compilePattern(p string) (*compiledPattern, error) {
	re, err := regexp2.Compile(p, compileOptions)
	if err != nil {
		return nil, err
	}
	return &compiledPattern{re: re, original: p}, nil
}

// match reports whether the pattern matches anywhere in name.
func (cp *compiledPattern) match(name string) bool {
	ok, err := cp.re.MatchString(name)
	// regexp2 only errors on match timeouts, which are not configured.
	return err == nil && ok
}

// Set is an ordered list of compiled patterns. Any match wins; order only
// affects how soon Match returns.
type Set struct {
	name     string
	patterns []*compiledPattern
}

// Compile compiles patterns into a Set. name identifies the set in errors.
func Compile(name string, patterns []string) (*Set, error) {
	s := &Set{name: name, patterns: make([]*compiledPattern, 0, len(patterns))}
	if err := s.add(patterns); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) add(patterns []string) error {
	for _, p := range patterns {
		cp, err := compilePattern(p)
		if err != nil {
			return &PatternError{Set: s.name, Pattern: p, Err: err}
		}
		s.patterns = append(s.patterns, cp)
	}
	return nil
}

// Match reports whether any pattern in the set matches anywhere in name.
// A nil or empty set matches nothing.
func (s *Set) Match(name string) bool {
	if s == nil {
		return false
	}
	for _, cp := range s.patterns {
		if cp.match(name) {
			return true
		}
	}
	return false
}

// Name returns the set's name.
func (s *Set) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Patterns returns the source text of every pattern, in order.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.patterns))
	for i, cp := range s.patterns {
		out[i] = cp.original
	}
	return out
}
