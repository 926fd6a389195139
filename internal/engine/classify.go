package engine

import "github.com/bamsammich/cachefinder/internal/pattern"

// Classification is the walker's verdict on a directory.
type Classification int

const (
	// Ordinary directories have their immediate files pattern-matched.
	Ordinary Classification = iota
	// CacheDir directories are archived wholesale by their own name.
	CacheDir
	// ParentedCacheDir directories are archived wholesale because both
	// their name and their parent's name matched. Handled like CacheDir.
	ParentedCacheDir
	// Excluded subtrees are never descended into.
	Excluded
)

var classNames = [...]string{
	Ordinary:         "ordinary",
	CacheDir:         "cache",
	ParentedCacheDir: "parented-cache",
	Excluded:         "excluded",
}

func (c Classification) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// IsCache reports whether the directory is archived wholesale.
func (c Classification) IsCache() bool {
	return c == CacheDir || c == ParentedCacheDir
}

// Dir is a directory found by the walker.
type Dir struct {
	Path       string
	Name       string
	ParentName string
	// Depth is 1 for children of the walk root.
	Depth int
	// Symlink is set when the entry is a symbolic link to a directory.
	Symlink bool
}

// Classify applies the rules in order; the first that fires wins:
// directory symlink, exclude pattern, cache-dir pattern, parented
// cache-dir pattern with a matching parent. Everything else is Ordinary.
// The result depends only on d's names, d.Symlink and sets.
func Classify(d Dir, sets *pattern.Sets) Classification {
	switch {
	case d.Symlink:
		return Excluded
	case sets.Excludes.Match(d.Name):
		return Excluded
	case sets.CacheDirs.Match(d.Name):
		return CacheDir
	case d.ParentName != "" &&
		sets.ParentedCacheDirs.Match(d.Name) &&
		sets.CacheDirParents.Match(d.ParentName):
		return ParentedCacheDir
	default:
		return Ordinary
	}
}
