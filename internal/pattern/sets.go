package pattern

// Options carries the user-supplied additions to the built-in sets.
type Options struct {
	// ExtraExcludes are appended after the built-in exclude patterns.
	ExtraExcludes []string
	// Masks name directories whose names are replaced with "folder".
	Masks []string
}

// Sets holds every compiled set used by a scan. It is read-only once built.
type Sets struct {
	CacheDirs         *Set
	ParentedCacheDirs *Set
	CacheDirParents   *Set
	Excludes          *Set
	CacheFiles        *Set
	Masks             *Set
}

// NewSets compiles the built-in sets together with opts. The first pattern
// that fails to compile aborts with a *PatternError.
func NewSets(opts Options) (*Sets, error) {
	var (
		sets Sets
		err  error
	)
	if sets.CacheDirs, err = Compile(SetCacheDirs, defaultCacheDirs); err != nil {
		return nil, err
	}
	if sets.ParentedCacheDirs, err = Compile(SetParentedCacheDirs, defaultParentedCacheDirs); err != nil {
		return nil, err
	}
	if sets.CacheDirParents, err = Compile(SetCacheDirParents, defaultCacheDirParents); err != nil {
		return nil, err
	}
	if sets.CacheFiles, err = Compile(SetCacheFiles, defaultCacheFiles); err != nil {
		return nil, err
	}

	if sets.Excludes, err = Compile(SetExcludes, defaultExcludes); err != nil {
		return nil, err
	}
	if err = sets.Excludes.add(opts.ExtraExcludes); err != nil {
		return nil, err
	}

	if sets.Masks, err = Compile(SetMasks, opts.Masks); err != nil {
		return nil, err
	}
	return &sets, nil
}
