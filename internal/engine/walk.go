package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bamsammich/cachefinder/internal/archive"
	"github.com/bamsammich/cachefinder/internal/event"
)

// walk visits the subdirectories of dir depth-first, given its already
// listed entries. Each child directory is listed once, classified and
// archived from that listing, then walked with the same entries unless it
// was excluded: cache directories can hold nested matches too.
//
//nolint:revive // cognitive-complexity: classification switch plus fault isolation per child
func (sc *ScanContext) walk(ctx context.Context, dir string, depth int, entries []os.DirEntry) outcome {
	var out outcome

	sc.stats.AddDirsScanned(1)
	sc.emit(event.Event{Type: event.DirScanned, Path: dir})

	parentName := filepath.Base(dir)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			out.fatal = err
			return out
		}

		d, isDir := sc.inspect(dir, parentName, depth+1, entry)
		if !isDir {
			continue
		}

		class := Classify(d, sc.sets)
		if class == Excluded {
			sc.stats.AddDirsExcluded(1)
			reason := "pattern"
			if d.Symlink {
				reason = "symlink"
			}
			sc.emit(event.Event{Type: event.DirExcluded, Path: d.Path, Reason: reason})
			continue
		}

		children, ok := sc.readDir(d.Path, &out)
		if class.IsCache() {
			out.merge(sc.archiveDir(ctx, d, class, children))
		} else {
			out.merge(sc.archiveMatching(ctx, d, children))
		}
		if out.fatal != nil {
			return out
		}
		if !ok {
			continue
		}

		out.merge(sc.walk(ctx, d.Path, d.Depth, children))
		if out.fatal != nil {
			return out
		}
	}
	return out
}

// readDir lists dir in name order. Permission-denied directories are
// skipped without a warning; any other failure is recorded. Entries read
// before a failure are still returned.
func (sc *ScanContext) readDir(dir string, out *outcome) ([]os.DirEntry, bool) {
	entries, err := sc.listDir(dir)
	if err == nil {
		return entries, true
	}
	if errors.Is(err, fs.ErrPermission) {
		return nil, false
	}
	derr := &DirError{Path: dir, Err: err}
	sc.stats.AddDirsFailed(1)
	sc.emit(event.Event{Type: event.DirFailed, Path: dir, Error: derr})
	out.warn(derr)
	return entries, len(entries) > 0
}

// inspect reports whether entry is a directory and describes it. Symbolic
// links count as directories when their target is one, so that Classify
// can exclude them; broken links are ignored.
func (sc *ScanContext) inspect(parent, parentName string, depth int, entry os.DirEntry) (Dir, bool) {
	path := filepath.Join(parent, entry.Name())
	d := Dir{Path: path, Name: entry.Name(), ParentName: parentName, Depth: depth}

	switch {
	case entry.IsDir():
		return d, true
	case entry.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return d, false
		}
		d.Symlink = true
		return d, true
	default:
		return d, false
	}
}

// archiveDir archives every immediate regular file of a cache directory.
// The unit id is taken even when the directory turns out to be empty.
// Subdirectories are left to the walk.
func (sc *ScanContext) archiveDir(ctx context.Context, d Dir, class Classification, entries []os.DirEntry) outcome {
	var out outcome

	unit := sc.nextUnit()
	prefix := sc.makePrefix(d, unit)
	sc.stats.AddCacheDirs(1)
	sc.emit(event.Event{
		Type:   event.CacheDirFound,
		Path:   d.Path,
		Name:   prefix,
		Reason: class.String(),
		Unit:   unit,
	})

	for _, entry := range entries {
		path := filepath.Join(d.Path, entry.Name())
		if path == sc.skip || !isRegularFollow(d.Path, entry) {
			continue
		}
		if err := ctx.Err(); err != nil {
			out.fatal = err
			return out
		}
		sc.archiveFile(ctx, path, prefix, unit, &out)
		if out.fatal != nil {
			return out
		}
	}
	return out
}

// archiveMatching archives the immediate files of an ordinary directory
// whose names match a cache-file pattern. The unit id is allocated on the
// first match only.
func (sc *ScanContext) archiveMatching(ctx context.Context, d Dir, entries []os.DirEntry) outcome {
	var (
		out    outcome
		prefix string
		unit   int64
	)

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue // symlinks, directories, devices
		}
		path := filepath.Join(d.Path, entry.Name())
		if path == sc.skip || !sc.sets.CacheFiles.Match(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			out.fatal = err
			return out
		}
		if prefix == "" {
			unit = sc.nextUnit()
			prefix = sc.makePrefix(d, unit)
		}
		sc.archiveFile(ctx, path, prefix, unit, &out)
		if out.fatal != nil {
			return out
		}
	}
	return out
}

func (sc *ScanContext) archiveFile(ctx context.Context, path, prefix string, unit int64, out *outcome) {
	sc.stats.AddFilesMatched(1)
	sc.emit(event.Event{Type: event.FileMatched, Path: path, Unit: unit})

	entry, err := sc.aw.WriteFile(ctx, path, prefix)
	if err != nil {
		if archive.IsFatal(err) || isCanceled(err) {
			out.fatal = err
			return
		}
		sc.stats.AddFilesFailed(1)
		sc.emit(event.Event{
			Type:  event.FileFailed,
			Path:  path,
			Name:  entry.Name,
			Size:  entry.Size,
			Unit:  unit,
			Error: err,
		})
		out.warn(err)
		return
	}

	sc.stats.AddFilesArchived(1)
	sc.stats.AddBytesArchived(entry.Size)
	sc.emit(event.Event{
		Type: event.FileArchived,
		Path: path,
		Name: entry.Name,
		Size: entry.Size,
		Unit: unit,
	})
}

// isRegularFollow reports whether entry is a regular file, following a
// symbolic link to its target.
func isRegularFollow(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
