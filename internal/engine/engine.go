package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bamsammich/cachefinder/internal/archive"
	"github.com/bamsammich/cachefinder/internal/event"
	"github.com/bamsammich/cachefinder/internal/pattern"
	"github.com/bamsammich/cachefinder/internal/stats"
)

// Config describes a scan.
type Config struct {
	Root    string
	Sets    *pattern.Sets
	Archive *archive.Writer
	Events  chan<- event.Event // optional
	Stats   *stats.Collector   // optional
	Skip    string             // absolute path never archived, usually the output file
}

// Result is the outcome of a scan.
type Result struct {
	Stats    stats.Snapshot
	Warnings []error // per-entry and per-directory failures that were skipped
	Err      error   // fatal: invalid root, archive write failure, cancellation
}

// ScanContext is the state one scan owns: compiled patterns, the
// anonymization counter and the archive stream. Only the walk goroutine
// touches it.
type ScanContext struct {
	root    string
	sets    *pattern.Sets
	aw      *archive.Writer
	events  chan<- event.Event
	stats   *stats.Collector
	skip    string
	counter int64

	listDir func(string) ([]os.DirEntry, error)
}

// ValidateRoot checks that root names an existing directory and returns
// its absolute form. Errors wrap ErrInputPath.
func ValidateRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInputPath, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInputPath, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInputPath, root, err)
	}
	return abs, nil
}

// NewScanContext validates cfg.Root and builds the context for a scan.
func NewScanContext(cfg Config) (*ScanContext, error) {
	root, err := ValidateRoot(cfg.Root)
	if err != nil {
		return nil, err
	}
	if cfg.Sets == nil {
		return nil, fmt.Errorf("scan %s: no pattern sets", root)
	}
	if cfg.Archive == nil {
		return nil, fmt.Errorf("scan %s: no archive writer", root)
	}

	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}
	return &ScanContext{
		root:    root,
		sets:    cfg.Sets,
		aw:      cfg.Archive,
		events:  cfg.Events,
		stats:   collector,
		skip:    cfg.Skip,
		listDir: os.ReadDir,
	}, nil
}

// Run walks cfg.Root and archives every match, blocking until done.
func Run(ctx context.Context, cfg Config) Result {
	sc, err := NewScanContext(cfg)
	if err != nil {
		return Result{Err: err}
	}
	return sc.Run(ctx)
}

// Run performs the walk. A ScanContext runs once.
func (sc *ScanContext) Run(ctx context.Context) Result {
	sc.emit(event.Event{Type: event.ScanStarted, Path: sc.root})

	var out outcome
	if entries, ok := sc.readDir(sc.root, &out); ok {
		out.merge(sc.walk(ctx, sc.root, 0, entries))
	}

	snap := sc.stats.Snapshot()
	sc.emit(event.Event{
		Type:  event.ScanComplete,
		Path:  sc.root,
		Size:  snap.BytesArchived,
		Unit:  sc.counter,
		Error: out.fatal,
	})
	return Result{
		Stats:    snap,
		Warnings: out.warnings,
		Err:      out.fatal,
	}
}

// Units returns how many anonymized folder ids have been allocated.
func (sc *ScanContext) Units() int64 { return sc.counter }

func (sc *ScanContext) emit(ev event.Event) {
	if sc.events == nil {
		return
	}
	ev.Timestamp = time.Now()
	sc.events <- ev
}
