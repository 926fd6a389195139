package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/cachefinder/internal/stats"
)

// plainPresenter prints one line per archived file to stdout, and scan
// failures plus periodic progress to stderr.
type plainPresenter struct {
	w        io.Writer
	errW     io.Writer
	stats    stats.ReadTicker
	verbose  bool
	progress bool
	interval time.Duration
}

func (p *plainPresenter) Run(events <-chan Event) error {
	var tick <-chan time.Time
	if p.progress {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-tick:
			p.stats.Tick()
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case DirScanned:
		p.verbosef("Scanning %s\n", ev.Path)
	case DirExcluded:
		if ev.Reason == "symlink" {
			p.verbosef("Skipping directory symlink %s\n", ev.Path)
		} else {
			p.verbosef("Excluding directory %s\n", ev.Path)
		}
	case CacheDirFound:
		p.verbosef("Cache dir found: %s\n", ev.Path)
	case FileMatched:
		fmt.Fprintf(p.w, "Adding file %s to archive\n", ev.Path)
	case FileArchived:
		p.verbosef("  %s  %s\n", ev.Name, FormatBytes(ev.Size))
	case FileFailed:
		fmt.Fprintf(p.errW, "Error processing file %s: %s\n", ev.Path, errText(ev.Error))
	case DirFailed:
		fmt.Fprintf(p.errW, "Error scanning directory %s: %s\n", ev.Path, errText(ev.Error))
	case ScanComplete:
		if ev.Error != nil {
			fmt.Fprintf(p.errW, "Failed: %s\n", errText(ev.Error))
		}
	}
}

func (p *plainPresenter) verbosef(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(p.w, format, args...)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	fmt.Fprintf(p.errW, "progress: %s dirs  %s files  %s  %s  %s\n",
		FormatCount(snap.DirsScanned),
		FormatCount(snap.FilesArchived),
		FormatBytes(snap.BytesArchived),
		FormatRate(p.stats.RollingSpeed(10)),
		FormatFileRate(p.stats.RollingFilesPerSec(10)),
	)
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot())
}

func errText(err error) string {
	if err == nil {
		return "error"
	}
	return err.Error()
}
