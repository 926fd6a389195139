package ui

import (
	"fmt"

	"github.com/bamsammich/cachefinder/internal/stats"
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 1,204  size 310 MiB  folders 37  dirs 48,917  time 1m 02s  errors 0
func completionSummary(snap stats.Snapshot) string {
	icon := "✓"
	errs := snap.FilesFailed + snap.DirsFailed
	if errs > 0 {
		icon = "✗"
	}

	return fmt.Sprintf("done %s  files %s  size %s  folders %s  dirs %s  time %s  errors %d",
		icon,
		FormatCount(snap.FilesArchived),
		FormatBytes(snap.BytesArchived),
		FormatCount(snap.Units),
		FormatCount(snap.DirsScanned),
		FormatDuration(snap.Elapsed),
		errs,
	)
}
