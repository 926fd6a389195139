package ui

import "github.com/bamsammich/cachefinder/internal/event"

// Event is re-exported so presenters need not import the event package.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanStarted   = event.ScanStarted
	ScanComplete  = event.ScanComplete
	DirScanned    = event.DirScanned
	DirExcluded   = event.DirExcluded
	DirFailed     = event.DirFailed
	CacheDirFound = event.CacheDirFound
	FileMatched   = event.FileMatched
	FileArchived  = event.FileArchived
	FileFailed    = event.FileFailed
)
