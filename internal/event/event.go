package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted   Type = iota + 1
	ScanComplete       // walk finished (or stopped)
	DirScanned         // a directory is about to be listed
	DirExcluded        // subtree skipped: exclude pattern or directory symlink
	DirFailed          // a directory could not be listed
	CacheDirFound      // directory classified as cache data
	FileMatched        // file selected for archiving
	FileArchived       // entry fully written and flushed
	FileFailed         // entry skipped or written with a zero-filled body
)

var typeNames = [...]string{
	ScanStarted:   "ScanStarted",
	ScanComplete:  "ScanComplete",
	DirScanned:    "DirScanned",
	DirExcluded:   "DirExcluded",
	DirFailed:     "DirFailed",
	CacheDirFound: "CacheDirFound",
	FileMatched:   "FileMatched",
	FileArchived:  "FileArchived",
	FileFailed:    "FileFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single notification from the scan engine. The engine never
// prints; presenters and loggers render events.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path on disk
	Name      string // logical path inside the archive (FileArchived)
	Reason    string // why a directory was excluded or classified
	Size      int64
	Unit      int64 // anonymization counter of the archived unit
	Error     error
}
