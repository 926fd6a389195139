package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

const ringSize = 60

// Reader is the read side of a Collector, used by presenters.
type Reader interface {
	Snapshot() Snapshot
}

// ReadTicker is a Reader that also samples throughput once per second.
type ReadTicker interface {
	Reader
	Tick()
	RollingSpeed(seconds int) float64
	RollingFilesPerSec(seconds int) float64
}

// Collector tracks scan statistics using lock-free atomic counters. The
// walk goroutine writes; presenters read concurrently.
type Collector struct {
	dirsScanned   atomic.Int64
	dirsExcluded  atomic.Int64
	dirsFailed    atomic.Int64
	cacheDirs     atomic.Int64
	units         atomic.Int64
	filesMatched  atomic.Int64
	filesArchived atomic.Int64
	filesFailed   atomic.Int64
	bytesArchived atomic.Int64
	startTime     time.Time

	// Ring buffer, written only by the presenter's Tick().
	mu          sync.Mutex
	throughput  [ringSize]int64 // bytes delta per second
	filesPerSec [ringSize]int64 // files delta per second
	ringIdx     int
	ringCount   int // samples written, capped at ringSize
	lastBytes   int64
	lastFiles   int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DirsScanned   int64
	DirsExcluded  int64
	DirsFailed    int64
	CacheDirs     int64
	Units         int64 // anonymized folders allocated
	FilesMatched  int64
	FilesArchived int64
	FilesFailed   int64
	BytesArchived int64
	Elapsed       time.Duration
}

func (c *Collector) AddDirsScanned(n int64)   { c.dirsScanned.Add(n) }
func (c *Collector) AddDirsExcluded(n int64)  { c.dirsExcluded.Add(n) }
func (c *Collector) AddDirsFailed(n int64)    { c.dirsFailed.Add(n) }
func (c *Collector) AddCacheDirs(n int64)     { c.cacheDirs.Add(n) }
func (c *Collector) AddUnits(n int64)         { c.units.Add(n) }
func (c *Collector) AddFilesMatched(n int64)  { c.filesMatched.Add(n) }
func (c *Collector) AddFilesArchived(n int64) { c.filesArchived.Add(n) }
func (c *Collector) AddFilesFailed(n int64)   { c.filesFailed.Add(n) }
func (c *Collector) AddBytesArchived(n int64) { c.bytesArchived.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DirsScanned:   c.dirsScanned.Load(),
		DirsExcluded:  c.dirsExcluded.Load(),
		DirsFailed:    c.dirsFailed.Load(),
		CacheDirs:     c.cacheDirs.Load(),
		Units:         c.units.Load(),
		FilesMatched:  c.filesMatched.Load(),
		FilesArchived: c.filesArchived.Load(),
		FilesFailed:   c.filesFailed.Load(),
		BytesArchived: c.bytesArchived.Load(),
		Elapsed:       c.Elapsed(),
	}
}

// Tick snapshots byte/file deltas into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesArchived.Load()
	currentFiles := c.filesArchived.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = currentBytes - c.lastBytes
	c.filesPerSec[c.ringIdx] = currentFiles - c.lastFiles
	c.lastBytes = currentBytes
	c.lastFiles = currentFiles

	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.throughput[:], seconds)
}

// RollingFilesPerSec returns average files/sec over the last n seconds.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.filesPerSec[:], seconds)
}

func (c *Collector) rollingAvg(buf []int64, n int) float64 {
	count := min(n, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += buf[idx]
	}
	return float64(sum) / float64(count)
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dirs=%d excluded=%d cachedirs=%d units=%d matched=%d archived=%d failed=%d bytes=%d",
		s.DirsScanned, s.DirsExcluded, s.CacheDirs, s.Units,
		s.FilesMatched, s.FilesArchived, s.FilesFailed, s.BytesArchived,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	if b < 0 {
		return "-" + humanize.IBytes(uint64(-b))
	}
	return humanize.IBytes(uint64(b))
}
