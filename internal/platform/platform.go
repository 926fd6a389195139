// Package platform wraps OS-specific I/O hints used while archiving.
package platform

import "os"

// AdviseSequential tells the kernel f will be read once, front to back.
func AdviseSequential(f *os.File) { adviseSequential(f) }

// AdviseDone tells the kernel the cached pages of f are no longer needed,
// so a scan over a whole disk does not evict the rest of the page cache.
func AdviseDone(f *os.File) { adviseDone(f) }
