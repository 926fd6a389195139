//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

//nolint:gosec // G115: fd values are small non-negative integers
func fadvise(f *os.File, advice int) {
	//nolint:errcheck // fadvise is advisory; not supported on all filesystems
	unix.Fadvise(int(f.Fd()), 0, 0, advice)
}

func adviseSequential(f *os.File) { fadvise(f, unix.FADV_SEQUENTIAL) }

func adviseDone(f *os.File) { fadvise(f, unix.FADV_DONTNEED) }
