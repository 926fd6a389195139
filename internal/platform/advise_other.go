//go:build !linux

package platform

import "os"

// posix_fadvise is Linux-only here; the hints are no-ops elsewhere.
func adviseSequential(_ *os.File) {}

func adviseDone(_ *os.File) {}
