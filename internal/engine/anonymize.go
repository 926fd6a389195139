package engine

import "fmt"

// maskedName replaces any directory name matching a mask pattern.
const maskedName = "folder"

// nextUnit allocates the anonymized folder id for one archived unit.
func (sc *ScanContext) nextUnit() int64 {
	sc.counter++
	sc.stats.AddUnits(1)
	return sc.counter
}

func (sc *ScanContext) mask(name string) string {
	if sc.sets.Masks.Match(name) {
		return maskedName
	}
	return name
}

// makePrefix builds the archive directory for unit:
//
//	dir<unit>/<parent>/<name>
//
// The parent segment is dropped for children of the walk root, so the
// root's own name (often a home directory) never reaches the archive.
func (sc *ScanContext) makePrefix(d Dir, unit int64) string {
	name := sc.mask(d.Name)
	if d.Depth <= 1 || d.ParentName == "" {
		return fmt.Sprintf("dir%07d/%s", unit, name)
	}
	return fmt.Sprintf("dir%07d/%s/%s", unit, sc.mask(d.ParentName), name)
}
