// Package archive writes ustar archives block by block without an archive
// library, and lists them back with a standard reader.
package archive

import (
	"fmt"
	"strings"
	"time"
)

// BlockSize is the ustar record unit. Every header and every body chunk
// occupies exactly one block.
const BlockSize = 512

// ustar header layout: offset and width of every field this writer fills.
const (
	offName     = 0
	lenName     = 100
	offMode     = 100
	offUID      = 108
	offGID      = 116
	offSize     = 124
	lenNumeric  = 12 // size and mtime: 11 octal digits + NUL
	offMtime    = 136
	offChksum   = 148
	lenChksum   = 8
	offTypeflag = 156
	offMagic    = 257
	offVersion  = 263
	offUname    = 265
	offGname    = 297
	offPrefix   = 345
	lenPrefix   = 155
)

// Fixed metadata. Only size and mtime come from the source file.
const (
	fixedMode    = "0000644\x00"
	fixedOwnerID = "0001750\x00"
	fixedUser    = "user\x00"
	magic        = "ustar\x00"
	version      = "00" // not NUL-terminated
	typeRegular  = '0'
)

// maxOctal11 is the largest value 11 octal digits can hold (8 GiB - 1).
const maxOctal11 = 1<<33 - 1

// Header is the per-entry metadata this writer records.
type Header struct {
	Name    string // logical path inside the archive
	Size    int64
	ModTime time.Time
}

// Encode packs h into a ustar header block, checksum included.
func (h Header) Encode() ([BlockSize]byte, error) {
	var b [BlockSize]byte

	prefix, name, err := splitName(h.Name)
	if err != nil {
		return b, err
	}
	if h.Size < 0 || h.Size > maxOctal11 {
		return b, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, h.Size)
	}

	mtime := h.ModTime.Unix()
	mtime = max(0, min(mtime, maxOctal11))

	copy(b[offName:], name)
	copy(b[offMode:], fixedMode)
	copy(b[offUID:], fixedOwnerID)
	copy(b[offGID:], fixedOwnerID)
	putOctal(b[offSize:offSize+lenNumeric], h.Size)
	putOctal(b[offMtime:offMtime+lenNumeric], mtime)
	b[offTypeflag] = typeRegular
	copy(b[offMagic:], magic)
	copy(b[offVersion:], version)
	copy(b[offUname:], fixedUser)
	copy(b[offGname:], fixedUser)
	copy(b[offPrefix:], prefix)

	sum := Checksum(b)
	// 7 octal digits + NUL; the largest possible sum (512*255) fits in 6.
	copy(b[offChksum:], fmt.Sprintf("%07o\x00", sum))
	return b, nil
}

// Checksum returns the unsigned byte sum of b with the checksum field read
// as eight spaces.
func Checksum(b [BlockSize]byte) int64 {
	var sum int64
	for i, c := range b {
		if i >= offChksum && i < offChksum+lenChksum {
			c = ' '
		}
		sum += int64(c)
	}
	return sum
}

// putOctal writes v as zero-padded octal filling all but the last byte of
// field, which is left NUL.
func putOctal(field []byte, v int64) {
	copy(field, fmt.Sprintf("%0*o", len(field)-1, v))
	field[len(field)-1] = 0
}

// splitName fits p into the name field, spilling leading directories into
// the prefix field when p is longer than the name field allows.
func splitName(p string) (prefix, name string, err error) {
	if p == "" {
		return "", "", ErrEmptyName
	}
	if len(p) <= lenName {
		return "", p, nil
	}
	for i := min(len(p)-1, lenPrefix); i > 0; i-- {
		if p[i] != '/' {
			continue
		}
		if len(p)-i-1 > lenName {
			break
		}
		if i == len(p)-1 {
			continue
		}
		return p[:i], p[i+1:], nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrNameTooLong, truncate(p, 64))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
