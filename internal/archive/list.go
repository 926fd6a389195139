package archive

import (
	"archive/tar"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/blake3"
)

// Listed is one entry read back from an archive.
type Listed struct {
	Name    string
	Size    int64
	ModTime time.Time
	Digest  string // hex BLAKE3 of the entry body
}

// List reads an uncompressed archive from r and calls fn for every entry.
// It stops at the end-of-archive marker, at the end of the stream when no
// trailer was written, or at the first error returned by fn.
func List(r io.Reader, fn func(Listed) error) error {
	tr := tar.NewReader(r)
	buf := make([]byte, 32*1024)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		h := blake3.New()
		if _, err := io.CopyBuffer(h, tr, buf); err != nil {
			return fmt.Errorf("read %s: %w", hdr.Name, err)
		}

		if err := fn(Listed{
			Name:    hdr.Name,
			Size:    hdr.Size,
			ModTime: hdr.ModTime,
			Digest:  hex.EncodeToString(h.Sum(nil)),
		}); err != nil {
			return err
		}
	}
}
