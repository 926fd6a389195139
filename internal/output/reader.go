package output

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect reports the compression of the stream behind br by its magic
// bytes without consuming them.
func Detect(br *bufio.Reader) Compression {
	head, _ := br.Peek(4) //nolint:errcheck // short streams are simply uncompressed
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return Gzip
	case bytes.HasPrefix(head, magicZstd):
		return Zstd
	case bytes.HasPrefix(head, magicLZ4):
		return LZ4
	default:
		return None
	}
}

// NewReader returns the decompressed view of r, detected from its magic
// bytes, and the compression that was found.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	c := Detect(br)
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, c, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), c, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), c, nil
	default:
		return io.NopCloser(br), c, nil
	}
}

// Open opens an archive written by Create for reading.
func Open(path string) (io.ReadCloser, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, None, err
	}
	rc, c, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, c, err
	}
	return &readCloser{ReadCloser: rc, f: f}, c, nil
}

type readCloser struct {
	io.ReadCloser
	f *os.File
}

func (r *readCloser) Close() error {
	return errors.Join(r.ReadCloser.Close(), r.f.Close())
}
