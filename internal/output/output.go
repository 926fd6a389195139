// Package output owns the archive file: exclusive creation, optional
// stream compression, and durable flushing after every entry.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the stream wrapper applied around the archive.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	LZ4  Compression = "lz4"
)

// ParseCompression accepts the names above (case-insensitive); "" is None.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", None:
		return None, nil
	case Gzip, Zstd, LZ4:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (use none, gzip, zstd or lz4)", s)
	}
}

// Ext returns the conventional file suffix for archives compressed with c.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".tar.gz"
	case Zstd:
		return ".tar.zst"
	case LZ4:
		return ".tar.lz4"
	default:
		return ".tar"
	}
}

// ErrOutputExists is returned when the output path already exists.
var ErrOutputExists = errors.New("output path already exists")

// CreateError reports an output file that could not be created.
type CreateError struct {
	Path string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create output %s: %v", e.Path, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// compressor is the subset shared by the gzip, zstd and lz4 writers.
type compressor interface {
	io.WriteCloser
	Flush() error
}

// Sink is the archive output stream. Writes go through an optional
// compressor into a buffered file. Flush pushes everything to disk.
type Sink struct {
	path string
	f    *os.File
	buf  *bufio.Writer
	comp compressor
	w    io.Writer
}

// Create makes a new file at path. It never overwrites: an existing path,
// including a dangling symlink, yields ErrOutputExists.
func Create(path string, c Compression) (*Sink, error) {
	if _, err := os.Lstat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return nil, &CreateError{Path: path, Err: err}
	}

	s := &Sink{path: path, f: f, buf: bufio.NewWriterSize(f, 64*1024)}
	s.w = s.buf

	switch c {
	case "", None:
	case Gzip:
		s.comp = gzip.NewWriter(s.buf)
	case Zstd:
		enc, err := zstd.NewWriter(s.buf, zstd.WithEncoderConcurrency(1))
		if err != nil {
			f.Close()
			os.Remove(path)
			return nil, &CreateError{Path: path, Err: fmt.Errorf("zstd encoder: %w", err)}
		}
		s.comp = enc
	case LZ4:
		s.comp = lz4.NewWriter(s.buf)
	default:
		f.Close()
		os.Remove(path)
		return nil, &CreateError{Path: path, Err: fmt.Errorf("unknown compression %q", c)}
	}
	if s.comp != nil {
		s.w = s.comp
	}
	return s, nil
}

// Path returns the file path the sink writes to.
func (s *Sink) Path() string { return s.path }

func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush emits any compressor state, drains the buffer and fsyncs the file,
// so a crash loses at most the entry being written.
func (s *Sink) Flush() error {
	if s.comp != nil {
		if err := s.comp.Flush(); err != nil {
			return fmt.Errorf("flush compressor: %w", err)
		}
	}
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flush buffer: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// Close finishes the compressed stream, flushes and closes the file.
func (s *Sink) Close() error {
	var errs []error
	if s.comp != nil {
		if err := s.comp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close compressor: %w", err))
		}
	}
	if err := s.buf.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush buffer: %w", err))
	}
	if err := s.f.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync %s: %w", s.path, err))
	}
	if err := s.f.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
