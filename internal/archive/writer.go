package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/cachefinder/internal/platform"
)

// Flusher is implemented by sinks that buffer writes (compressors, buffered
// files). The writer flushes after every entry.
type Flusher interface {
	Flush() error
}

// Entry describes one archived file as recorded in its header.
type Entry struct {
	Source  string
	Name    string
	Size    int64
	ModTime time.Time
}

// Writer appends ustar entries to a stream. It is not safe for concurrent
// use; callers serialize entries into a single order.
type Writer struct {
	w       io.Writer
	limiter *rate.Limiter
	trailer bool
	block   [BlockSize]byte
	written int64
}

// Option configures a Writer.
type Option func(*Writer)

// WithLimiter throttles source reads through l.
func WithLimiter(l *rate.Limiter) Option {
	return func(w *Writer) { w.limiter = l }
}

// WithTrailer makes Close append the two zero blocks that mark the end of
// an archive.
func WithTrailer() Option {
	return func(w *Writer) { w.trailer = true }
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	aw := &Writer{w: w}
	for _, opt := range opts {
		opt(aw)
	}
	return aw
}

// Written returns the number of archive bytes emitted so far.
func (w *Writer) Written() int64 { return w.written }

// WriteFile archives src under prefix + "/" + base(src).
//
// Errors are typed by how far the entry got: *FileError when nothing was
// written, *ReadError when the header went out but the body could not be
// read in full (the body is zero-filled to keep the stream aligned), and
// *WriteError when the stream itself failed. A context that is already
// done is returned as is and nothing is written. Cancellation during the
// body lifts the bandwidth limit so the entry still completes with real
// data.
//
//nolint:revive // cognitive-complexity: linear sequence of stat/open/header/body steps
func (w *Writer) WriteFile(ctx context.Context, src, prefix string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return Entry{}, &FileError{Op: "stat", Path: src, Err: err}
	}
	if !info.Mode().IsRegular() {
		return Entry{}, &FileError{Op: "stat", Path: src, Err: ErrNotRegular}
	}

	entry := Entry{
		Source:  src,
		Name:    prefix + "/" + filepath.Base(src),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	hdr, err := Header{Name: entry.Name, Size: entry.Size, ModTime: entry.ModTime}.Encode()
	if err != nil {
		return entry, &FileError{Op: "header", Path: src, Err: err}
	}

	f, err := os.Open(src)
	if err != nil {
		return entry, &FileError{Op: "open", Path: src, Err: err}
	}
	defer f.Close()
	platform.AdviseSequential(f)
	defer platform.AdviseDone(f)

	w.block = hdr
	if err := w.writeBlock(); err != nil {
		return entry, &WriteError{Op: "write header", Err: err}
	}

	var r io.Reader = f
	if w.limiter != nil {
		r = newRateLimitedReader(ctx, r, w.limiter)
	}
	readErr, err := w.copyBody(r, entry.Size)
	if err != nil {
		return entry, &WriteError{Op: "write body", Err: err}
	}

	if err := w.flush(); err != nil {
		return entry, err
	}

	if readErr != nil {
		return entry, &ReadError{Path: src, Err: readErr}
	}
	return entry, nil
}

// copyBody writes exactly size bytes from r as whole blocks. Once r fails
// or runs short, the rest of the body is written as zeros.
func (w *Writer) copyBody(r io.Reader, size int64) (readErr, writeErr error) {
	for remaining := size; remaining > 0; {
		want := min(remaining, BlockSize)
		clear(w.block[:])
		if readErr == nil {
			if _, err := io.ReadFull(r, w.block[:want]); err != nil {
				readErr = err
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					readErr = fmt.Errorf("file shrank during copy: %w", io.ErrUnexpectedEOF)
				}
			}
		}
		// A short final read still goes out as one full, zero-padded block.
		if err := w.writeBlock(); err != nil {
			return readErr, err
		}
		remaining -= want
	}
	return readErr, nil
}

func (w *Writer) writeBlock() error {
	n, err := w.w.Write(w.block[:])
	w.written += int64(n)
	if err == nil && n != BlockSize {
		err = io.ErrShortWrite
	}
	return err
}

func (w *Writer) flush() error {
	if fl, ok := w.w.(Flusher); ok {
		if err := fl.Flush(); err != nil {
			return &WriteError{Op: "flush", Err: err}
		}
	}
	return nil
}

// Close writes the end-of-archive trailer when enabled and flushes. It
// does not close the underlying stream.
func (w *Writer) Close() error {
	if w.trailer {
		clear(w.block[:])
		for range 2 {
			if err := w.writeBlock(); err != nil {
				return &WriteError{Op: "write trailer", Err: err}
			}
		}
	}
	return w.flush()
}
