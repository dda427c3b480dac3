package objfile

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

var ErrOverflow = errors.New("objfile: write beyond declared size")

// Writer writes a loose object in its zlib-compressed wire format: the
// "<type> <size>\x00" header followed by exactly size bytes of payload.
type Writer struct {
	w      io.Writer
	zw     *zlib.Writer
	hasher plumbing.Hasher
	multi  io.Writer

	size    int64
	written int64
	closed  bool
}

// NewWriter returns a Writer that compresses onto w with zlib.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the "<type> <size>\x00" prefix. It must be called
// exactly once, before any call to Write.
func (w *Writer) WriteHeader(t plumbing.ObjectType, size int64) error {
	if t == plumbing.InvalidObject {
		return plumbing.ErrInvalidType
	}
	if size < 0 {
		return ErrNegativeSize
	}

	w.size = size
	w.hasher = plumbing.NewHasher(t, size)
	w.zw = zlib.NewWriter(w.w)
	w.multi = io.MultiWriter(w.zw, w.hasher)

	b := fmt.Appendf(nil, "%s %d", t, size)
	b = append(b, 0)
	_, err := w.zw.Write(b)
	return err
}

// Write writes payload bytes, failing with ErrOverflow once more than the
// size declared to WriteHeader would be written.
func (w *Writer) Write(p []byte) (int, error) {
	overflow := (w.written + int64(len(p))) - w.size
	if overflow > 0 {
		p = p[:int64(len(p))-overflow]
	}

	n, err := w.multi.Write(p)
	w.written += int64(n)
	if err == nil && overflow > 0 {
		err = ErrOverflow
	}
	return n, err
}

// Hash returns the content hash of everything written so far.
func (w *Writer) Hash() plumbing.Hash {
	return w.hasher.Sum()
}

// Close flushes and closes the underlying zlib writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.zw.Close()
}
