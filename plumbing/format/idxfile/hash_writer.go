package idxfile

import (
	"crypto/sha1"
	"hash"
	"io"
)

// runningHash tees everything written through it to an underlying writer
// and a rolling SHA1, so the trailing index checksum can be produced
// without a second pass over the bytes.
type runningHash struct {
	w io.Writer
	h hash.Hash
}

func newRunningHash(w io.Writer) *runningHash {
	return &runningHash{w: w, h: sha1.New()}
}

func (r *runningHash) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if n > 0 {
		r.h.Write(p[:n])
	}
	return n, err
}

func (r *runningHash) sum() []byte {
	return r.h.Sum(nil)
}
