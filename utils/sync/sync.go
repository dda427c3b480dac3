// Package sync provides a shared pool of byte slices for I/O buffering,
// so hot paths like pack decoding and context-aware copies don't each
// allocate their own scratch buffer.
package sync

import "sync"

const bufSize = 32 * 1024

var bufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, bufSize)
		return &buf
	},
}

// GetByteSlice borrows a buffer from the shared pool. Callers must
// return it with PutByteSlice once done.
func GetByteSlice() *[]byte {
	return bufPool.Get().(*[]byte)
}

// PutByteSlice returns a buffer borrowed from GetByteSlice to the pool.
func PutByteSlice(buf *[]byte) {
	bufPool.Put(buf)
}
