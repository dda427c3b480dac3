// Package cache implements volatile, size-bounded LRU caches (§4.4): a
// FileSize-budgeted cache of raw byte buffers, and one of decoded
// plumbing.EncodedObject values. No store in this module constructs one.
package cache

import "github.com/statewalker/vcs-sub000/plumbing"

// FileSize is a byte count, with Byte/KiByte/MiByte/GiByte unit constants
// for sizing a cache budget.
type FileSize int64

const (
	Byte FileSize = 1 << (iota * 10)
	KiByte
	MiByte
	GiByte
)

// Object is an LRU cache of decoded objects keyed by hash, bounded by total
// uncompressed size.
type Object interface {
	Put(o plumbing.EncodedObject)
	Get(k plumbing.Hash) (plumbing.EncodedObject, bool)
	Clear()
}

// Buffer is an LRU cache of raw byte buffers keyed by an opaque int64,
// bounded by total byte size.
type Buffer interface {
	Put(k int64, buf []byte)
	Get(k int64) ([]byte, bool)
	Clear()
}

// DefaultMaxSize is the cache budget used by NewObjectLRUDefault and
// NewBufferLRUDefault.
const DefaultMaxSize = 96 * MiByte
