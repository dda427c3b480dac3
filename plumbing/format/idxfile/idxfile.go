// Package idxfile implements the pack index format (§4.5): the sorted,
// fanout-accelerated sidecar that lets a hash be mapped to its byte offset
// within a pack without scanning the pack itself.
package idxfile

import (
	"bytes"
	"errors"
	"sort"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// VersionSupported is the only on-disk index version this package reads
// and writes.
const VersionSupported = 2

var idxHeader = []byte{255, 't', 'O', 'c'}

// ErrUnsupportedVersion is returned when decoding an index whose version
// byte isn't VersionSupported.
var ErrUnsupportedVersion = errors.New("idxfile: unsupported version")

// ErrMalformedIdxFile is returned when the index bytes don't parse.
var ErrMalformedIdxFile = errors.New("idxfile: malformed index file")

const fanoutEntries = 256

// largeOffsetFlag marks a 32-bit offset slot that is really an index into
// the 64-bit offset table, for packs bigger than 2GiB.
const largeOffsetFlag = uint32(1) << 31

// entry is one hash's worth of bookkeeping, kept sorted by Hash.
type entry struct {
	Hash   plumbing.Hash
	CRC32  uint32
	Offset uint64
}

// MemoryIndex is an in-memory representation of a pack index (§4.5): for
// every object in the pack, its hash, CRC32 of the compressed entry, and
// byte offset.
type MemoryIndex struct {
	entries         []entry
	sorted          bool
	PackfileChecksum plumbing.Hash
	IdxChecksum      plumbing.Hash
}

// NewMemoryIndex returns a new, empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Add registers hash h at pack offset off with the given CRC32 of its
// compressed entry bytes.
func (idx *MemoryIndex) Add(h plumbing.Hash, offset uint64, crc uint32) {
	idx.entries = append(idx.entries, entry{Hash: h, CRC32: crc, Offset: offset})
	idx.sorted = false
}

func (idx *MemoryIndex) ensureSorted() {
	if idx.sorted {
		return
	}
	sort.Slice(idx.entries, func(i, j int) bool {
		return bytes.Compare(idx.entries[i].Hash[:], idx.entries[j].Hash[:]) < 0
	})
	idx.sorted = true
}

// Count returns the number of indexed objects.
func (idx *MemoryIndex) Count() int {
	return len(idx.entries)
}

// FindOffset returns the pack offset of h, or ok=false if h isn't indexed.
func (idx *MemoryIndex) FindOffset(h plumbing.Hash) (offset uint64, ok bool) {
	idx.ensureSorted()
	i := sort.Search(len(idx.entries), func(i int) bool {
		return bytes.Compare(idx.entries[i].Hash[:], h[:]) >= 0
	})
	if i < len(idx.entries) && idx.entries[i].Hash == h {
		return idx.entries[i].Offset, true
	}
	return 0, false
}

// FindCRC32 returns the CRC32 of h's compressed pack entry, or ok=false
// if h isn't indexed.
func (idx *MemoryIndex) FindCRC32(h plumbing.Hash) (crc uint32, ok bool) {
	idx.ensureSorted()
	i := sort.Search(len(idx.entries), func(i int) bool {
		return bytes.Compare(idx.entries[i].Hash[:], h[:]) >= 0
	})
	if i < len(idx.entries) && idx.entries[i].Hash == h {
		return idx.entries[i].CRC32, true
	}
	return 0, false
}

// Contains reports whether h is indexed.
func (idx *MemoryIndex) Contains(h plumbing.Hash) bool {
	_, ok := idx.FindOffset(h)
	return ok
}

// FindHash returns the hash stored at pack offset off, or ok=false if no
// entry has that offset.
func (idx *MemoryIndex) FindHash(offset uint64) (h plumbing.Hash, ok bool) {
	for _, e := range idx.entries {
		if e.Offset == offset {
			return e.Hash, true
		}
	}
	return plumbing.ZeroHash, false
}

// EntryHashes returns every indexed hash, in index (sorted) order.
func (idx *MemoryIndex) EntryHashes() []plumbing.Hash {
	idx.ensureSorted()
	out := make([]plumbing.Hash, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.Hash
	}
	return out
}
