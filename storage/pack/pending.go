package pack

import (
	"bytes"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/format/idxfile"
	"github.com/statewalker/vcs-sub000/plumbing/format/packfile"
)

// PendingPack accumulates objects destined for a single new pack file,
// flushing once either threshold is crossed (§4.5). Because
// packfile.Encoder only ever emits full objects (never OFS_DELTA/
// REF_DELTA), every object PendingPack holds is written out whole; there
// is no base-in-pending-set-vs-REF_DELTA distinction to make here, since
// that distinction only matters for an encoder capable of emitting
// deltas.
type PendingPack struct {
	maxObjects int
	maxBytes   int64

	objects []plumbing.EncodedObject
	bytes   int64
	seen    map[plumbing.Hash]bool
}

// NewPendingPack returns an empty accumulator that flushes once it holds
// maxObjects objects or maxBytes bytes of (uncompressed) content,
// whichever comes first. A non-positive threshold disables that
// particular limit.
func NewPendingPack(maxObjects int, maxBytes int64) *PendingPack {
	return &PendingPack{
		maxObjects: maxObjects,
		maxBytes:   maxBytes,
		seen:       make(map[plumbing.Hash]bool),
	}
}

// Add stages obj for the next flush. Re-adding a hash already staged is a
// no-op.
func (p *PendingPack) Add(obj plumbing.EncodedObject) {
	h := obj.Hash()
	if p.seen[h] {
		return
	}
	p.seen[h] = true
	p.objects = append(p.objects, obj)
	p.bytes += obj.Size()
}

// Len returns the number of distinct objects currently staged.
func (p *PendingPack) Len() int { return len(p.objects) }

// ShouldFlush reports whether either threshold has been crossed.
func (p *PendingPack) ShouldFlush() bool {
	if p.maxObjects > 0 && len(p.objects) >= p.maxObjects {
		return true
	}
	if p.maxBytes > 0 && p.bytes >= p.maxBytes {
		return true
	}
	return false
}

// FlushResult is what Flush produces: a complete pack plus the index
// describing it.
type FlushResult struct {
	PackName  string
	PackData  []byte
	IndexData []byte
	Entries   []plumbing.Hash
}

// Flush encodes every staged object into a new pack, builds its index,
// and clears the accumulator. Calling Flush on an empty PendingPack
// returns a valid empty pack, not an error.
func (p *PendingPack) Flush() (*FlushResult, error) {
	packBuf := &bytes.Buffer{}
	positions, err := packfile.NewEncoder(packBuf).Encode(p.objects)
	if err != nil {
		return nil, err
	}
	packData := packBuf.Bytes()

	var checksum plumbing.Hash
	copy(checksum[:], packData[len(packData)-plumbing.HashSize:])

	idx := idxfile.NewMemoryIndex()
	idx.PackfileChecksum = checksum
	entries := make([]plumbing.Hash, 0, len(p.objects))
	for h, pos := range positions {
		idx.Add(h, uint64(pos.Offset), pos.CRC32)
		entries = append(entries, h)
	}

	idxBuf := &bytes.Buffer{}
	if _, err := idxfile.NewEncoder(idxBuf).Encode(idx); err != nil {
		return nil, err
	}

	result := &FlushResult{
		PackName:  checksum.String(),
		PackData:  packData,
		IndexData: idxBuf.Bytes(),
		Entries:   entries,
	}

	p.objects = nil
	p.bytes = 0
	p.seen = make(map[plumbing.Hash]bool)

	return result, nil
}
