package idxfile

import (
	"encoding/binary"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// Encoder writes a MemoryIndex out in pack index v2 wire format: a magic
// header, the 256-entry fanout table, then three parallel arrays (sorted
// hashes, CRC32s, 32-bit offsets with a 64-bit extension table for
// offsets beyond 2GiB), and finally the pack and index checksums.
type Encoder struct {
	w      io.Writer
	hasher plumbing.Hasher
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes idx and returns the number of bytes written.
func (e *Encoder) Encode(idx *MemoryIndex) (int, error) {
	idx.ensureSorted()

	h := newRunningHash(e.w)
	total := 0

	write := func(p []byte) error {
		n, err := h.Write(p)
		total += n
		return err
	}

	if err := write(idxHeader); err != nil {
		return total, err
	}
	if err := writeUint32(write, VersionSupported); err != nil {
		return total, err
	}

	fanout := e.buildFanout(idx)
	for _, c := range fanout {
		if err := writeUint32(write, c); err != nil {
			return total, err
		}
	}

	for _, ent := range idx.entries {
		if err := write(ent.Hash[:]); err != nil {
			return total, err
		}
	}

	for _, ent := range idx.entries {
		if err := writeUint32(write, ent.CRC32); err != nil {
			return total, err
		}
	}

	var large []uint64
	for _, ent := range idx.entries {
		if ent.Offset > 0x7fffffff {
			if err := writeUint32(write, largeOffsetFlag|uint32(len(large))); err != nil {
				return total, err
			}
			large = append(large, ent.Offset)
			continue
		}
		if err := writeUint32(write, uint32(ent.Offset)); err != nil {
			return total, err
		}
	}
	for _, off := range large {
		if err := writeUint64(write, off); err != nil {
			return total, err
		}
	}

	if err := write(idx.PackfileChecksum[:]); err != nil {
		return total, err
	}

	sum := h.sum()
	n, err := e.w.Write(sum)
	total += n
	if err != nil {
		return total, err
	}
	copy(idx.IdxChecksum[:], sum)

	return total, nil
}

func (e *Encoder) buildFanout(idx *MemoryIndex) [fanoutEntries]uint32 {
	var fanout [fanoutEntries]uint32
	for _, ent := range idx.entries {
		for i := int(ent.Hash[0]); i < fanoutEntries; i++ {
			fanout[i]++
		}
	}
	return fanout
}

func writeUint32(write func([]byte) error, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return write(b[:])
}

func writeUint64(write func([]byte) error, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return write(b[:])
}
