package idxfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// Decoder reads a pack index v2 stream into a MemoryIndex.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads a complete index into idx.
func (d *Decoder) Decode(idx *MemoryIndex) error {
	var header [4]byte
	if _, err := io.ReadFull(d.r, header[:]); err != nil {
		return err
	}
	if !bytes.Equal(header[:], idxHeader) {
		return ErrMalformedIdxFile
	}

	version, err := d.readUint32()
	if err != nil {
		return err
	}
	if version != VersionSupported {
		return ErrUnsupportedVersion
	}

	var fanout [fanoutEntries]uint32
	for i := range fanout {
		v, err := d.readUint32()
		if err != nil {
			return err
		}
		fanout[i] = v
	}
	count := int(fanout[fanoutEntries-1])

	hashes := make([]plumbing.Hash, count)
	for i := range hashes {
		if _, err := io.ReadFull(d.r, hashes[i][:]); err != nil {
			return err
		}
	}

	crcs := make([]uint32, count)
	for i := range crcs {
		v, err := d.readUint32()
		if err != nil {
			return err
		}
		crcs[i] = v
	}

	raw32 := make([]uint32, count)
	var numLarge int
	for i := range raw32 {
		v, err := d.readUint32()
		if err != nil {
			return err
		}
		raw32[i] = v
		if v&largeOffsetFlag != 0 {
			n := int(v &^ largeOffsetFlag)
			if n+1 > numLarge {
				numLarge = n + 1
			}
		}
	}

	large := make([]uint64, numLarge)
	for i := range large {
		v, err := d.readUint64()
		if err != nil {
			return err
		}
		large[i] = v
	}

	idx.entries = make([]entry, count)
	for i := 0; i < count; i++ {
		off := uint64(raw32[i])
		if raw32[i]&largeOffsetFlag != 0 {
			off = large[raw32[i]&^largeOffsetFlag]
		}
		idx.entries[i] = entry{Hash: hashes[i], CRC32: crcs[i], Offset: off}
	}
	idx.sorted = true

	if _, err := io.ReadFull(d.r, idx.PackfileChecksum[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(d.r, idx.IdxChecksum[:]); err != nil {
		return err
	}

	return nil
}

func (d *Decoder) readUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
