package packfile

import (
	"compress/zlib"
	"crypto/sha1"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// Encoder writes a pack stream (§4.3). It always stores objects
// undeltified: producing OFS_DELTA/REF_DELTA entries is a size
// optimization that isn't required for a pack to be valid, and the
// consolidator only ever needs to emit packs, not recompress existing
// delta chains into smaller ones.
type Encoder struct {
	w    io.Writer
	sha1 hash1
}

type hash1 interface {
	io.Writer
	Sum([]byte) []byte
}

// objectPos records where an encoded object landed in the pack and the
// CRC32 of its compressed bytes, the two facts an index entry needs
// beyond the hash itself.
type objectPos struct {
	Offset int64
	CRC32  uint32
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, sha1: sha1.New()}
}

func (e *Encoder) write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if n > 0 {
		e.sha1.Write(p[:n])
	}
	return n, err
}

// Encode writes the pack header followed by each object in objects (in
// the order given), then the trailing checksum, and returns the
// pack-offset/CRC32 of every object, keyed by hash, for building an
// idxfile.MemoryIndex.
func (e *Encoder) Encode(objects []plumbing.EncodedObject) (map[plumbing.Hash]objectPos, error) {
	if err := e.writeHeader(len(objects)); err != nil {
		return nil, err
	}

	offsets := make(map[plumbing.Hash]objectPos, len(objects))
	var pos int64 = 12

	for _, obj := range objects {
		n, crc, err := e.writeObject(obj)
		if err != nil {
			return nil, err
		}
		offsets[obj.Hash()] = objectPos{Offset: pos, CRC32: crc}
		pos += n
	}

	if _, err := e.w.Write(e.sha1.Sum(nil)); err != nil {
		return nil, err
	}

	return offsets, nil
}

func (e *Encoder) writeHeader(count int) error {
	if _, err := e.write(packSignature); err != nil {
		return err
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], VersionSupported)
	if _, err := e.write(b[:]); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b[:], uint32(count))
	_, err := e.write(b[:])
	return err
}

// crcCounter tees compressed entry bytes to both the pack's running SHA1
// (via parent) and a per-entry CRC32, while counting bytes written so
// the encoder can advance its offset cursor.
type crcCounter struct {
	parent *Encoder
	crc    uint32
	n      int64
}

func (c *crcCounter) Write(p []byte) (int, error) {
	n, err := c.parent.write(p)
	c.crc = crc32.Update(c.crc, crc32.IEEETable, p[:n])
	c.n += int64(n)
	return n, err
}

func (e *Encoder) writeObject(obj plumbing.EncodedObject) (written int64, crc uint32, err error) {
	r, err := obj.Reader()
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	cw := &crcCounter{parent: e}

	header := encodeTypeSize(obj.Type(), uint64(obj.Size()))
	if _, err := cw.Write(header); err != nil {
		return 0, 0, err
	}

	zw := zlib.NewWriter(cw)
	if _, err := io.Copy(zw, r); err != nil {
		return 0, 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, 0, err
	}

	return cw.n, cw.crc, nil
}

func encodeTypeSize(t plumbing.ObjectType, size uint64) []byte {
	first := byte(t)<<4 | byte(size&0x0f)
	size >>= 4

	var out []byte
	for size != 0 {
		out = append(out, first|0x80)
		first = byte(size & 0x7f)
		size >>= 7
	}
	out = append(out, first)
	return out
}
