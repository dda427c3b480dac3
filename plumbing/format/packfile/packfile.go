// Package packfile implements the pack format (§4.3): the single-file,
// delta-compressed container that holds most of a repository's objects,
// together with the idxfile sidecar (§4.5) used to find an object inside
// one without scanning it end to end.
package packfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	packutil "github.com/statewalker/vcs-sub000/plumbing/format/packfile/util"
)

var packSignature = []byte{'P', 'A', 'C', 'K'}

// VersionSupported is the only pack format version this package reads
// and writes.
const VersionSupported = 2

var (
	ErrMalformedPackfile  = errors.New("packfile: malformed pack")
	ErrUnsupportedVersion = errors.New("packfile: unsupported version")
	ErrInvalidChecksum    = errors.New("packfile: invalid trailing checksum")
)

// entryType is the 3-bit object type tag embedded in a pack entry's
// variable-length header (§4.3): it extends the four plumbing object
// kinds with the two delta encodings.
type entryType byte

const (
	entryCommit   = entryType(plumbing.CommitObject)
	entryTree     = entryType(plumbing.TreeObject)
	entryBlob     = entryType(plumbing.BlobObject)
	entryTag      = entryType(plumbing.TagObject)
	entryOFSDelta = entryType(6)
	entryRefDelta = entryType(7)
)

// rawEntry is one undecoded slot read off the wire by the Scanner: its
// header plus the position immediately after the header, from which the
// zlib-compressed payload begins.
type rawEntry struct {
	Type         entryType
	Size         uint64
	Offset       int64
	ContentStart int64
	BaseOffset   int64 // valid when Type == entryOFSDelta
	BaseHash     plumbing.Hash
}

// Scanner reads the low-level structure of a pack stream: its header,
// and each entry's type/size/base-reference plus a reader positioned at
// the start of that entry's compressed payload.
type Scanner struct {
	br      *countingReader
	count   uint32
	read    uint32
	version uint32
}

// countingReader wraps a bufio.Reader so byte-level reads during header
// parsing can be charged against the stream position, which OFS_DELTA
// base offsets are relative to.
type countingReader struct {
	*bufio.Reader
	pos int64
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.Reader.ReadByte()
	if err == nil {
		c.pos++
	}
	return b, err
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.pos += int64(n)
	return n, err
}

// NewScanner returns a Scanner over r, which must start at byte 0 of a
// pack stream (the "PACK" magic).
func NewScanner(r io.Reader) (*Scanner, error) {
	br := &countingReader{Reader: bufio.NewReader(r)}
	s := &Scanner{br: br}

	var sig [4]byte
	if _, err := io.ReadFull(br, sig[:]); err != nil {
		return nil, err
	}
	if !bytes.Equal(sig[:], packSignature) {
		return nil, ErrMalformedPackfile
	}

	version, err := s.readUint32()
	if err != nil {
		return nil, err
	}
	if version != VersionSupported {
		return nil, ErrUnsupportedVersion
	}
	s.version = version

	count, err := s.readUint32()
	if err != nil {
		return nil, err
	}
	s.count = count

	return s, nil
}

// ObjectCount returns the number of entries declared in the pack header.
func (s *Scanner) ObjectCount() uint32 { return s.count }

func (s *Scanner) readUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(s.br, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// NextEntryHeader advances past the next entry's header and returns a
// rawEntry describing it, leaving the Scanner positioned at the start of
// its zlib-compressed payload. io.EOF is returned once every declared
// entry has been read.
func (s *Scanner) NextEntryHeader() (*rawEntry, error) {
	if s.read >= s.count {
		return nil, io.EOF
	}

	start := s.br.pos
	first, err := s.br.ReadByte()
	if err != nil {
		return nil, err
	}

	typ := entryType((first >> 4) & 0x07)
	size, err := packutil.VariableLengthSize(first, s.br)
	if err != nil {
		return nil, err
	}
	s.read++

	e := &rawEntry{Type: typ, Size: size, Offset: start}

	switch typ {
	case entryOFSDelta:
		relOffset, err := readOffsetDelta(s.br)
		if err != nil {
			return nil, err
		}
		e.BaseOffset = start - relOffset
	case entryRefDelta:
		if _, err := io.ReadFull(s.br, e.BaseHash[:]); err != nil {
			return nil, err
		}
	}

	e.ContentStart = s.br.pos
	return e, nil
}

// readOffsetDelta decodes the MSB-continuation-encoded relative base
// offset used by OFS_DELTA entries (§4.3).
func readOffsetDelta(r io.ByteReader) (int64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	offset := int64(b & 0x7f)
	for b&0x80 != 0 {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		offset = ((offset + 1) << 7) | int64(b&0x7f)
	}
	return offset, nil
}
