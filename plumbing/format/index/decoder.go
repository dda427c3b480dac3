package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing/filemode"
)

const entryExtended = uint16(1) << 14
const entryStageMask = uint16(0x3000)
const entryStageShift = 12
const nameMask = uint16(0x0fff)

// Decoder reads the index file format (index v2/v3) into an Index. Only
// the 'TREE' cache-tree extension is decoded; split-index,
// untracked-cache, fsmonitor, resolve-undo and the entry-offset-table
// extensions are skipped unread, since nothing in this module's staging
// or commit path consults them.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads a complete index into idx.
func (d *Decoder) Decode(idx *Index) error {
	var sig [4]byte
	if _, err := io.ReadFull(d.r, sig[:]); err != nil {
		return err
	}
	if !bytes.Equal(sig[:], indexSignature) {
		return ErrUnsupportedVersion
	}

	version, err := d.readUint32()
	if err != nil {
		return err
	}
	if version != 2 && version != 3 {
		return ErrUnsupportedVersion
	}
	idx.Version = version

	count, err := d.readUint32()
	if err != nil {
		return err
	}

	idx.Entries = make([]*Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := d.readEntry(version)
		if err != nil {
			return err
		}
		idx.Entries = append(idx.Entries, e)
	}

	// Everything from here to EOF is zero or more extensions followed by
	// a fixed 20-byte trailing checksum; read it all at once so the
	// checksum doesn't get misparsed as another extension header.
	rest, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	if len(rest) < 20 {
		return ErrUnsupportedVersion
	}
	exts := rest[:len(rest)-20]

	for len(exts) >= 8 {
		sig := exts[:4]
		size := binary.BigEndian.Uint32(exts[4:8])
		exts = exts[8:]
		if uint32(len(exts)) < size {
			break
		}
		data := exts[:size]
		exts = exts[size:]

		if bytes.Equal(sig, treeExtSignature) {
			idx.Cache = decodeTreeExtension(data)
		}
	}

	return nil
}

func (d *Decoder) readEntry(version uint32) (*Entry, error) {
	e := &Entry{}

	ctimeSec, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	ctimeNano, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(int64(ctimeSec), int64(ctimeNano))

	mtimeSec, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	mtimeNano, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	e.ModifiedAt = time.Unix(int64(mtimeSec), int64(mtimeNano))

	if e.Dev, err = d.readUint32(); err != nil {
		return nil, err
	}
	if e.Inode, err = d.readUint32(); err != nil {
		return nil, err
	}

	mode, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	e.Mode = filemode.FileMode(mode)

	if e.UID, err = d.readUint32(); err != nil {
		return nil, err
	}
	if e.GID, err = d.readUint32(); err != nil {
		return nil, err
	}
	if e.Size, err = d.readUint32(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(d.r, e.Hash[:]); err != nil {
		return nil, err
	}

	flags, err := d.readUint16()
	if err != nil {
		return nil, err
	}
	e.Stage = Stage((flags & entryStageMask) >> entryStageShift)
	nameLen := int(flags & nameMask)

	consumed := 62
	if flags&entryExtended != 0 && version >= 3 {
		extFlags, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		e.IntentToAdd = extFlags&(1<<13) != 0
		e.SkipWorktree = extFlags&(1<<14) != 0
		consumed += 2
	}

	var name []byte
	if nameLen < int(nameMask) {
		name = make([]byte, nameLen)
		if _, err := io.ReadFull(d.r, name); err != nil {
			return nil, err
		}
		consumed += nameLen
		// the NUL terminator that always follows the name
		if _, err := d.r.Discard(1); err != nil {
			return nil, err
		}
		consumed++
	} else {
		var b bytes.Buffer
		for {
			c, err := d.r.ReadByte()
			if err != nil {
				return nil, err
			}
			consumed++
			if c == 0 {
				break
			}
			b.WriteByte(c)
		}
		name = b.Bytes()
	}
	e.Name = string(name)

	if padding := 8 - (consumed % 8); padding < 8 {
		if _, err := io.CopyN(io.Discard, d.r, int64(padding)); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func decodeTreeExtension(data []byte) *Tree {
	t := &Tree{}
	br := bufio.NewReader(bytes.NewReader(data))

	for {
		path, err := br.ReadString(0)
		if err != nil {
			break
		}
		path = path[:len(path)-1]

		countStr, err := br.ReadString(' ')
		if err != nil {
			break
		}
		countStr = countStr[:len(countStr)-1]

		treesStr, err := br.ReadString('\n')
		if err != nil {
			break
		}
		treesStr = treesStr[:len(treesStr)-1]

		te := TreeEntry{Path: path, Entries: atoiOrNeg1(countStr), Trees: atoiOrNeg1(treesStr)}
		if te.Entries >= 0 {
			io.ReadFull(br, te.Hash[:])
		}
		t.Entries = append(t.Entries, te)
	}

	return t
}

func atoiOrNeg1(s string) int {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -1
	}
	return n
}

func (d *Decoder) readUint16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}
