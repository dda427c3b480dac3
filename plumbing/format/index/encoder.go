package index

import (
	"crypto/sha1"
	"encoding/binary"
	"io"
)

// Encoder writes an Index out in index v2 wire format.
type Encoder struct {
	w io.Writer
	h interface {
		io.Writer
		Sum([]byte) []byte
	}
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, h: sha1.New()}
}

func (e *Encoder) write(p []byte) error {
	if _, err := e.w.Write(p); err != nil {
		return err
	}
	e.h.Write(p)
	return nil
}

func (e *Encoder) writeUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return e.write(b[:])
}

func (e *Encoder) writeUint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return e.write(b[:])
}

// Encode writes idx, always as a version-2 index (the extended flags a
// v3 index adds aren't produced by anything in this module).
func (e *Encoder) Encode(idx *Index) error {
	if err := e.write(indexSignature); err != nil {
		return err
	}
	if err := e.writeUint32(2); err != nil {
		return err
	}
	if err := e.writeUint32(uint32(len(idx.Entries))); err != nil {
		return err
	}

	for _, entry := range idx.Entries {
		if err := e.encodeEntry(entry); err != nil {
			return err
		}
	}

	if idx.Cache != nil {
		if err := e.encodeTreeExtension(idx.Cache); err != nil {
			return err
		}
	}

	_, err := e.w.Write(e.h.Sum(nil))
	return err
}

func (e *Encoder) encodeEntry(entry *Entry) error {
	sec, nsec := entry.CreatedAt.Unix(), entry.CreatedAt.Nanosecond()
	if err := e.writeUint32(uint32(sec)); err != nil {
		return err
	}
	if err := e.writeUint32(uint32(nsec)); err != nil {
		return err
	}

	sec, nsec = entry.ModifiedAt.Unix(), entry.ModifiedAt.Nanosecond()
	if err := e.writeUint32(uint32(sec)); err != nil {
		return err
	}
	if err := e.writeUint32(uint32(nsec)); err != nil {
		return err
	}

	if err := e.writeUint32(entry.Dev); err != nil {
		return err
	}
	if err := e.writeUint32(entry.Inode); err != nil {
		return err
	}
	if err := e.writeUint32(uint32(entry.Mode)); err != nil {
		return err
	}
	if err := e.writeUint32(entry.UID); err != nil {
		return err
	}
	if err := e.writeUint32(entry.GID); err != nil {
		return err
	}
	if err := e.writeUint32(entry.Size); err != nil {
		return err
	}
	if err := e.write(entry.Hash[:]); err != nil {
		return err
	}

	nameLen := len(entry.Name)
	flagLen := nameLen
	if flagLen > int(nameMask) {
		flagLen = int(nameMask)
	}
	flags := uint16(entry.Stage)<<entryStageShift | uint16(flagLen)
	if err := e.writeUint16(flags); err != nil {
		return err
	}

	if err := e.write([]byte(entry.Name)); err != nil {
		return err
	}
	if err := e.write([]byte{0}); err != nil {
		return err
	}

	consumed := 62 + nameLen + 1
	padding := 8 - (consumed % 8)
	if padding == 8 {
		padding = 0
	}
	return e.write(make([]byte, padding))
}

func (e *Encoder) encodeTreeExtension(tree *Tree) error {
	var data []byte
	for _, te := range tree.Entries {
		data = append(data, []byte(te.Path)...)
		data = append(data, 0)
		data = append(data, []byte(itoa(te.Entries))...)
		data = append(data, ' ')
		data = append(data, []byte(itoa(te.Trees))...)
		data = append(data, '\n')
		if te.Entries >= 0 {
			data = append(data, te.Hash[:]...)
		}
	}

	if err := e.write(treeExtSignature); err != nil {
		return err
	}
	if err := e.writeUint32(uint32(len(data))); err != nil {
		return err
	}
	return e.write(data)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
