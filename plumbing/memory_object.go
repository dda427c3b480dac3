package plumbing

import (
	"bytes"
	"io"
)

// MemoryObject is an EncodedObject fully held in memory. Command code builds
// new blobs/trees/commits/tags by writing into one of these and then handing
// it to an EncodedObjectStorer.
type MemoryObject struct {
	t    ObjectType
	h    Hash
	cont []byte
	sz   int64

	hashed bool
}

// Hash returns the object's content hash, computing it lazily on first call
// and caching it until the object is mutated again via Writer.
func (o *MemoryObject) Hash() Hash {
	if !o.hashed {
		o.h = ComputeHash(o.t, o.cont)
		o.hashed = true
	}
	return o.h
}

// Type returns the object's kind.
func (o *MemoryObject) Type() ObjectType { return o.t }

// SetType sets the object's kind.
func (o *MemoryObject) SetType(t ObjectType) { o.t = t }

// Size returns the declared size of the object's content.
func (o *MemoryObject) Size() int64 { return o.sz }

// SetSize sets the declared size of the object's content. It does not
// truncate or grow the backing buffer; it is informational until Writer is
// used to actually populate the content.
func (o *MemoryObject) SetSize(s int64) { o.sz = s }

// Reader returns a reader over the object's content.
func (o *MemoryObject) Reader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(o.cont)), nil
}

// Writer returns a writer that appends to the object's content. Each write
// updates Size and invalidates the cached hash; Close does nothing.
func (o *MemoryObject) Writer() (io.WriteCloser, error) {
	return &memoryObjectWriter{o: o}, nil
}

// Write appends p to the object's content directly, without going through
// Writer. It exists so a MemoryObject can be filled in one shot.
func (o *MemoryObject) Write(p []byte) (int, error) {
	n, err := (&memoryObjectWriter{o: o}).Write(p)
	return n, err
}

type memoryObjectWriter struct {
	o *MemoryObject
}

func (w *memoryObjectWriter) Write(p []byte) (int, error) {
	w.o.cont = append(w.o.cont, p...)
	w.o.sz = int64(len(w.o.cont))
	w.o.hashed = false
	return len(p), nil
}

func (w *memoryObjectWriter) Close() error { return nil }
