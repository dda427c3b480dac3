package object

import (
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Blob is the content of a file at a given point in history (§3). A Blob
// carries no name or mode of its own; those live on the Tree entry that
// points at it.
type Blob struct {
	Hash plumbing.Hash
	Size int64

	obj plumbing.EncodedObject
}

// ID returns the Blob's hash.
func (b *Blob) ID() plumbing.Hash { return b.Hash }

// Type always returns plumbing.BlobObject.
func (b *Blob) Type() plumbing.ObjectType { return plumbing.BlobObject }

// Decode reads o's metadata and keeps a reference to it for Reader.
func (b *Blob) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.BlobObject {
		return plumbing.ErrInvalidType
	}

	b.Hash = o.Hash()
	b.Size = o.Size()
	b.obj = o
	return nil
}

// Encode writes the Blob's content into o.
func (b *Blob) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.BlobObject)
	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	r, err := b.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	return nil
}

// Reader returns a reader over the Blob's content.
func (b *Blob) Reader() (io.ReadCloser, error) {
	return b.obj.Reader()
}

// GetBlob loads and decodes the Blob with hash h from s.
func GetBlob(s storer.EncodedObjectStorer, h plumbing.Hash) (*Blob, error) {
	o, err := s.EncodedObject(plumbing.BlobObject, h)
	if err != nil {
		return nil, err
	}

	b := &Blob{}
	return b, b.Decode(o)
}

// BlobIter is a finite, non-restartable sequence of blobs.
type BlobIter struct {
	s    storer.EncodedObjectStorer
	iter storer.EncodedObjectIter
}

// NewBlobIter wraps iter, decoding each yielded object as a *Blob.
func NewBlobIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *BlobIter {
	return &BlobIter{s: s, iter: iter}
}

// Next returns the next Blob, or io.EOF when exhausted.
func (i *BlobIter) Next() (*Blob, error) {
	o, err := i.iter.Next()
	if err != nil {
		return nil, err
	}

	b := &Blob{}
	return b, b.Decode(o)
}

// ForEach calls cb for every remaining blob.
func (i *BlobIter) ForEach(cb func(*Blob) error) error {
	for {
		b, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(b); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying iterator.
func (i *BlobIter) Close() { i.iter.Close() }
