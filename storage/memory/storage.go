// Package memory is an ephemeral, in-process Storer (§4.4, §4.6): every
// object and reference lives only in Go maps, making it the fastest backend
// and the one used by tests and by commands that don't need persistence
// across process restarts.
package memory

import (
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
	"github.com/statewalker/vcs-sub000/storage"
)

// Storage is a Storer entirely backed by in-memory maps.
type Storage struct {
	Objects map[plumbing.Hash]plumbing.EncodedObject
	Refs    map[plumbing.ReferenceName]*plumbing.Reference
}

// NewStorage returns a new, empty Storage.
func NewStorage() *Storage {
	return &Storage{
		Objects: make(map[plumbing.Hash]plumbing.EncodedObject),
		Refs:    make(map[plumbing.ReferenceName]*plumbing.Reference),
	}
}

// NewEncodedObject returns a new, empty object ready to be filled in.
func (s *Storage) NewEncodedObject() plumbing.EncodedObject {
	return &plumbing.MemoryObject{}
}

// SetEncodedObject stores obj under its content hash.
func (s *Storage) SetEncodedObject(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	h := obj.Hash()
	s.Objects[h] = obj
	return h, nil
}

// EncodedObject returns the object with hash h, if its type matches t (or t
// is plumbing.AnyObject).
func (s *Storage) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	obj, ok := s.Objects[h]
	if !ok || (t != plumbing.AnyObject && obj.Type() != t) {
		return nil, plumbing.ErrObjectNotFound
	}
	return obj, nil
}

// HasEncodedObject reports whether h is present.
func (s *Storage) HasEncodedObject(h plumbing.Hash) error {
	if _, ok := s.Objects[h]; !ok {
		return plumbing.ErrObjectNotFound
	}
	return nil
}

// EncodedObjectSize returns the uncompressed size of the object with hash h.
func (s *Storage) EncodedObjectSize(h plumbing.Hash) (int64, error) {
	obj, ok := s.Objects[h]
	if !ok {
		return 0, plumbing.ErrObjectNotFound
	}
	return obj.Size(), nil
}

// IterEncodedObjects returns a lazy iterator over every object of type t (or
// every object, for AnyObject).
func (s *Storage) IterEncodedObjects(t plumbing.ObjectType) (storer.EncodedObjectIter, error) {
	var hashes []plumbing.Hash
	for h, obj := range s.Objects {
		if t == plumbing.AnyObject || obj.Type() == t {
			hashes = append(hashes, h)
		}
	}
	return storer.NewEncodedObjectLookupIter(s, t, hashes), nil
}

// SetReference stores ref unconditionally.
func (s *Storage) SetReference(ref *plumbing.Reference) error {
	if ref == nil {
		return nil
	}
	s.Refs[ref.Name()] = ref
	return nil
}

// CheckAndSetReference stores ref only if the currently stored value for
// its name matches old (§5).
func (s *Storage) CheckAndSetReference(ref, old *plumbing.Reference) error {
	if ref == nil {
		return nil
	}

	if old != nil {
		current, ok := s.Refs[ref.Name()]
		if ok && current.Hash() != old.Hash() {
			return storage.ErrReferenceHasChanged
		}
		if !ok && !old.Hash().IsZero() {
			return storage.ErrReferenceHasChanged
		}
	}

	s.Refs[ref.Name()] = ref
	return nil
}

// Reference returns the reference named n.
func (s *Storage) Reference(n plumbing.ReferenceName) (*plumbing.Reference, error) {
	ref, ok := s.Refs[n]
	if !ok {
		return nil, plumbing.ErrRefNotFound
	}
	return ref, nil
}

// IterReferences returns a lazy iterator over every stored reference.
func (s *Storage) IterReferences() (storer.ReferenceIter, error) {
	refs := make([]*plumbing.Reference, 0, len(s.Refs))
	for _, ref := range s.Refs {
		refs = append(refs, ref)
	}
	return storer.NewReferenceSliceIter(refs), nil
}

// RemoveReference deletes the reference named n, if present.
func (s *Storage) RemoveReference(n plumbing.ReferenceName) error {
	delete(s.Refs, n)
	return nil
}

// CountLooseRefs returns the number of stored references. Every reference in
// this backend is "loose" since there is no pack-refs equivalent.
func (s *Storage) CountLooseRefs() (int, error) {
	return len(s.Refs), nil
}
