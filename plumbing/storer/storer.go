// Package storer declares the storage-layer contracts (§4.4, §4.6) that the
// object store, pack directory, and reference store all satisfy. Command
// code is written against these interfaces, never against a concrete
// backend, so an in-memory repository and a pack-backed one behave
// identically from the caller's point of view.
package storer

import (
	"errors"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// ErrStop is used by ForEach functions to stop the iteration early without
// propagating an error to the caller.
var ErrStop = errors.New("storer: stop iteration")

// EncodedObjectStorer is the unified read/write surface of an object store
// (§4.4): it stores and retrieves wire-format objects keyed by their content
// hash, independent of whether they live in a loose backend or a pack.
type EncodedObjectStorer interface {
	// NewEncodedObject returns a new, empty EncodedObject ready to be filled
	// in and passed to SetEncodedObject.
	NewEncodedObject() plumbing.EncodedObject
	// SetEncodedObject stores obj and returns its computed hash. Storing the
	// same bytes twice is idempotent and returns the same hash.
	SetEncodedObject(plumbing.EncodedObject) (plumbing.Hash, error)
	// EncodedObject retrieves the object of type t (or AnyObject) with the
	// given hash. Returns plumbing.ErrObjectNotFound if absent.
	EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error)
	// IterEncodedObjects returns a lazy iterator over every stored object of
	// type t (or AnyObject for all of them).
	IterEncodedObjects(t plumbing.ObjectType) (EncodedObjectIter, error)
	// HasEncodedObject reports whether h is present without loading it.
	HasEncodedObject(plumbing.Hash) error
	// EncodedObjectSize returns the uncompressed size of the object with hash h.
	EncodedObjectSize(h plumbing.Hash) (int64, error)
}

// DeltaObjectStorer is implemented by stores that can hand back an object
// still encoded as a delta against a base (§4.3), to support thin-pack-style
// consolidation without fully inflating every object.
type DeltaObjectStorer interface {
	DeltaObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error)
}

// EncodedObjectIter is a finite, non-restartable lazy sequence of objects
// (§9 "Async iteration").
type EncodedObjectIter interface {
	Next() (plumbing.EncodedObject, error)
	ForEach(func(plumbing.EncodedObject) error) error
	Close()
}

// ReferenceStorer is the reference store contract (§4.6): direct and
// symbolic refs, with atomic set/delete semantics (§5).
type ReferenceStorer interface {
	SetReference(*plumbing.Reference) error
	// CheckAndSetReference sets ref only if the store's current value for
	// ref.Name() equals old (or old is nil, meaning "must not exist yet").
	// This is the compare-and-set primitive §5 requires for atomic updates.
	CheckAndSetReference(ref, old *plumbing.Reference) error
	Reference(plumbing.ReferenceName) (*plumbing.Reference, error)
	IterReferences() (ReferenceIter, error)
	RemoveReference(plumbing.ReferenceName) error
	CountLooseRefs() (int, error)
}

// ReferenceIter is a finite, non-restartable lazy sequence of references.
type ReferenceIter interface {
	Next() (*plumbing.Reference, error)
	ForEach(func(*plumbing.Reference) error) error
	Close()
}

// Storer composes the object and reference contracts a repository needs.
type Storer interface {
	EncodedObjectStorer
	ReferenceStorer
}

// Initializer should be implemented by storers that require to perform any
// operation when creating a new repository.
type Initializer interface {
	Init() error
}

// maxSymbolicRefDepth bounds the number of hops ResolveReference will
// follow before declaring a symbolic reference chain broken.
const maxSymbolicRefDepth = 10

// ResolveReference follows name through any chain of symbolic references
// until it reaches a direct (hash) reference, or returns
// plumbing.ErrRefNotFound if name isn't stored or the chain is too
// deep.
func ResolveReference(s ReferenceStorer, name plumbing.ReferenceName) (*plumbing.Reference, error) {
	for i := 0; i < maxSymbolicRefDepth; i++ {
		ref, err := s.Reference(name)
		if err != nil {
			return nil, err
		}
		if ref.Type() != plumbing.SymbolicReference {
			return ref, nil
		}
		name = ref.Target()
	}
	return nil, plumbing.ErrRefNotFound
}

// NewEncodedObjectLookupIter wraps a plain slice of hashes plus a storer
// into an EncodedObjectIter, the way go-git's in-memory storer answers
// IterEncodedObjects.
func NewEncodedObjectLookupIter(s EncodedObjectStorer, t plumbing.ObjectType, hashes []plumbing.Hash) EncodedObjectIter {
	return &lookupIter{s: s, t: t, hashes: hashes}
}

type lookupIter struct {
	s      EncodedObjectStorer
	t      plumbing.ObjectType
	hashes []plumbing.Hash
	pos    int
}

func (i *lookupIter) Next() (plumbing.EncodedObject, error) {
	if i.pos >= len(i.hashes) {
		return nil, io.EOF
	}
	h := i.hashes[i.pos]
	i.pos++
	return i.s.EncodedObject(i.t, h)
}

func (i *lookupIter) ForEach(cb func(plumbing.EncodedObject) error) error {
	for {
		obj, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(obj); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}

func (i *lookupIter) Close() { i.pos = len(i.hashes) }

// NewReferenceSliceIter wraps a slice of references into a ReferenceIter.
func NewReferenceSliceIter(refs []*plumbing.Reference) ReferenceIter {
	return &refSliceIter{refs: refs}
}

type refSliceIter struct {
	refs []*plumbing.Reference
	pos  int
}

func (i *refSliceIter) Next() (*plumbing.Reference, error) {
	if i.pos >= len(i.refs) {
		return nil, io.EOF
	}
	r := i.refs[i.pos]
	i.pos++
	return r, nil
}

func (i *refSliceIter) ForEach(cb func(*plumbing.Reference) error) error {
	for {
		r, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(r); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}

func (i *refSliceIter) Close() { i.pos = len(i.refs) }
