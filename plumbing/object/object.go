// Package object implements the four object kinds a repository stores —
// Blob, Tree, Commit, and annotated Tag (§3, §6) — on top of the generic
// plumbing.EncodedObject wire representation, plus the history-traversal and
// diff/merge-base machinery (§8) built on that model.
package object

import (
	"fmt"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Object is a decoded git object: a Commit, Tree, Blob, or Tag.
type Object interface {
	ID() plumbing.Hash
	Type() plumbing.ObjectType
	Decode(plumbing.EncodedObject) error
	Encode(plumbing.EncodedObject) error
}

// GetObject loads and decodes the object with hash h from s, dispatching on
// its stored type to return the concrete *Commit/*Tree/*Blob/*Tag.
func GetObject(s storer.EncodedObjectStorer, h plumbing.Hash) (Object, error) {
	o, err := s.EncodedObject(plumbing.AnyObject, h)
	if err != nil {
		return nil, err
	}

	return DecodeObject(s, o)
}

// DecodeObject decodes o into the concrete Object matching its stored type.
func DecodeObject(s storer.EncodedObjectStorer, o plumbing.EncodedObject) (Object, error) {
	switch o.Type() {
	case plumbing.CommitObject:
		c := &Commit{s: s}
		if err := c.Decode(o); err != nil {
			return nil, err
		}
		return c, nil
	case plumbing.TreeObject:
		t := &Tree{s: s}
		if err := t.Decode(o); err != nil {
			return nil, err
		}
		return t, nil
	case plumbing.BlobObject:
		b := &Blob{}
		if err := b.Decode(o); err != nil {
			return nil, err
		}
		return b, nil
	case plumbing.TagObject:
		t := &Tag{s: s}
		if err := t.Decode(o); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, plumbing.ErrInvalidType
	}
}

// ObjectIter wraps a storer.EncodedObjectIter, decoding each object into its
// concrete kind as it is consumed.
type ObjectIter struct {
	s    storer.EncodedObjectStorer
	iter storer.EncodedObjectIter
}

// NewObjectIter returns an ObjectIter that decodes objects yielded by iter
// using s to resolve any references the decoded object needs (e.g. a
// Commit's Tree).
func NewObjectIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *ObjectIter {
	return &ObjectIter{s: s, iter: iter}
}

// Next returns the next decoded object, or io.EOF when exhausted.
func (i *ObjectIter) Next() (Object, error) {
	for {
		o, err := i.iter.Next()
		if err != nil {
			return nil, err
		}

		obj, err := DecodeObject(i.s, o)
		if err != nil {
			return nil, fmt.Errorf("object: decoding %s: %w", o.Hash(), err)
		}
		return obj, nil
	}
}

// ForEach calls cb for every remaining object, stopping early without error
// if cb returns storer.ErrStop.
func (i *ObjectIter) ForEach(cb func(Object) error) error {
	for {
		o, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(o); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying iterator.
func (i *ObjectIter) Close() { i.iter.Close() }
