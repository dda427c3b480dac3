package object

import (
	"io"

	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// File is a Blob reached at a particular path and mode within a Tree.
type File struct {
	Name string
	Mode filemode.FileMode
	Blob
}

// Reader returns a reader over the file's content.
func (f *File) Reader() (io.ReadCloser, error) {
	return f.Blob.Reader()
}

// Contents returns the file's content as a string.
func (f *File) Contents() (string, error) {
	r, err := f.Reader()
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FileIter walks a Tree depth-first in canonical sorted order, yielding one
// File per regular, executable or symlink entry, recursing into subtrees and
// skipping submodules.
type FileIter struct {
	s     storer.EncodedObjectStorer
	stack []*treeEntryIter
}

type treeEntryIter struct {
	tree *Tree
	pos  int
	base string
}

// NewFileIter returns a FileIter rooted at t.
func NewFileIter(s storer.EncodedObjectStorer, t *Tree) *FileIter {
	return &FileIter{
		s:     s,
		stack: []*treeEntryIter{{tree: t}},
	}
}

// Next returns the next File in the walk, or io.EOF when exhausted.
func (iter *FileIter) Next() (*File, error) {
	for {
		if len(iter.stack) == 0 {
			return nil, io.EOF
		}

		top := iter.stack[len(iter.stack)-1]
		if top.pos >= len(top.tree.Entries) {
			iter.stack = iter.stack[:len(iter.stack)-1]
			continue
		}

		e := top.tree.Entries[top.pos]
		top.pos++
		path := e.Name
		if top.base != "" {
			path = top.base + "/" + e.Name
		}

		switch e.Mode {
		case filemode.Dir:
			sub, err := GetTree(iter.s, e.Hash)
			if err != nil {
				return nil, err
			}
			iter.stack = append(iter.stack, &treeEntryIter{tree: sub, base: path})
			continue
		case filemode.Submodule:
			continue
		default:
			blob, err := GetBlob(iter.s, e.Hash)
			if err != nil {
				return nil, err
			}
			return &File{Name: path, Mode: e.Mode, Blob: *blob}, nil
		}
	}
}

// ForEach calls cb for every remaining file.
func (iter *FileIter) ForEach(cb func(*File) error) error {
	for {
		f, err := iter.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(f); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Close discards the walk's state.
func (iter *FileIter) Close() { iter.stack = nil }
