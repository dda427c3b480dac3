package object

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// TreeEntry is one line of a Tree: the name and mode of a directory member,
// and the hash of the Blob or Tree it points at.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// Tree is a snapshot of a directory (§3): an ordered list of named entries,
// each pointing at a Blob (a file) or another Tree (a subdirectory).
type Tree struct {
	Entries []TreeEntry
	Hash    plumbing.Hash

	s storer.EncodedObjectStorer
	m map[string]*TreeEntry
}

// ID returns the Tree's hash.
func (t *Tree) ID() plumbing.Hash { return t.Hash }

// Type always returns plumbing.TreeObject.
func (t *Tree) Type() plumbing.ObjectType { return plumbing.TreeObject }

// Decode parses o's content into t's entries (§4.7): repeated
// "<mode> <name>\x00<20-byte hash>" records, already in canonical sorted
// order.
func (t *Tree) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.TreeObject {
		return plumbing.ErrInvalidType
	}

	t.Hash = o.Hash()
	t.Entries = nil
	t.m = nil

	r, err := o.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	reader := bufio.NewReader(r)
	for {
		mode, err := reader.ReadString(' ')
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		mode = mode[:len(mode)-1]

		fm, err := filemode.New(mode)
		if err != nil {
			return fmt.Errorf("object: decoding tree %s: %w", t.Hash, err)
		}

		name, err := reader.ReadString(0)
		if err != nil {
			return err
		}
		name = name[:len(name)-1]

		var hashBytes [20]byte
		if _, err := io.ReadFull(reader, hashBytes[:]); err != nil {
			return err
		}

		t.Entries = append(t.Entries, TreeEntry{
			Name: name,
			Mode: fm,
			Hash: plumbing.Hash(hashBytes),
		})
	}

	return nil
}

// Encode writes t's entries into o in canonical sorted order.
func (t *Tree) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.TreeObject)
	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	entries := make([]TreeEntry, len(t.Entries))
	copy(entries, t.Entries)
	sortTreeEntries(entries)

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %s", e.Mode.String(), e.Name); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
		if _, err := w.Write(e.Hash[:]); err != nil {
			return err
		}
	}

	return nil
}

// sortTreeEntries orders entries the way git compares tree members: byte-wise
// by name, except a directory name sorts as if it had a trailing '/', so
// "foo" sorts after "foo.go" but before "foo/bar".
func sortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
}

func sortKey(e TreeEntry) string {
	if e.Mode == filemode.Dir || e.Mode == filemode.Submodule {
		return e.Name + "/"
	}
	return e.Name
}

func (t *Tree) buildMap() {
	if t.m != nil {
		return
	}
	t.m = make(map[string]*TreeEntry, len(t.Entries))
	for i := range t.Entries {
		t.m[t.Entries[i].Name] = &t.Entries[i]
	}
}

// entry returns the direct child entry named name, or ErrEntryNotFound.
func (t *Tree) entry(name string) (*TreeEntry, error) {
	t.buildMap()
	e, ok := t.m[name]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// subtree resolves the Tree for a direct child entry, which must itself be a
// tree.
func (t *Tree) subtree(e *TreeEntry) (*Tree, error) {
	if e.Mode != filemode.Dir {
		return nil, ErrDirectoryNotFound
	}
	return GetTree(t.s, e.Hash)
}

// TreeEntry looks up the direct entry at name, without recursing into
// subdirectories.
func (t *Tree) TreeEntry(name string) (TreeEntry, error) {
	e, err := t.entry(name)
	if err != nil {
		return TreeEntry{}, err
	}
	return *e, nil
}

// File resolves a slash-separated path within the tree to its Blob content,
// recursing into subtrees as needed.
func (t *Tree) File(path string) (*File, error) {
	e, err := t.findPath(path, 0)
	if err != nil {
		return nil, err
	}

	blob, err := GetBlob(t.s, e.Hash)
	if err != nil {
		if err == plumbing.ErrObjectNotFound {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &File{Name: path, Mode: e.Mode, Blob: *blob}, nil
}

// Tree resolves a slash-separated path within the tree to a subtree.
func (t *Tree) Tree(path string) (*Tree, error) {
	e, err := t.findPath(path, 0)
	if err != nil {
		return nil, err
	}
	return t.subtree(e)
}

func splitPath(path string) (first, rest string, hasRest bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}

func (t *Tree) findPath(path string, depth int) (*TreeEntry, error) {
	if depth > maxTreeDepth {
		return nil, ErrMaxTreeDepth
	}

	name, rest, hasRest := splitPath(path)
	e, err := t.entry(name)
	if err != nil {
		return nil, ErrFileNotFound
	}

	if !hasRest {
		return e, nil
	}

	sub, err := t.subtree(e)
	if err != nil {
		return nil, err
	}
	return sub.findPath(rest, depth+1)
}

// Files returns an iterator over every file (not subtree) reachable from t,
// recursing into subdirectories in depth-first, sorted order.
func (t *Tree) Files() *FileIter {
	return NewFileIter(t.s, t)
}

// GetTree loads and decodes the Tree with hash h from s.
func GetTree(s storer.EncodedObjectStorer, h plumbing.Hash) (*Tree, error) {
	o, err := s.EncodedObject(plumbing.TreeObject, h)
	if err != nil {
		return nil, err
	}

	t := &Tree{s: s}
	return t, t.Decode(o)
}

// TreeIter is a finite, non-restartable sequence of trees.
type TreeIter struct {
	s    storer.EncodedObjectStorer
	iter storer.EncodedObjectIter
}

// NewTreeIter wraps iter, decoding each yielded object as a *Tree.
func NewTreeIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *TreeIter {
	return &TreeIter{s: s, iter: iter}
}

// Next returns the next Tree, or io.EOF when exhausted.
func (i *TreeIter) Next() (*Tree, error) {
	o, err := i.iter.Next()
	if err != nil {
		return nil, err
	}

	t := &Tree{s: i.s}
	return t, t.Decode(o)
}

// ForEach calls cb for every remaining tree.
func (i *TreeIter) ForEach(cb func(*Tree) error) error {
	for {
		t, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(t); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying iterator.
func (i *TreeIter) Close() { i.iter.Close() }
