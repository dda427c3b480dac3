package vcs

import (
	"io"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// dirNode is a mutable, in-memory directory used to build a tree object
// from a flat set of (path, mode, hash) entries without round-tripping
// through individual subtree writes for every intermediate directory.
type dirNode struct {
	files map[string]fileLeaf
	dirs  map[string]*dirNode
}

type fileLeaf struct {
	mode filemode.FileMode
	hash plumbing.Hash
}

func newDirNode() *dirNode {
	return &dirNode{files: make(map[string]fileLeaf), dirs: make(map[string]*dirNode)}
}

func (d *dirNode) child(name string) *dirNode {
	c, ok := d.dirs[name]
	if !ok {
		c = newDirNode()
		d.dirs[name] = c
	}
	return c
}

// insert stages path (already split on "/") to point at (mode, hash),
// creating any intermediate directories.
func (d *dirNode) insert(parts []string, mode filemode.FileMode, hash plumbing.Hash) {
	if len(parts) == 1 {
		delete(d.dirs, parts[0])
		d.files[parts[0]] = fileLeaf{mode: mode, hash: hash}
		return
	}
	delete(d.files, parts[0])
	d.child(parts[0]).insert(parts[1:], mode, hash)
}

// remove deletes path (already split on "/") if present.
func (d *dirNode) remove(parts []string) {
	if len(parts) == 1 {
		delete(d.files, parts[0])
		delete(d.dirs, parts[0])
		return
	}
	if c, ok := d.dirs[parts[0]]; ok {
		c.remove(parts[1:])
	}
}

// loadTree populates d with every entry of t, recursively, so an existing
// tree can be used as the starting point for a partial rewrite.
func (d *dirNode) loadTree(s storer.EncodedObjectStorer, t *object.Tree) error {
	for _, e := range t.Entries {
		if e.Mode == filemode.Dir {
			sub, err := object.GetTree(s, e.Hash)
			if err != nil {
				return err
			}
			child := newDirNode()
			if err := child.loadTree(s, sub); err != nil {
				return err
			}
			d.dirs[e.Name] = child
		} else {
			d.files[e.Name] = fileLeaf{mode: e.Mode, hash: e.Hash}
		}
	}
	return nil
}

// write encodes d (and every subdirectory) into tree objects, bottom-up,
// and returns the hash of the resulting root tree.
func (d *dirNode) write(s storer.EncodedObjectStorer) (plumbing.Hash, error) {
	var entries []object.TreeEntry
	for name, f := range d.files {
		entries = append(entries, object.TreeEntry{Name: name, Mode: f.mode, Hash: f.hash})
	}
	for name, child := range d.dirs {
		if len(child.files) == 0 && len(child.dirs) == 0 {
			continue
		}
		h, err := child.write(s)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: h})
	}

	tree := &object.Tree{Entries: entries}
	obj := s.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.SetEncodedObject(obj)
}

// writeTreeFromIndex builds a tree object from every stage-0 (resolved)
// entry of idx. It fails, without writing anything, if idx still has
// unresolved conflicts (§4.7 "write_tree requires !has_conflicts()").
func writeTreeFromIndex(s storer.EncodedObjectStorer, idx *index.Index) (plumbing.Hash, error) {
	if idx.Unmerged() {
		return plumbing.ZeroHash, ErrUnresolvedConflicts
	}

	root := newDirNode()
	for _, e := range idx.Entries {
		if e.Stage != index.Merged {
			continue
		}
		root.insert(strings.Split(e.Name, "/"), e.Mode, e.Hash)
	}
	return root.write(s)
}

// writeTreeOnly builds a tree starting from base (HEAD's tree, or nil for
// an empty repository) with exactly the given paths replaced by their
// current index contents: a path absent from the index is treated as a
// deletion (§4.10 CommitCommand "--only"). It fails, without writing
// anything, if idx still has unresolved conflicts (§4.7
// "write_tree requires !has_conflicts()").
func writeTreeOnly(s storer.EncodedObjectStorer, base *object.Tree, idx *index.Index, paths []string) (plumbing.Hash, error) {
	if idx.Unmerged() {
		return plumbing.ZeroHash, ErrUnresolvedConflicts
	}

	root := newDirNode()
	if base != nil {
		if err := root.loadTree(s, base); err != nil {
			return plumbing.ZeroHash, err
		}
	}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		e, err := idx.Entry(p)
		if err == index.ErrEntryNotFound {
			root.remove(parts)
			continue
		}
		if err != nil {
			return plumbing.ZeroHash, err
		}
		root.insert(parts, e.Mode, e.Hash)
	}

	return root.write(s)
}

// buildWorktreeTree snapshots repo's attached worktree (or, with no
// worktree attached, the index) into an ephemeral tree object, for
// comparisons against a live, possibly-uncommitted checkout (DiffCommand,
// StatusCommand).
func buildWorktreeTree(repo *Repository) (*object.Tree, error) {
	if repo.Worktree == nil {
		h, err := writeTreeFromIndex(repo.Storer, repo.Index)
		if err != nil {
			return nil, err
		}
		return object.GetTree(repo.Storer, h)
	}

	entries, err := repo.Worktree.Walk(WalkOptions{})
	if err != nil {
		return nil, err
	}

	root := newDirNode()
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		r, err := repo.Worktree.ReadContent(e.Path)
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(r)
		closeErr := r.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}

		hash, err := writeBlobObject(repo.Storer, content)
		if err != nil {
			return nil, err
		}
		mode := e.Mode
		root.insert(strings.Split(e.Path, "/"), modeOf(mode), hash)
	}

	h, err := root.write(repo.Storer)
	if err != nil {
		return nil, err
	}
	return object.GetTree(repo.Storer, h)
}

// indexEntriesFromTree flattens every file reachable from t into stage-0
// index entries, the way ResetCommand's MIXED mode repopulates the index
// from a target tree.
func indexEntriesFromTree(s storer.EncodedObjectStorer, t *object.Tree) ([]*index.Entry, error) {
	if t == nil {
		return nil, nil
	}

	var entries []*index.Entry
	err := object.NewFileIter(s, t).ForEach(func(f *object.File) error {
		entries = append(entries, &index.Entry{
			Name: f.Name,
			Mode: f.Mode,
			Hash: f.Hash,
			Size: uint32(f.Size),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
