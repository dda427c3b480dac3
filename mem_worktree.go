package vcs

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// MemWorktree is an in-memory Worktree, used by command tests in place of
// a real disk-backed filesystem (§6: "no concrete disk-backed
// implementation is provided... only this interface and an in-memory test
// double").
type MemWorktree struct {
	Storer  storer.EncodedObjectStorer
	files   map[string][]byte
	ignored map[string]bool
}

// NewMemWorktree returns an empty MemWorktree backed by s for tree
// checkout.
func NewMemWorktree(s storer.EncodedObjectStorer) *MemWorktree {
	return &MemWorktree{
		Storer:  s,
		files:   make(map[string][]byte),
		ignored: make(map[string]bool),
	}
}

// Ignore marks path as matched by the worktree's ignore rules.
func (w *MemWorktree) Ignore(path string) { w.ignored[path] = true }

func (w *MemWorktree) Walk(opts WalkOptions) ([]WalkEntry, error) {
	var out []WalkEntry
	for p, content := range w.files {
		if opts.Root != "" && !strings.HasPrefix(p, opts.Root) {
			continue
		}
		out = append(out, WalkEntry{
			Path:      p,
			Name:      path.Base(p),
			Mode:      uint32(filemode.Regular),
			Size:      int64(len(content)),
			IsIgnored: w.ignored[p],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (w *MemWorktree) GetEntry(p string) (WalkEntry, error) {
	content, ok := w.files[p]
	if !ok {
		return WalkEntry{}, fmt.Errorf("worktree: %s: %w", p, plumbing.ErrObjectNotFound)
	}
	return WalkEntry{
		Path:      p,
		Name:      path.Base(p),
		Mode:      uint32(filemode.Regular),
		Size:      int64(len(content)),
		IsIgnored: w.ignored[p],
	}, nil
}

func (w *MemWorktree) Exists(p string) bool {
	_, ok := w.files[p]
	return ok
}

func (w *MemWorktree) IsIgnored(p string) bool { return w.ignored[p] }

func (w *MemWorktree) ReadContent(p string) (io.ReadCloser, error) {
	content, ok := w.files[p]
	if !ok {
		return nil, fmt.Errorf("worktree: %s: %w", p, plumbing.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (w *MemWorktree) WriteContent(p string, content io.Reader, _ WriteOptions) error {
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	w.files[p] = b
	return nil
}

func (w *MemWorktree) Remove(p string, opts RemoveOptions) error {
	if opts.Recursive {
		prefix := p + "/"
		for f := range w.files {
			if f == p || strings.HasPrefix(f, prefix) {
				delete(w.files, f)
			}
		}
		return nil
	}
	delete(w.files, p)
	return nil
}

func (w *MemWorktree) Mkdir(string) error { return nil }

func (w *MemWorktree) Rename(oldPath, newPath string) error {
	content, ok := w.files[oldPath]
	if !ok {
		return fmt.Errorf("worktree: %s: %w", oldPath, plumbing.ErrObjectNotFound)
	}
	delete(w.files, oldPath)
	w.files[newPath] = content
	return nil
}

func (w *MemWorktree) CheckoutTree(treeHash plumbing.Hash, opts CheckoutOptions) (*CheckoutResult, error) {
	return w.CheckoutPaths(treeHash, nil, opts)
}

func (w *MemWorktree) CheckoutPaths(treeHash plumbing.Hash, paths []string, opts CheckoutOptions) (*CheckoutResult, error) {
	tree, err := object.GetTree(w.Storer, treeHash)
	if err != nil {
		return nil, err
	}

	wanted := func(string) bool { return true }
	if len(paths) > 0 {
		set := make(map[string]bool, len(paths))
		for _, p := range paths {
			set[p] = true
		}
		wanted = func(p string) bool { return set[p] }
	}

	result := &CheckoutResult{}
	err = object.NewFileIter(w.Storer, tree).ForEach(func(f *object.File) error {
		if !wanted(f.Name) {
			return nil
		}
		if !opts.Force && w.dirty(f.Name, f.Hash, opts.Known) {
			result.Conflicts = append(result.Conflicts, f.Name)
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			result.Failed = append(result.Failed, f.Name)
			return nil
		}
		w.files[f.Name] = []byte(content)
		result.Updated = append(result.Updated, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		keep := make(map[string]bool)
		_ = object.NewFileIter(w.Storer, tree).ForEach(func(f *object.File) error {
			keep[f.Name] = true
			return nil
		})
		for p := range w.files {
			if !keep[p] {
				delete(w.files, p)
				result.Removed = append(result.Removed, p)
			}
		}
	}

	return result, nil
}

// dirty reports whether p's current worktree content should block an
// unforced checkout of a file whose incoming content hashes to want. A
// path the worktree doesn't have yet is never dirty. If known reports the
// hash p is currently tracked at (the index's stage-0 entry, typically),
// a worktree content matching that tracked hash is clean even if it
// differs from want — it's the ordinary case of switching to a tree that
// changed the file, not a local modification. Lacking that information,
// any difference from want is treated as a potential conflict.
func (w *MemWorktree) dirty(p string, want plumbing.Hash, known func(string) (plumbing.Hash, bool)) bool {
	content, ok := w.files[p]
	if !ok {
		return false
	}

	obj := w.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	wr, err := obj.Writer()
	if err != nil {
		return false
	}
	wr.Write(content)
	wr.Close()
	current := obj.Hash()
	if current == want {
		return false
	}

	if known != nil {
		if trackedHash, ok := known(p); ok {
			return current != trackedHash
		}
	}
	return true
}
