package merge

import (
	"io"
	"sort"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Strategy selects the algorithm MergeTrees uses to resolve a path both
// sides changed relative to base.
type Strategy int

const (
	// Recursive performs a real three-way content merge, falling back to
	// conflict markers where the two sides touched the same lines. This is
	// the default strategy for an ordinary merge.
	Recursive Strategy = iota
	// Resolve is like Recursive but never recurses into a synthetic merge
	// of multiple merge bases; simple, single-base three-way merge only.
	Resolve
	// Ours resolves every real conflict in favor of ours.
	Ours
	// Theirs resolves every real conflict in favor of theirs.
	Theirs
)

// Conflict describes one path MergeTrees could not resolve automatically.
type Conflict struct {
	Path   string
	Reason string
}

// Options configures a tree merge.
type Options struct {
	Strategy Strategy

	// ContentStrategy selects how a path both sides changed differently is
	// resolved when it comes down to a content merge. The zero value,
	// ContentDiff3, emits conflict markers like an ordinary three-way merge.
	ContentStrategy ContentStrategy
}

var emptyTree = &object.Tree{}

// MergeTrees performs a three-way merge of ours and theirs against their
// common ancestor base, returning the hash of the merged tree (written to
// s) and the list of paths left in conflict.
//
// base, ours, or theirs may be nil, standing for an empty tree (e.g. the
// first commit on a branch has no ancestor tree).
func MergeTrees(s storer.EncodedObjectStorer, base, ours, theirs *object.Tree, opts Options) (plumbing.Hash, []Conflict, error) {
	if base == nil {
		base = emptyTree
	}
	if ours == nil {
		ours = emptyTree
	}
	if theirs == nil {
		theirs = emptyTree
	}

	return mergeTreeLevel(s, "", base, ours, theirs, opts)
}

func mergeTreeLevel(s storer.EncodedObjectStorer, prefix string, base, ours, theirs *object.Tree, opts Options) (plumbing.Hash, []Conflict, error) {
	baseEntries := entryMap(base)
	oursEntries := entryMap(ours)
	theirsEntries := entryMap(theirs)

	var result []object.TreeEntry
	var conflicts []Conflict

	for _, name := range unionNames(baseEntries, oursEntries, theirsEntries) {
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}

		b, bok := baseEntries[name]
		o, ook := oursEntries[name]
		t, tok := theirsEntries[name]

		oursChanged := !sameEntry(bok, b, ook, o)
		theirsChanged := !sameEntry(bok, b, tok, t)

		switch {
		case !oursChanged && !theirsChanged:
			if bok {
				result = append(result, b)
			}

		case !oursChanged && theirsChanged:
			if tok {
				result = append(result, t)
			}

		case oursChanged && !theirsChanged:
			if ook {
				result = append(result, o)
			}

		default:
			entry, pathConflicts, err := mergeChangedBoth(s, path, opts, b, bok, o, ook, t, tok)
			if err != nil {
				return plumbing.ZeroHash, nil, err
			}
			if entry != nil {
				result = append(result, *entry)
			}
			conflicts = append(conflicts, pathConflicts...)
		}
	}

	tree := &object.Tree{Entries: result}
	obj := s.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, nil, err
	}
	h, err := s.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, nil, err
	}

	return h, conflicts, nil
}

// mergeChangedBoth resolves one path that both ours and theirs changed
// (or added, or deleted) relative to base.
func mergeChangedBoth(
	s storer.EncodedObjectStorer,
	path string,
	opts Options,
	b object.TreeEntry, bok bool,
	o object.TreeEntry, ook bool,
	t object.TreeEntry, tok bool,
) (*object.TreeEntry, []Conflict, error) {
	if sameEntry(ook, o, tok, t) {
		if ook {
			return &o, nil, nil
		}
		return nil, nil, nil
	}

	switch {
	case !ook && !tok:
		return nil, nil, nil

	case !ook: // ours deleted it, theirs modified it: modify/delete conflict
		c := Conflict{Path: path, Reason: "modify/delete"}
		switch opts.Strategy {
		case Ours:
			return nil, []Conflict{c}, nil
		default:
			return &t, []Conflict{c}, nil
		}

	case !tok: // theirs deleted it, ours modified it: modify/delete conflict
		c := Conflict{Path: path, Reason: "modify/delete"}
		switch opts.Strategy {
		case Theirs:
			return nil, []Conflict{c}, nil
		default:
			return &o, []Conflict{c}, nil
		}

	case o.Mode == filemode.Dir && t.Mode == filemode.Dir:
		baseSub, err := subtreeOf(s, b, bok)
		if err != nil {
			return nil, nil, err
		}
		oursSub, err := subtreeOf(s, o, true)
		if err != nil {
			return nil, nil, err
		}
		theirsSub, err := subtreeOf(s, t, true)
		if err != nil {
			return nil, nil, err
		}

		h, subConflicts, err := mergeTreeLevel(s, path, baseSub, oursSub, theirsSub, opts)
		if err != nil {
			return nil, nil, err
		}

		entry := &object.TreeEntry{Name: nameOf(path), Mode: filemode.Dir, Hash: h}
		return entry, subConflicts, nil

	case o.Mode != filemode.Dir && t.Mode != filemode.Dir:
		baseContent, err := blobContent(s, b, bok)
		if err != nil {
			return nil, nil, err
		}
		oursContent, err := blobContentFromEntry(s, o)
		if err != nil {
			return nil, nil, err
		}
		theirsContent, err := blobContentFromEntry(s, t)
		if err != nil {
			return nil, nil, err
		}

		switch opts.Strategy {
		case Ours:
			return &o, nil, nil
		case Theirs:
			return &t, nil, nil
		}

		merged := MergeContent(baseContent, oursContent, theirsContent, opts.ContentStrategy)
		h, err := writeBlob(s, []byte(merged.Text))
		if err != nil {
			return nil, nil, err
		}

		mode := o.Mode
		if mode != t.Mode {
			mode = filemode.Regular
		}
		entry := &object.TreeEntry{Name: nameOf(path), Mode: mode, Hash: h}

		if merged.Conflict {
			return entry, []Conflict{{Path: path, Reason: "content"}}, nil
		}
		return entry, nil, nil

	default:
		// One side turned the path into a directory, the other into a file.
		c := Conflict{Path: path, Reason: "type change"}
		if opts.Strategy == Theirs {
			return &t, []Conflict{c}, nil
		}
		return &o, []Conflict{c}, nil
	}
}

func nameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func entryMap(t *object.Tree) map[string]object.TreeEntry {
	m := make(map[string]object.TreeEntry, len(t.Entries))
	for _, e := range t.Entries {
		m[e.Name] = e
	}
	return m
}

func unionNames(maps ...map[string]object.TreeEntry) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range maps {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func sameEntry(aok bool, a object.TreeEntry, bok bool, b object.TreeEntry) bool {
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	return a.Mode == b.Mode && a.Hash == b.Hash
}

func subtreeOf(s storer.EncodedObjectStorer, e object.TreeEntry, ok bool) (*object.Tree, error) {
	if !ok || e.Mode != filemode.Dir {
		return emptyTree, nil
	}
	return object.GetTree(s, e.Hash)
}

func blobContent(s storer.EncodedObjectStorer, e object.TreeEntry, ok bool) (string, error) {
	if !ok || e.Mode == filemode.Dir {
		return "", nil
	}
	return blobContentFromEntry(s, e)
}

func blobContentFromEntry(s storer.EncodedObjectStorer, e object.TreeEntry) (string, error) {
	obj, err := s.EncodedObject(plumbing.BlobObject, e.Hash)
	if err != nil {
		return "", err
	}
	r, err := obj.Reader()
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

func writeBlob(s storer.EncodedObjectStorer, content []byte) (plumbing.Hash, error) {
	obj := s.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}

	return s.SetEncodedObject(obj)
}
