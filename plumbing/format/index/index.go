// Package index implements the staging index format (§4.2's sibling,
// the "index file"): the flat, stage-aware snapshot of what's staged for
// the next commit, including unmerged entries left behind by a conflicted
// merge (stages 1-3, §ancestor/ours/theirs).
package index

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
)

var (
	ErrUnsupportedVersion = errors.New("index: unsupported version")
	ErrEntryNotFound      = errors.New("index: entry not found")
)

var indexSignature = []byte{'D', 'I', 'R', 'C'}
var treeExtSignature = []byte{'T', 'R', 'E', 'E'}

// Stage identifies which side of a conflict an Entry represents.
type Stage int

const (
	// Merged is the default stage for a fully resolved path.
	Merged Stage = 0
	// AncestorMode is the common ancestor's version of a conflicted path.
	AncestorMode Stage = 1
	// OurMode is our side of a conflicted path.
	OurMode Stage = 2
	// TheirMode is their side of a conflicted path.
	TheirMode Stage = 3
)

// Index is the staging area: what will become the tree of the next
// commit, plus any entries left unresolved by an in-progress merge.
type Index struct {
	Version uint32
	Entries []*Entry
	Cache   *Tree
}

// NewIndex returns an empty, version-2 index.
func NewIndex() *Index {
	return &Index{Version: 2}
}

// Add appends a new stage-0 entry for path. The caller is responsible for
// checking no entry for path already exists at the same stage.
func (i *Index) Add(path string) *Entry {
	e := &Entry{Name: filepath.ToSlash(path)}
	i.Entries = append(i.Entries, e)
	return e
}

// Entry returns the stage-0 entry for path.
func (i *Index) Entry(path string) (*Entry, error) {
	return i.StageEntry(path, Merged)
}

// StageEntry returns the entry for path at the given stage.
func (i *Index) StageEntry(path string, stage Stage) (*Entry, error) {
	path = filepath.ToSlash(path)
	for _, e := range i.Entries {
		if e.Name == path && e.Stage == stage {
			return e, nil
		}
	}
	return nil, ErrEntryNotFound
}

// Remove removes every stage of path and returns the stage-0 entry that
// was removed, if any.
func (i *Index) Remove(path string) (*Entry, error) {
	path = filepath.ToSlash(path)
	var removed *Entry
	kept := i.Entries[:0]
	for _, e := range i.Entries {
		if e.Name == path {
			if e.Stage == Merged {
				removed = e
			}
			continue
		}
		kept = append(kept, e)
	}
	i.Entries = kept
	if removed == nil {
		return nil, ErrEntryNotFound
	}
	return removed, nil
}

// Unmerged reports whether any entry in the index sits above stage 0,
// meaning a merge left conflicts unresolved.
func (i *Index) Unmerged() bool {
	for _, e := range i.Entries {
		if e.Stage != Merged {
			return true
		}
	}
	return false
}

// Glob returns every entry whose name matches pattern (filepath.Match
// syntax, applied component-wise via filepath.Glob's rules).
func (i *Index) Glob(pattern string) ([]*Entry, error) {
	pattern = filepath.ToSlash(pattern)
	var matches []*Entry
	for _, e := range i.Entries {
		ok, err := filepath.Match(pattern, e.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// String renders the index the way `git ls-files --stage --debug` does.
func (i *Index) String() string {
	buf := &bytes.Buffer{}
	for _, e := range i.Entries {
		buf.WriteString(e.String())
	}
	return buf.String()
}

// Entry is exactly one (path, stage) slot of the index: the object it
// points at, the working-tree metadata last observed for it, and its
// merge stage.
type Entry struct {
	Hash         plumbing.Hash
	Name         string
	CreatedAt    time.Time
	ModifiedAt   time.Time
	Dev, Inode   uint32
	Mode         filemode.FileMode
	UID, GID     uint32
	Size         uint32
	Stage        Stage
	SkipWorktree bool
	IntentToAdd  bool
}

func (e Entry) String() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%06o %s %d\t%s\n", e.Mode, e.Hash, e.Stage, e.Name)
	fmt.Fprintf(buf, "  ctime: %d:%d\n", e.CreatedAt.Unix(), e.CreatedAt.Nanosecond())
	fmt.Fprintf(buf, "  mtime: %d:%d\n", e.ModifiedAt.Unix(), e.ModifiedAt.Nanosecond())
	fmt.Fprintf(buf, "  dev: %d\tino: %d\n", e.Dev, e.Inode)
	fmt.Fprintf(buf, "  uid: %d\tgid: %d\n", e.UID, e.GID)
	fmt.Fprintf(buf, "  size: %d\n", e.Size)
	return buf.String()
}

// Tree is the 'TREE' cache-tree extension: precomputed tree hashes so
// writing a commit doesn't always need to recompute every tree object
// from a clean index.
type Tree struct {
	Entries []TreeEntry
}

// TreeEntry covers one path component's worth of the cache tree.
type TreeEntry struct {
	Path    string
	Entries int
	Trees   int
	Hash    plumbing.Hash
}
