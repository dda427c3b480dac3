package vcs

import (
	"io"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// WalkEntry describes one path visited by Worktree.Walk (§6).
type WalkEntry struct {
	Path      string
	Name      string
	Mode      uint32
	Size      int64
	ModTime   time.Time
	IsDir     bool
	IsIgnored bool
}

// WalkOptions configures Worktree.Walk.
type WalkOptions struct {
	// Root restricts the walk to paths under Root ("" walks everything).
	Root string
}

// WriteOptions configures Worktree.WriteContent.
type WriteOptions struct {
	Mode uint32
}

// RemoveOptions configures Worktree.Remove.
type RemoveOptions struct {
	// Recursive allows removing a non-empty directory.
	Recursive bool
}

// CheckoutOptions configures Worktree.CheckoutTree/CheckoutPaths.
type CheckoutOptions struct {
	// Force overwrites local modifications instead of reporting them as
	// conflicts.
	Force bool
	// Known reports the hash a path is currently tracked at (typically the
	// index's stage-0 entry), so a worktree implementation can tell a
	// locally modified file (differs from Known) from one that merely
	// differs from the incoming tree because the branches diverged. A nil
	// Known, or one reporting false, means "treat any difference from the
	// incoming tree as a potential conflict."
	Known func(path string) (plumbing.Hash, bool)
}

// CheckoutResult reports what a checkout touched (§6).
type CheckoutResult struct {
	Updated   []string
	Removed   []string
	Conflicts []string
	Failed    []string
}

// Worktree is the filesystem-shaped surface commands use to read and
// write tracked files outside the object store (§6). Its method set
// mirrors billy.Filesystem's read/write/rename primitives plus the
// walk/ignore/checkout extensions the commands need; no disk-backed
// implementation ships in this module (out of scope) — only this
// interface and the in-memory MemWorktree test double below.
type Worktree interface {
	// Walk lazily visits every path under opts.Root.
	Walk(opts WalkOptions) ([]WalkEntry, error)
	// GetEntry returns the WalkEntry for path, or an error if path doesn't
	// exist.
	GetEntry(path string) (WalkEntry, error)
	// Exists reports whether path is present.
	Exists(path string) bool
	// IsIgnored reports whether path is excluded by the worktree's ignore
	// rules (e.g. .gitignore).
	IsIgnored(path string) bool

	// ReadContent opens path for reading.
	ReadContent(path string) (io.ReadCloser, error)
	// WriteContent writes content to path, creating or truncating it.
	WriteContent(path string, content io.Reader, opts WriteOptions) error
	// Remove deletes path.
	Remove(path string, opts RemoveOptions) error
	// Mkdir creates path and any missing parents.
	Mkdir(path string) error
	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error

	// CheckoutTree materializes every file of the tree named by treeHash
	// onto the worktree, overwriting or removing local paths as needed.
	CheckoutTree(treeHash plumbing.Hash, opts CheckoutOptions) (*CheckoutResult, error)
	// CheckoutPaths materializes only the named paths from the tree named
	// by treeHash.
	CheckoutPaths(treeHash plumbing.Hash, paths []string, opts CheckoutOptions) (*CheckoutResult, error)
}
