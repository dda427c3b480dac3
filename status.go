package vcs

import (
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// StatusCode classifies one side (staged or worktree) of a path's status
// (§4.10), mirroring go-git's worktree_status.go StatusCode.
type StatusCode byte

const (
	// Unmodified means this side carries no change at all.
	Unmodified StatusCode = ' '
	// Untracked means the worktree has the path but neither the index nor
	// HEAD do.
	Untracked StatusCode = '?'
	// Modified means the path exists on both sides of this comparison with
	// different content or mode.
	Modified StatusCode = 'M'
	// Added means the path exists only on the newer side of this
	// comparison.
	Added StatusCode = 'A'
	// Deleted means the path exists only on the older side of this
	// comparison.
	Deleted StatusCode = 'D'
)

// FileStatus is one path's staged (HEAD -> index) and unstaged (index ->
// worktree) status, the two independent axes go-git's `git status`
// porcelain reports per path.
type FileStatus struct {
	Staging  StatusCode
	Worktree StatusCode
}

// Status maps every path with a non-trivial status to its FileStatus.
type Status map[string]*FileStatus

// IsClean reports whether every entry is Unmodified on both axes.
func (s Status) IsClean() bool {
	for _, fs := range s {
		if fs.Staging != Unmodified || fs.Worktree != Unmodified {
			return false
		}
	}
	return true
}

// File returns the FileStatus for path, defaulting to Unmodified/Unmodified
// if path carries no change.
func (s Status) File(path string) *FileStatus {
	if fs, ok := s[path]; ok {
		return fs
	}
	return &FileStatus{Staging: Unmodified, Worktree: Unmodified}
}

func (s Status) entry(path string) *FileStatus {
	fs, ok := s[path]
	if !ok {
		fs = &FileStatus{Staging: Unmodified, Worktree: Unmodified}
		s[path] = fs
	}
	return fs
}

// StatusCommand reports per-path staged/unstaged state by diffing
// HEAD's tree against the index, and the index against the attached
// worktree (§4.10, supplemented from original_source: go-git's
// worktree_status.go Status/FileStatus).
type StatusCommand struct {
	command
	repo *Repository
}

// Status returns a StatusCommand against r.
func (r *Repository) Status() *StatusCommand {
	return &StatusCommand{repo: r}
}

// Call validates and executes the status computation exactly once.
func (c *StatusCommand) Call() (Status, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	repo := c.repo

	headTree, err := repo.headTreeOrEmpty()
	if err != nil {
		return nil, err
	}

	indexTree, err := indexTreeIgnoringConflicts(repo)
	if err != nil {
		return nil, err
	}

	worktreeTree, err := buildWorktreeTree(repo)
	if err != nil {
		return nil, err
	}

	staged, err := object.DiffTree(headTree, indexTree)
	if err != nil {
		return nil, err
	}
	unstaged, err := object.DiffTree(indexTree, worktreeTree)
	if err != nil {
		return nil, err
	}

	status := Status{}
	for _, ch := range staged {
		status.entry(ch.Path()).Staging = statusCodeOf(ch.Action())
	}
	for _, ch := range unstaged {
		fs := status.entry(ch.Path())
		fs.Worktree = statusCodeOf(ch.Action())
		if fs.Worktree == Added && fs.Staging == Unmodified {
			// Present in the worktree but never staged: untracked, not
			// "added", since nothing recorded it in the index yet.
			fs.Worktree = Untracked
		}
	}

	return status, nil
}

func statusCodeOf(a object.Action) StatusCode {
	switch a {
	case object.Insert:
		return Added
	case object.Delete:
		return Deleted
	default:
		return Modified
	}
}

// headTreeOrEmpty returns HEAD's tree, or an empty tree on an unborn
// branch (no commits yet).
func (r *Repository) headTreeOrEmpty() (*object.Tree, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return &object.Tree{}, nil
	}
	return head.Tree()
}

// indexTreeIgnoringConflicts builds a tree from the index's stage-0
// entries directly, the same way writeTreeFromIndex does, but without its
// !Unmerged() guard: status is a read-only report, not a write, so it
// still has something useful to say about a conflicted index instead of
// failing outright.
func indexTreeIgnoringConflicts(repo *Repository) (*object.Tree, error) {
	root := newDirNode()
	for _, e := range repo.Index.Entries {
		if e.Stage != 0 {
			continue
		}
		root.insert(strings.Split(e.Name, "/"), e.Mode, e.Hash)
	}
	h, err := root.write(repo.Storer)
	if err != nil {
		return nil, err
	}
	return object.GetTree(repo.Storer, h)
}
