package vcs

import (
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// CommitCommand records the current index as a new commit on the current
// branch (§4.10).
type CommitCommand struct {
	command
	repo *Repository

	message    string
	author     *object.Signature
	committer  *object.Signature
	amend      bool
	allowEmpty bool
	all        bool
	only       []string
	now        time.Time
}

// Commit returns a CommitCommand against r.
func (r *Repository) Commit() *CommitCommand {
	return &CommitCommand{repo: r}
}

// Message sets the commit message. Required.
func (c *CommitCommand) Message(msg string) *CommitCommand {
	if c.guard() {
		return c
	}
	c.message = msg
	return c
}

// Author overrides the commit's author identity; unset falls back to the
// repository's configured default.
func (c *CommitCommand) Author(sig object.Signature) *CommitCommand {
	if c.guard() {
		return c
	}
	c.author = &sig
	return c
}

// Committer overrides the commit's committer identity; unset defaults to
// whatever Author resolves to.
func (c *CommitCommand) Committer(sig object.Signature) *CommitCommand {
	if c.guard() {
		return c
	}
	c.committer = &sig
	return c
}

// Amend replaces HEAD's commit instead of adding a new one on top of it,
// preserving its parents (and, unless Author is also set, its author).
func (c *CommitCommand) Amend(amend bool) *CommitCommand {
	if c.guard() {
		return c
	}
	c.amend = amend
	return c
}

// AllowEmpty permits a commit whose tree is identical to its sole parent's.
func (c *CommitCommand) AllowEmpty(allow bool) *CommitCommand {
	if c.guard() {
		return c
	}
	c.allowEmpty = allow
	return c
}

// Only restricts the commit to paths, deriving the tree from HEAD with just
// those paths replaced by their current index contents. Mutually exclusive
// with All.
func (c *CommitCommand) Only(paths ...string) *CommitCommand {
	if c.guard() {
		return c
	}
	c.only = paths
	return c
}

// All auto-stages modifications and deletions of already-tracked files from
// the worktree before committing (it never stages new files). Mutually
// exclusive with Only.
func (c *CommitCommand) All(all bool) *CommitCommand {
	if c.guard() {
		return c
	}
	c.all = all
	return c
}

// At fixes the commit's timestamp; unset defaults to time.Now at Call time.
func (c *CommitCommand) At(t time.Time) *CommitCommand {
	if c.guard() {
		return c
	}
	c.now = t
	return c
}

// CommitResult is the outcome of a successful CommitCommand.Call.
type CommitResult struct {
	Hash plumbing.Hash
}

// Call validates and executes the commit exactly once (§4.10).
func (c *CommitCommand) Call() (*CommitResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	if c.message == "" {
		return nil, ErrNoMessage
	}
	if len(c.only) > 0 && c.all {
		return nil, ErrInvalidMergeHeads
	}

	now := c.now
	if now.IsZero() {
		now = time.Now()
	}

	repo := c.repo
	headRef, headErr := repo.Head()

	var headCommit *object.Commit
	var parents []plumbing.Hash
	if headErr == nil {
		var err error
		headCommit, err = object.GetCommit(repo.Storer, headRef.Hash())
		if err != nil {
			return nil, err
		}
		parents = []plumbing.Hash{headCommit.Hash}
	}

	author := repo.ident(c.author, now)
	if c.amend && c.author == nil && headCommit != nil {
		author = headCommit.Author
	}
	committer := author
	if c.committer != nil {
		committer = repo.ident(c.committer, now)
	}

	if c.amend {
		if headCommit == nil {
			return nil, ErrRefNotFound
		}
		parents = headCommit.ParentHashes
	}

	if c.all {
		if repo.Worktree == nil {
			return nil, ErrNoFilepattern
		}
		if err := stageTrackedChanges(repo); err != nil {
			return nil, err
		}
	}

	var treeHash plumbing.Hash
	var err error
	if len(c.only) > 0 {
		var base *object.Tree
		if headCommit != nil {
			base, err = headCommit.Tree()
			if err != nil {
				return nil, err
			}
		}
		treeHash, err = writeTreeOnly(repo.Storer, base, repo.Index, c.only)
	} else {
		treeHash, err = writeTreeFromIndex(repo.Storer, repo.Index)
	}
	if err != nil {
		return nil, err
	}

	if empty, err := isEmptyCommit(repo.Storer, treeHash, parents); err != nil {
		return nil, err
	} else if empty && !c.allowEmpty {
		return nil, ErrEmptyCommit
	}

	commit := &object.Commit{
		Author:       author,
		Committer:    committer,
		Message:      c.message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}

	obj := repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return nil, err
	}
	h, err := repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return nil, err
	}

	if err := repo.updateHead(headRef, h); err != nil {
		return nil, err
	}

	clearMergeStages(repo.Index)

	return &CommitResult{Hash: h}, nil
}

// isEmptyCommit reports whether tree is identical to the tree of the sole
// parent in parents; a root commit (no parents) is empty only when its tree
// has no entries, and a merge commit (more than one parent) is never
// considered empty.
func isEmptyCommit(s storer.EncodedObjectStorer, treeHash plumbing.Hash, parents []plumbing.Hash) (bool, error) {
	switch len(parents) {
	case 0:
		tree, err := object.GetTree(s, treeHash)
		if err != nil {
			return false, err
		}
		return len(tree.Entries) == 0, nil
	case 1:
		parent, err := object.GetCommit(s, parents[0])
		if err != nil {
			return false, err
		}
		return parent.TreeHash == treeHash, nil
	default:
		return false, nil
	}
}

// clearMergeStages drops any stage-1/2/3 leftovers a resolved conflict left
// behind: once committed, the index should only carry stage-0 entries.
func clearMergeStages(idx *index.Index) {
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Stage == index.Merged {
			kept = append(kept, e)
		}
	}
	idx.Entries = kept
}
