package vcs

import (
	"io"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// DiffCommand compares two trees: HEAD (or an explicit commit) against the
// index or worktree, or two arbitrary trees (§4.8).
type DiffCommand struct {
	command
	repo *Repository

	oldTree *plumbing.Hash
	newTree *plumbing.Hash
	cached  bool
	path    string
}

// Diff returns a DiffCommand against r.
func (r *Repository) Diff() *DiffCommand {
	return &DiffCommand{repo: r}
}

// OldTree overrides the "before" side, otherwise HEAD's tree.
func (c *DiffCommand) OldTree(tree plumbing.Hash) *DiffCommand {
	if c.guard() {
		return c
	}
	c.oldTree = &tree
	return c
}

// NewTree overrides the "after" side, otherwise the worktree (or the
// index, if Cached is set).
func (c *DiffCommand) NewTree(tree plumbing.Hash) *DiffCommand {
	if c.guard() {
		return c
	}
	c.newTree = &tree
	return c
}

// Cached compares against the index instead of the worktree, when NewTree
// isn't set.
func (c *DiffCommand) Cached(cached bool) *DiffCommand {
	if c.guard() {
		return c
	}
	c.cached = cached
	return c
}

// Path restricts the diff to paths under this prefix.
func (c *DiffCommand) Path(path string) *DiffCommand {
	if c.guard() {
		return c
	}
	c.path = path
	return c
}

// DiffResult is the outcome of a successful DiffCommand.Call.
type DiffResult struct {
	Changes object.Changes
}

// Call validates and executes the comparison exactly once (§4.8).
func (c *DiffCommand) Call() (*DiffResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	oldTree, err := c.resolveOldTree()
	if err != nil {
		return nil, err
	}

	newTree, err := c.resolveNewTree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, err
	}

	if c.path != "" {
		var filtered object.Changes
		for _, ch := range changes {
			if strings.HasPrefix(ch.Path(), c.path) {
				filtered = append(filtered, ch)
			}
		}
		changes = filtered
	}

	return &DiffResult{Changes: changes}, nil
}

func (c *DiffCommand) resolveOldTree() (*object.Tree, error) {
	repo := c.repo
	if c.oldTree != nil {
		return object.GetTree(repo.Storer, *c.oldTree)
	}
	head, err := repo.HeadCommit()
	if err != nil {
		return &object.Tree{}, nil
	}
	return head.Tree()
}

func (c *DiffCommand) resolveNewTree() (*object.Tree, error) {
	repo := c.repo
	if c.newTree != nil {
		return object.GetTree(repo.Storer, *c.newTree)
	}
	if c.cached {
		h, err := writeTreeFromIndex(repo.Storer, repo.Index)
		if err != nil {
			return nil, err
		}
		return object.GetTree(repo.Storer, h)
	}
	return c.worktreeTree()
}

// worktreeTree builds an ephemeral tree snapshotting the current worktree
// contents, for a diff against a live (uncommitted) checkout.
func (c *DiffCommand) worktreeTree() (*object.Tree, error) {
	return buildWorktreeTree(c.repo)
}

func readAllClose(r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	return io.ReadAll(r)
}

func modeOf(m uint32) filemode.FileMode {
	if m == 0 {
		return filemode.Regular
	}
	return filemode.FileMode(m)
}
