package vcs

import (
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// ResetMode selects how far a ResetCommand reaches: just HEAD, HEAD and the
// index, or HEAD, the index, and the worktree (§4.10).
type ResetMode int

const (
	// Soft moves HEAD only; the index and worktree are untouched.
	Soft ResetMode = iota
	// Mixed moves HEAD and resets the index to the target's tree.
	Mixed
	// Hard moves HEAD, resets the index, and overwrites the worktree.
	Hard
)

// ResetCommand moves the current branch (and, depending on Mode, the index
// and worktree) to a target commit (§4.10).
type ResetCommand struct {
	command
	repo *Repository

	target string
	mode   ResetMode
}

// Reset returns a ResetCommand against r.
func (r *Repository) Reset() *ResetCommand {
	return &ResetCommand{repo: r, target: "HEAD"}
}

// Target sets the revision to reset to (rev-parse syntax, §4.6). Defaults
// to "HEAD".
func (c *ResetCommand) Target(rev string) *ResetCommand {
	if c.guard() {
		return c
	}
	c.target = rev
	return c
}

// Mode selects how far the reset reaches. Defaults to Soft.
func (c *ResetCommand) Mode(mode ResetMode) *ResetCommand {
	if c.guard() {
		return c
	}
	c.mode = mode
	return c
}

// ResetResult is the outcome of a successful ResetCommand.Call.
type ResetResult struct {
	Hash   plumbing.Hash
	Result *CheckoutResult
}

// Call validates and executes the reset exactly once (§4.10).
func (c *ResetCommand) Call() (*ResetResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	repo := c.repo
	target, err := repo.Resolve(c.target)
	if err != nil {
		return nil, err
	}

	headRef, _ := repo.Head()
	if err := repo.updateHead(headRef, target); err != nil {
		return nil, err
	}

	result := &ResetResult{Hash: target}
	if c.mode == Soft {
		return result, nil
	}

	commit, err := object.GetCommit(repo.Storer, target)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	entries, err := indexEntriesFromTree(repo.Storer, tree)
	if err != nil {
		return nil, err
	}
	repo.Index.Entries = entries

	if c.mode == Mixed {
		return result, nil
	}

	if repo.Worktree != nil {
		co, err := repo.Worktree.CheckoutTree(commit.TreeHash, CheckoutOptions{Force: true})
		if err != nil {
			return nil, err
		}
		result.Result = co
	}

	return result, nil
}
