package vcs

import (
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// CheckoutCommand switches the current branch (or detaches HEAD at a
// commit), optionally creating the branch first, or restores specific
// paths from a tree into the index and worktree (§4.10).
type CheckoutCommand struct {
	command
	repo *Repository

	branch       string
	createBranch bool
	startPoint   string
	orphan       bool
	force        bool
	paths        []string
	fromTree     string
}

// Checkout returns a CheckoutCommand against r.
func (r *Repository) Checkout() *CheckoutCommand {
	return &CheckoutCommand{repo: r}
}

// Branch sets the target: a branch name, or any revision (in which case
// HEAD detaches at the resolved commit).
func (c *CheckoutCommand) Branch(rev string) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.branch = rev
	return c
}

// CreateBranch creates Branch's name at StartPoint (or, unset, the current
// HEAD) before switching to it.
func (c *CheckoutCommand) CreateBranch(create bool) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.createBranch = create
	return c
}

// StartPoint sets the revision CreateBranch branches from.
func (c *CheckoutCommand) StartPoint(rev string) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.startPoint = rev
	return c
}

// Orphan points HEAD symbolically at Branch's name without that branch
// existing yet (the next commit creates it), mirroring Init's unborn
// branch.
func (c *CheckoutCommand) Orphan(orphan bool) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.orphan = orphan
	return c
}

// Force bypasses the dirty-worktree check that otherwise turns a local
// modification into a reported conflict.
func (c *CheckoutCommand) Force(force bool) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.force = force
	return c
}

// Paths restricts the checkout to specific paths, restored from FromTree
// (default HEAD) into the index and worktree without moving HEAD or the
// current branch.
func (c *CheckoutCommand) Paths(paths ...string) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.paths = paths
	return c
}

// FromTree sets the source tree for a Paths checkout. Defaults to HEAD.
func (c *CheckoutCommand) FromTree(rev string) *CheckoutCommand {
	if c.guard() {
		return c
	}
	c.fromTree = rev
	return c
}

// CheckoutCommandResult is the outcome of a successful CheckoutCommand.Call.
type CheckoutCommandResult struct {
	Hash   plumbing.Hash
	Result *CheckoutResult
}

// Call validates and executes the checkout exactly once (§4.10).
func (c *CheckoutCommand) Call() (*CheckoutCommandResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	repo := c.repo

	if len(c.paths) > 0 {
		return c.checkoutPaths()
	}

	if c.orphan {
		if c.branch == "" {
			return nil, ErrInvalidRefName
		}
		if !isValidRefName(c.branch) {
			return nil, ErrInvalidRefName
		}
		name := plumbing.NewBranchReferenceName(c.branch)
		if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, name)); err != nil {
			return nil, err
		}
		return &CheckoutCommandResult{}, nil
	}

	if c.createBranch {
		start := c.startPoint
		if start == "" {
			start = "HEAD"
		}
		hash, err := repo.Resolve(start)
		if err != nil {
			return nil, err
		}
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(c.branch), hash)
		if err := repo.Storer.CheckAndSetReference(ref, nil); err != nil {
			return nil, err
		}
	}

	branchName := plumbing.NewBranchReferenceName(c.branch)
	branchRef, err := repo.Storer.Reference(branchName)

	var targetHash plumbing.Hash
	var symbolic bool
	if err == nil {
		targetHash = branchRef.Hash()
		symbolic = true
	} else {
		targetHash, err = repo.Resolve(c.branch)
		if err != nil {
			return nil, err
		}
	}

	co, err := c.checkoutWorktree(targetHash)
	if err != nil {
		return nil, err
	}
	if co != nil && len(co.Conflicts) > 0 && !c.force {
		return &CheckoutCommandResult{Hash: targetHash, Result: co}, nil
	}

	commit, err := object.GetCommit(repo.Storer, targetHash)
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

	if symbolic {
		if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchName)); err != nil {
			return nil, err
		}
	} else {
		if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, targetHash)); err != nil {
			return nil, err
		}
	}

	return &CheckoutCommandResult{Hash: targetHash, Result: co}, nil
}

func (c *CheckoutCommand) checkoutWorktree(hash plumbing.Hash) (*CheckoutResult, error) {
	repo := c.repo
	commit, err := object.GetCommit(repo.Storer, hash)
	if err != nil {
		return nil, err
	}

	if repo.Worktree == nil {
		return nil, nil
	}
	return repo.Worktree.CheckoutTree(commit.TreeHash, CheckoutOptions{Force: c.force, Known: c.knownHashes()})
}

// knownHashes reports the index's stage-0 entry hash for path, letting the
// worktree tell a locally modified file from one that merely differs from
// the incoming tree because the branches diverged.
func (c *CheckoutCommand) knownHashes() func(string) (plumbing.Hash, bool) {
	repo := c.repo
	return func(path string) (plumbing.Hash, bool) {
		e, err := repo.Index.Entry(path)
		if err != nil {
			return plumbing.Hash{}, false
		}
		return e.Hash, true
	}
}

func (c *CheckoutCommand) checkoutPaths() (*CheckoutCommandResult, error) {
	repo := c.repo

	from := c.fromTree
	if from == "" {
		from = "HEAD"
	}
	hash, err := repo.Resolve(from)
	if err != nil {
		return nil, err
	}
	commit, err := object.GetCommit(repo.Storer, hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var co *CheckoutResult
	if repo.Worktree != nil {
		co, err = repo.Worktree.CheckoutPaths(commit.TreeHash, c.paths, CheckoutOptions{Force: c.force, Known: c.knownHashes()})
		if err != nil {
			return nil, err
		}
	}

	for _, p := range c.paths {
		e, terr := tree.TreeEntry(p)
		if terr != nil {
			if _, err := repo.Index.Remove(p); err != nil && err != index.ErrEntryNotFound {
				return nil, err
			}
			continue
		}
		upsertEntry(repo.Index, p, e.Mode, e.Hash, 0)
	}

	return &CheckoutCommandResult{Hash: hash, Result: co}, nil
}
