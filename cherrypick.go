package vcs

import (
	"fmt"
	"time"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// applyResult is the shared outcome shape of CherryPickCommand and
// RevertCommand: both replay a single commit's change as a three-way merge
// against HEAD.
type applyResult struct {
	Status    merge.MergeStatus
	Commit    plumbing.Hash
	Conflicts []merge.Conflict
}

// pickParent resolves the parent commit of a single-commit three-way
// merge: the sole parent of a non-merge commit, nil for a root commit, or
// its mainlineParent-th parent (1-based) for a merge commit.
func pickParent(c *object.Commit, mainlineParent int) (*object.Commit, error) {
	if c.NumParents() == 0 {
		return nil, nil
	}
	if c.NumParents() == 1 {
		return c.Parent(0)
	}
	if mainlineParent <= 0 {
		return nil, ErrMultipleParentsNotAllowed
	}
	if mainlineParent > c.NumParents() {
		return nil, fmt.Errorf("command: mainline parent %d out of range (commit has %d parents)", mainlineParent, c.NumParents())
	}
	return c.Parent(mainlineParent - 1)
}

// treeOf returns c's tree, or nil (standing for the empty tree) when c is
// nil, as pickParent returns for a root commit.
func treeOf(c *object.Commit) (*object.Tree, error) {
	if c == nil {
		return nil, nil
	}
	return c.Tree()
}

// applyCommit performs the shared replay: a three-way merge of base, ours
// (HEAD), theirs (the side carrying the desired change) against base. A
// clean result with noCommit set writes the merged tree into the index and
// leaves HEAD alone (MergedNotCommitted); otherwise it records a new
// single-parent commit on HEAD with message/author as given. A conflicted
// result writes the merged tree's entries into the index as stage-0
// entries and leaves HEAD alone; no stage 1-3 entries are written.
func applyCommit(repo *Repository, baseTree, theirsTree *object.Tree, message string, author object.Signature, now time.Time, strategy merge.Strategy, noCommit bool) (*applyResult, error) {
	headRef, err := repo.Head()
	if err != nil {
		return nil, err
	}
	ours, err := object.GetCommit(repo.Storer, headRef.Hash())
	if err != nil {
		return nil, err
	}
	oursTree, err := ours.Tree()
	if err != nil {
		return nil, err
	}

	treeHash, conflicts, err := merge.MergeTrees(repo.Storer, baseTree, oursTree, theirsTree, merge.Options{Strategy: strategy})
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 || noCommit {
		tree, terr := object.GetTree(repo.Storer, treeHash)
		if terr != nil {
			return nil, terr
		}
		entries, terr := indexEntriesFromTree(repo.Storer, tree)
		if terr != nil {
			return nil, terr
		}
		repo.Index.Entries = entries

		if len(conflicts) > 0 {
			return &applyResult{Status: merge.Conflicting, Conflicts: conflicts}, nil
		}
		return &applyResult{Status: merge.MergedNotCommitted}, nil
	}

	commit := &object.Commit{
		Author:       author,
		Committer:    author,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: []plumbing.Hash{ours.Hash},
	}
	if commit.Author.When.IsZero() {
		commit.Author.When = now
	}
	commit.Committer.When = commit.Author.When

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

	return &applyResult{Status: merge.Merged, Commit: h}, nil
}

// CherryPickCommand replays one or more commits' changes on top of HEAD,
// each as its own new commit (§4.10).
type CherryPickCommand struct {
	command
	repo *Repository

	commits        []string
	mainlineParent int
	noCommit       bool
	author         *object.Signature
	now            time.Time
}

// CherryPick returns a CherryPickCommand against r.
func (r *Repository) CherryPick() *CherryPickCommand {
	return &CherryPickCommand{repo: r}
}

// Commits sets the revisions to replay, oldest first. Required.
func (c *CherryPickCommand) Commits(revs ...string) *CherryPickCommand {
	if c.guard() {
		return c
	}
	c.commits = revs
	return c
}

// MainlineParent selects which parent (1-based) of a merge commit is its
// base; required only when a replayed commit has more than one parent.
func (c *CherryPickCommand) MainlineParent(n int) *CherryPickCommand {
	if c.guard() {
		return c
	}
	c.mainlineParent = n
	return c
}

// NoCommit builds the merge result into the index without moving HEAD,
// stopping after the first replayed commit.
func (c *CherryPickCommand) NoCommit(noCommit bool) *CherryPickCommand {
	if c.guard() {
		return c
	}
	c.noCommit = noCommit
	return c
}

// Author overrides every replayed commit's author/committer; unset
// preserves each original commit's author.
func (c *CherryPickCommand) Author(sig object.Signature) *CherryPickCommand {
	if c.guard() {
		return c
	}
	c.author = &sig
	return c
}

// At fixes the timestamp Author's When defaults to.
func (c *CherryPickCommand) At(t time.Time) *CherryPickCommand {
	if c.guard() {
		return c
	}
	c.now = t
	return c
}

// CherryPickResult is the outcome of a successful CherryPickCommand.Call.
type CherryPickResult struct {
	Applied   []plumbing.Hash
	Status    merge.MergeStatus
	Conflicts []merge.Conflict
}

// Call validates and executes the replay exactly once (§4.10).
func (c *CherryPickCommand) Call() (*CherryPickResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if len(c.commits) == 0 {
		return nil, ErrInvalidMergeHeads
	}

	repo := c.repo
	now := c.now
	if now.IsZero() {
		now = time.Now()
	}

	result := &CherryPickResult{}
	for _, rev := range c.commits {
		hash, err := repo.Resolve(rev)
		if err != nil {
			return nil, err
		}
		picked, err := object.GetCommit(repo.Storer, hash)
		if err != nil {
			return nil, err
		}

		base, err := pickParent(picked, c.mainlineParent)
		if err != nil {
			return nil, err
		}
		baseTree, err := treeOf(base)
		if err != nil {
			return nil, err
		}
		theirsTree, err := picked.Tree()
		if err != nil {
			return nil, err
		}

		author := picked.Author
		if c.author != nil {
			author = repo.ident(c.author, now)
		}

		applied, err := applyCommit(repo, baseTree, theirsTree, picked.Message, author, now, merge.Recursive, c.noCommit)
		if err != nil {
			return nil, err
		}

		if applied.Status == merge.Conflicting || applied.Status == merge.MergedNotCommitted {
			result.Status = applied.Status
			result.Conflicts = applied.Conflicts
			return result, nil
		}

		result.Applied = append(result.Applied, applied.Commit)
	}

	result.Status = merge.Merged
	return result, nil
}
