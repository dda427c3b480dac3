package vcs

import (
	"strings"
	"time"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// RevertCommand applies the inverse of one or more commits on top of HEAD
// (§4.10): for each commit C, it three-way merges with base=C, ours=HEAD,
// theirs=C's first (or MainlineParent-th) parent.
type RevertCommand struct {
	command
	repo *Repository

	commits        []string
	mainlineParent int
	noCommit       bool
	author         *object.Signature
	now            time.Time
}

// Revert returns a RevertCommand against r.
func (r *Repository) Revert() *RevertCommand {
	return &RevertCommand{repo: r}
}

// Commits sets the revisions to revert, oldest first. Required.
func (c *RevertCommand) Commits(revs ...string) *RevertCommand {
	if c.guard() {
		return c
	}
	c.commits = revs
	return c
}

// MainlineParent selects which parent (1-based) of a merge commit is kept
// when reverting it; required only when the reverted commit has more than
// one parent.
func (c *RevertCommand) MainlineParent(n int) *RevertCommand {
	if c.guard() {
		return c
	}
	c.mainlineParent = n
	return c
}

// NoCommit builds the revert into the index without moving HEAD, stopping
// after the first commit.
func (c *RevertCommand) NoCommit(noCommit bool) *RevertCommand {
	if c.guard() {
		return c
	}
	c.noCommit = noCommit
	return c
}

// Author overrides the revert commit's author/committer; unset uses the
// repository's configured default.
func (c *RevertCommand) Author(sig object.Signature) *RevertCommand {
	if c.guard() {
		return c
	}
	c.author = &sig
	return c
}

// At fixes the timestamp Author's When defaults to.
func (c *RevertCommand) At(t time.Time) *RevertCommand {
	if c.guard() {
		return c
	}
	c.now = t
	return c
}

// RevertResult is the outcome of a successful RevertCommand.Call.
type RevertResult struct {
	Applied   []plumbing.Hash
	Status    merge.MergeStatus
	Conflicts []merge.Conflict
}

// revertMessage renders "Revert \"<first line>\"\n\nThis reverts commit
// <OID>.\n" (§4.10 scenario 3).
func revertMessage(c *object.Commit) string {
	first, _, _ := strings.Cut(c.Message, "\n")
	return "Revert \"" + first + "\"\n\nThis reverts commit " + c.Hash.String() + ".\n"
}

// Call validates and executes the revert exactly once (§4.10).
func (c *RevertCommand) Call() (*RevertResult, error) {
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

	result := &RevertResult{}
	for _, rev := range c.commits {
		hash, err := repo.Resolve(rev)
		if err != nil {
			return nil, err
		}
		reverted, err := object.GetCommit(repo.Storer, hash)
		if err != nil {
			return nil, err
		}

		theirs, err := pickParent(reverted, c.mainlineParent)
		if err != nil {
			return nil, err
		}
		theirsTree, err := treeOf(theirs)
		if err != nil {
			return nil, err
		}
		baseTree, err := reverted.Tree()
		if err != nil {
			return nil, err
		}

		author := repo.ident(c.author, now)

		applied, err := applyCommit(repo, baseTree, theirsTree, revertMessage(reverted), author, now, merge.Recursive, c.noCommit)
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
