package vcs

import (
	"time"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// MergeCommand merges one or more revisions into the current branch
// (§4.9, §4.10).
type MergeCommand struct {
	command
	repo *Repository

	includes        []string
	strategy        merge.Strategy
	contentStrategy merge.ContentStrategy
	squash          bool
	noCommit  bool
	message   string
	author    *object.Signature
	committer *object.Signature
	now       time.Time
}

// Merge returns a MergeCommand against r.
func (r *Repository) Merge() *MergeCommand {
	return &MergeCommand{repo: r}
}

// Include adds a revision to merge into the current branch. More than one
// Include performs a sequence of pairwise merges, each result becoming
// "ours" for the next.
func (c *MergeCommand) Include(revs ...string) *MergeCommand {
	if c.guard() {
		return c
	}
	c.includes = append(c.includes, revs...)
	return c
}

// Strategy selects the conflict-resolution strategy (§4.9). Defaults to
// merge.Recursive.
func (c *MergeCommand) Strategy(s merge.Strategy) *MergeCommand {
	if c.guard() {
		return c
	}
	c.strategy = s
	return c
}

// ContentStrategy selects how a path both sides edited differently is
// resolved once it comes down to a content merge (§4.9). Defaults to
// merge.ContentDiff3, which leaves conflict markers in the blob.
func (c *MergeCommand) ContentStrategy(s merge.ContentStrategy) *MergeCommand {
	if c.guard() {
		return c
	}
	c.contentStrategy = s
	return c
}

// Squash builds the merged tree but leaves HEAD unmoved and records no
// merge commit; the caller is left to commit manually with a single
// parent.
func (c *MergeCommand) Squash(squash bool) *MergeCommand {
	if c.guard() {
		return c
	}
	c.squash = squash
	return c
}

// NoCommit builds the merged tree, for a non-fast-forward merge, without
// recording the merge commit.
func (c *MergeCommand) NoCommit(noCommit bool) *MergeCommand {
	if c.guard() {
		return c
	}
	c.noCommit = noCommit
	return c
}

// Message overrides the merge commit's message.
func (c *MergeCommand) Message(msg string) *MergeCommand {
	if c.guard() {
		return c
	}
	c.message = msg
	return c
}

// Author overrides the merge commit's author; unset falls back to the
// repository's configured default.
func (c *MergeCommand) Author(sig object.Signature) *MergeCommand {
	if c.guard() {
		return c
	}
	c.author = &sig
	return c
}

// Committer overrides the merge commit's committer; unset defaults to
// Author.
func (c *MergeCommand) Committer(sig object.Signature) *MergeCommand {
	if c.guard() {
		return c
	}
	c.committer = &sig
	return c
}

// At fixes the merge commit's timestamp; unset defaults to time.Now at
// Call time.
func (c *MergeCommand) At(t time.Time) *MergeCommand {
	if c.guard() {
		return c
	}
	c.now = t
	return c
}

// MergeCommandResult is the outcome of a successful MergeCommand.Call.
type MergeCommandResult struct {
	Status    merge.MergeStatus
	Commit    plumbing.Hash
	Conflicts []merge.Conflict
}

// Call validates and executes the merge exactly once (§4.9, §4.10).
func (c *MergeCommand) Call() (*MergeCommandResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if len(c.includes) == 0 {
		return nil, ErrInvalidMergeHeads
	}

	repo := c.repo
	now := c.now
	if now.IsZero() {
		now = time.Now()
	}

	headRef, err := repo.Head()
	if err != nil {
		return nil, err
	}
	ours, err := object.GetCommit(repo.Storer, headRef.Hash())
	if err != nil {
		return nil, err
	}

	author := repo.ident(c.author, now)
	committer := author
	if c.committer != nil {
		committer = repo.ident(c.committer, now)
	}

	opts := merge.CommitOptions{
		Options:   merge.Options{Strategy: c.strategy, ContentStrategy: c.contentStrategy},
		Squash:    c.squash,
		NoCommit:  c.noCommit,
		Message:   c.message,
		Author:    author,
		Committer: committer,
		Now:       now,
	}

	var last *merge.Result
	for _, rev := range c.includes {
		theirsHash, err := repo.Resolve(rev)
		if err != nil {
			return nil, err
		}
		theirs, err := object.GetCommit(repo.Storer, theirsHash)
		if err != nil {
			return nil, err
		}

		if opts.Message == "" {
			opts.Message = "Merge commit '" + theirs.Hash.String() + "'\n"
		}

		result, err := merge.Merge(repo.Storer, ours, theirs, opts)
		if err != nil {
			return nil, err
		}
		last = result

		if result.Status == merge.Conflicting || result.Status == merge.MergedNotCommitted || result.Status == merge.MergedSquashed || result.Status == merge.FastForwardSquashed {
			tree, terr := object.GetTree(repo.Storer, result.Tree)
			if terr != nil {
				return nil, terr
			}
			entries, terr := indexEntriesFromTree(repo.Storer, tree)
			if terr != nil {
				return nil, terr
			}
			repo.Index.Entries = entries
		}

		if result.Status == merge.Conflicting {
			return &MergeCommandResult{Status: result.Status, Conflicts: result.Conflicts}, nil
		}

		switch result.Status {
		case merge.FastForward, merge.Merged:
			if err := repo.updateHead(headRef, result.Commit); err != nil {
				return nil, err
			}
			headRef, err = repo.Head()
			if err != nil {
				return nil, err
			}
			ours, err = object.GetCommit(repo.Storer, result.Commit)
			if err != nil {
				return nil, err
			}
		}

		opts.Message = ""
	}

	return &MergeCommandResult{Status: last.Status, Commit: last.Commit}, nil
}
