package merge

import (
	"errors"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// MergeStatus classifies the outcome of a Merge call (§4.9).
type MergeStatus int

const (
	// AlreadyUpToDate means theirs is already reachable from ours; there is
	// nothing to merge.
	AlreadyUpToDate MergeStatus = iota
	// FastForward means ours is an ancestor of theirs, so the merge moves
	// ours to theirs with no new commit.
	FastForward
	// FastForwardSquashed is a fast-forward resolved with Squash: Tree is
	// theirs' tree but Commit is left zero, deliberately leaving history
	// where FastForward would have advanced it.
	FastForwardSquashed
	// Merged is a genuine three-way merge with no conflicts, committed as a
	// two-parent merge commit.
	Merged
	// MergedSquashed is a genuine three-way merge with no conflicts whose
	// result was left uncommitted because Squash was requested.
	MergedSquashed
	// MergedNotCommitted is a genuine three-way merge whose tree was built
	// but not committed (NoCommit was requested); distinct from
	// MergedSquashed in that a later commit would still carry both parents.
	MergedNotCommitted
	// Conflicting means the three-way merge left one or more paths in
	// conflict; no merge commit was created.
	Conflicting
)

// ErrNoMergeBase is returned when ours and theirs share no common ancestor.
var ErrNoMergeBase = errors.New("merge: no common ancestor")

// Result is the outcome of a Merge call.
type Result struct {
	Status    MergeStatus
	Tree      plumbing.Hash
	Conflicts []Conflict
	// Commit is the commit ours advances to: the new merge commit when
	// Status is Merged, theirs itself when Status is FastForward, and zero
	// otherwise.
	Commit plumbing.Hash
}

// CommitOptions configures a commit-level Merge, in addition to the tree-level
// Options it embeds.
type CommitOptions struct {
	Options

	// Squash builds the merged tree but advances neither a fast-forward
	// nor records a merge commit; the caller is left to commit manually
	// with a single parent.
	Squash bool
	// NoCommit builds the merge tree and, for a non-fast-forward merge,
	// stops short of creating the merge commit.
	NoCommit bool

	Message   string
	Author    object.Signature
	Committer object.Signature
	Now       time.Time
}

// Merge performs the commit-level three-way merge of theirs into ours
// (§4.9): it first checks for the fast-forward and already-up-to-date
// cases via MergeBase/IsAncestor, and otherwise merges the two trees
// against their common ancestor and, absent conflicts and NoCommit/Squash,
// records a two-parent merge commit.
func Merge(s storer.Storer, ours, theirs *object.Commit, opts CommitOptions) (*Result, error) {
	upToDate, err := theirs.IsAncestor(ours)
	if err != nil {
		return nil, err
	}
	if theirs.Hash == ours.Hash || upToDate {
		return &Result{Status: AlreadyUpToDate, Tree: ours.TreeHash}, nil
	}

	canFastForward, err := isAncestorCommit(s, ours.Hash, theirs.Hash)
	if err != nil {
		return nil, err
	}
	if canFastForward {
		if opts.Squash {
			return &Result{Status: FastForwardSquashed, Tree: theirs.TreeHash}, nil
		}
		return &Result{Status: FastForward, Tree: theirs.TreeHash, Commit: theirs.Hash}, nil
	}

	bases, err := ours.MergeBase(theirs)
	if err != nil {
		return nil, err
	}
	if len(bases) == 0 {
		return nil, ErrNoMergeBase
	}

	var baseTree *object.Tree
	if len(bases) > 0 {
		baseTree, err = bases[0].Tree()
		if err != nil {
			return nil, err
		}
	}

	oursTree, err := ours.Tree()
	if err != nil {
		return nil, err
	}
	theirsTree, err := theirs.Tree()
	if err != nil {
		return nil, err
	}

	treeHash, conflicts, err := MergeTrees(s, baseTree, oursTree, theirsTree, opts.Options)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return &Result{Status: Conflicting, Tree: treeHash, Conflicts: conflicts}, nil
	}

	if opts.Squash {
		return &Result{Status: MergedSquashed, Tree: treeHash}, nil
	}
	if opts.NoCommit {
		return &Result{Status: MergedNotCommitted, Tree: treeHash}, nil
	}

	commit := &object.Commit{
		Author:       opts.Author,
		Committer:    opts.Committer,
		Message:      opts.Message,
		TreeHash:     treeHash,
		ParentHashes: []plumbing.Hash{ours.Hash, theirs.Hash},
	}
	if commit.Author.When.IsZero() {
		commit.Author.When = opts.Now
	}
	if commit.Committer.When.IsZero() {
		commit.Committer.When = opts.Now
	}

	obj := s.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return nil, err
	}
	commitHash, err := s.SetEncodedObject(obj)
	if err != nil {
		return nil, err
	}

	return &Result{Status: Merged, Tree: treeHash, Commit: commitHash}, nil
}

// isAncestorCommit reports whether from can reach to by following parent
// links, loading commits from s as it walks.
func isAncestorCommit(s storer.Storer, from, to plumbing.Hash) (bool, error) {
	c, err := object.GetCommit(s, from)
	if err != nil {
		return false, err
	}
	other, err := object.GetCommit(s, to)
	if err != nil {
		return false, err
	}
	return c.IsAncestor(other)
}
