// Package revlist walks the commits, trees and blobs reachable from a set
// of starting commits, the way `git rev-list --objects` enumerates what a
// push or a pack consolidation needs to carry.
package revlist

import (
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Objects returns every hash reachable from commits (each commit itself,
// every tree and subtree in its snapshot, and every blob they name),
// except anything reachable from ignore.
func Objects(s storer.EncodedObjectStorer, commits []*object.Commit, ignore []plumbing.Hash) ([]plumbing.Hash, error) {
	seen := make(map[plumbing.Hash]bool, len(ignore))
	for _, h := range ignore {
		seen[h] = true
	}

	mark := func(h plumbing.Hash) error {
		seen[h] = true
		return nil
	}
	for _, ic := range ignoreCommits(s, ignore) {
		if err := walkCommit(s, ic, seen, mark); err != nil {
			return nil, err
		}
	}

	result := make(map[plumbing.Hash]bool)
	add := func(h plumbing.Hash) error {
		if !seen[h] {
			seen[h] = true
			result[h] = true
		}
		return nil
	}

	for _, c := range commits {
		if err := walkCommit(s, c, seen, add); err != nil {
			return nil, err
		}
	}

	out := make([]plumbing.Hash, 0, len(result))
	for h := range result {
		out = append(out, h)
	}
	return out, nil
}

// ignoreCommits resolves each ignored hash to a *object.Commit when
// possible, so its whole history and tree can be excluded too. Hashes
// that aren't commits are left for the caller's seen set to handle
// directly.
func ignoreCommits(s storer.EncodedObjectStorer, ignore []plumbing.Hash) []*object.Commit {
	var out []*object.Commit
	for _, h := range ignore {
		if c, err := object.GetCommit(s, h); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// walkCommit visits c and every ancestor not already in seen, calling cb
// with the commit's hash and every tree/blob hash in its snapshot.
func walkCommit(s storer.EncodedObjectStorer, c *object.Commit, seen map[plumbing.Hash]bool, cb func(plumbing.Hash) error) error {
	iter := object.NewCommitPreorderIter(c, nil, nil)
	return iter.ForEach(func(commit *object.Commit) error {
		if err := cb(commit.Hash); err != nil {
			return err
		}
		return walkTree(s, commit, seen, cb)
	})
}

// walkTree visits c's tree and every subtree/blob it reaches, skipping
// anything already in seen (so a path shared by two commits is only
// emitted once).
func walkTree(s storer.EncodedObjectStorer, c *object.Commit, seen map[plumbing.Hash]bool, cb func(plumbing.Hash) error) error {
	tree, err := c.Tree()
	if err != nil {
		return err
	}
	return walkTreeHash(s, tree.Hash, seen, cb)
}

func walkTreeHash(s storer.EncodedObjectStorer, h plumbing.Hash, seen map[plumbing.Hash]bool, cb func(plumbing.Hash) error) error {
	if seen[h] {
		return nil
	}
	seen[h] = true
	if err := cb(h); err != nil {
		return err
	}

	tree, err := object.GetTree(s, h)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		if seen[e.Hash] || e.Mode == filemode.Submodule {
			continue
		}
		if e.Mode == filemode.Dir {
			if err := walkTreeHash(s, e.Hash, seen, cb); err != nil {
				return err
			}
			continue
		}
		seen[e.Hash] = true
		if err := cb(e.Hash); err != nil {
			return err
		}
	}
	return nil
}
