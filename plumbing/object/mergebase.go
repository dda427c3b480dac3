package object

import (
	"bytes"
	"sort"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// IsAncestor reports whether c is reachable by following parent links from
// other, including the trivial case where c and other are the same commit
// (§8 "lowest common ancestor").
func (c *Commit) IsAncestor(other *Commit) (bool, error) {
	found := false
	iter := NewCommitPreorderIter(other, nil, nil)
	err := iter.ForEach(func(candidate *Commit) error {
		if candidate.Hash == c.Hash {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	return found, err
}

// MergeBase returns the lowest common ancestors of c and other: commits
// reachable from both that are not themselves reachable from any other
// common ancestor. A disjoint history (e.g. two unrelated root commits)
// yields an empty, non-nil-error result. Cross-merges or feature branches
// with more than one incomparable crossing point yield more than one
// result (§8).
func (c *Commit) MergeBase(other *Commit) ([]*Commit, error) {
	ancestorsA, err := ancestorsOf(c)
	if err != nil {
		return nil, err
	}
	ancestorsB, err := ancestorsOf(other)
	if err != nil {
		return nil, err
	}

	var common []*Commit
	for h, candidate := range ancestorsA {
		if _, ok := ancestorsB[h]; ok {
			common = append(common, candidate)
		}
	}

	// ancestorsA is a map, so its iteration order is randomized; sort before
	// Independents so ties among multiple lowest common ancestors resolve
	// the same way every run, by commit time then OID (§8).
	sort.Slice(common, func(i, j int) bool {
		ti, tj := common[i].Committer.When, common[j].Committer.When
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return bytes.Compare(common[i].Hash[:], common[j].Hash[:]) < 0
	})

	return Independents(common)
}

func ancestorsOf(c *Commit) (map[plumbing.Hash]*Commit, error) {
	result := make(map[plumbing.Hash]*Commit)
	iter := NewCommitPreorderIter(c, nil, nil)
	err := iter.ForEach(func(candidate *Commit) error {
		result[candidate.Hash] = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Independents filters commits down to those not reachable from any other
// commit in the set: duplicates collapse to one, and any commit that is an
// ancestor of another candidate is dropped.
func Independents(commits []*Commit) ([]*Commit, error) {
	seen := make(map[plumbing.Hash]*Commit)
	var uniq []*Commit
	for _, c := range commits {
		if _, ok := seen[c.Hash]; !ok {
			seen[c.Hash] = c
			uniq = append(uniq, c)
		}
	}

	var result []*Commit
	for i, c := range uniq {
		reachable := false
		for j, o := range uniq {
			if i == j {
				continue
			}
			ok, err := c.IsAncestor(o)
			if err != nil {
				return nil, err
			}
			if ok {
				reachable = true
				break
			}
		}
		if !reachable {
			result = append(result, c)
		}
	}

	return result, nil
}
