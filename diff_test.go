package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestDiffWorktreeAgainstHead(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	mw := repo.Worktree.(*MemWorktree)
	delete(mw.files, "b.txt")
	writeFile(t, repo, "c.txt", "new\n")

	res, err := repo.Diff().Call()
	require.NoError(t, err)

	byPath := map[string]object.Action{}
	for _, ch := range res.Changes {
		byPath[ch.Path()] = ch.Action()
	}
	assert.Equal(t, object.Modify, byPath["a.txt"])
	assert.Equal(t, object.Delete, byPath["b.txt"])
	assert.Equal(t, object.Insert, byPath["c.txt"])
}

func TestDiffCachedAgainstIndex(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	_, err := repo.Add().Patterns("a.txt").Call()
	require.NoError(t, err)

	// Worktree now also differs from the index (further edit after staging).
	writeFile(t, repo, "a.txt", "ONE-EDITED\n")

	res, err := repo.Diff().Cached(true).Call()
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "a.txt", res.Changes[0].Path())
}

func TestDiffPathFilter(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "dir/b.txt": "two\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	writeFile(t, repo, "dir/b.txt", "TWO\n")

	res, err := repo.Diff().Path("dir").Call()
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "dir/b.txt", res.Changes[0].Path())
}

func TestDiffExplicitTrees(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	r2 := commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})

	c1, err := object.GetCommit(repo.Storer, r1.Hash)
	require.NoError(t, err)
	c2, err := object.GetCommit(repo.Storer, r2.Hash)
	require.NoError(t, err)

	res, err := repo.Diff().OldTree(c1.TreeHash).NewTree(c2.TreeHash).Call()
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, object.Modify, res.Changes[0].Action())
}
