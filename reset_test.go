package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestResetSoftMovesOnlyHead(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})

	_, err := repo.Reset().Target(r1.Hash.String()).Mode(Soft).Call()
	require.NoError(t, err)

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, r1.Hash, head.Hash)

	e, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	assert.NotEqual(t, head.TreeHash, e.Hash, "soft reset must not touch the index")
}

func TestResetMixedRewritesIndex(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	c1, err := object.GetCommit(repo.Storer, r1.Hash)
	require.NoError(t, err)
	tree1, err := c1.Tree()
	require.NoError(t, err)
	f1, err := tree1.File("a.txt")
	require.NoError(t, err)

	commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})

	_, err = repo.Reset().Target(r1.Hash.String()).Mode(Mixed).Call()
	require.NoError(t, err)

	e, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	assert.Equal(t, f1.Hash, e.Hash, "mixed reset rewrites the index entry to the target tree's blob")

	mw := repo.Worktree.(*MemWorktree)
	assert.Equal(t, "two\n", string(mw.files["a.txt"]), "mixed reset leaves the worktree untouched")
}

func TestResetHardUpdatesWorktree(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})

	res, err := repo.Reset().Target(r1.Hash.String()).Mode(Hard).Call()
	require.NoError(t, err)
	require.NotNil(t, res.Result)

	mw := repo.Worktree.(*MemWorktree)
	assert.Equal(t, "one\n", string(mw.files["a.txt"]))
}

func TestResetDefaultsToHead(t *testing.T) {
	repo := newTestRepo(t)
	res1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	res, err := repo.Reset().Mode(Hard).Call()
	require.NoError(t, err)
	assert.Equal(t, res1.Hash, res.Hash)
}
