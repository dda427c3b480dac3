package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestCherryPickAppliesCleanChange(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	picked := commitAll(t, repo, "feature change", map[string]string{"b.txt": "TWO\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	commitAll(t, repo, "unrelated master change", map[string]string{"a.txt": "ONE\n"})

	res, err := repo.CherryPick().Commits(picked.Hash.String()).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Merged, res.Status)
	require.Len(t, res.Applied, 1)

	newCommit, err := object.GetCommit(repo.Storer, res.Applied[0])
	require.NoError(t, err)
	assert.Equal(t, "feature change", newCommit.Message)
	assert.Len(t, newCommit.ParentHashes, 1, "cherry-pick records a single-parent commit, not a merge")

	tree, err := newCommit.Tree()
	require.NoError(t, err)
	fb, err := tree.File("b.txt")
	require.NoError(t, err)
	content, err := fb.Contents()
	require.NoError(t, err)
	assert.Equal(t, "TWO\n", content)
	fa, err := tree.File("a.txt")
	require.NoError(t, err)
	content, err = fa.Contents()
	require.NoError(t, err)
	assert.Equal(t, "ONE\n", content, "the unrelated master change survives the cherry-pick")
}

func TestCherryPickNoCommitLeavesHeadAlone(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	picked := commitAll(t, repo, "feature change", map[string]string{"a.txt": "ONE\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	headBefore, err := repo.HeadCommit()
	require.NoError(t, err)

	res, err := repo.CherryPick().Commits(picked.Hash.String()).NoCommit(true).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.MergedNotCommitted, res.Status)

	headAfter, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, headBefore.Hash, headAfter.Hash)

	e, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, e.Hash)
}

func TestCherryPickConflict(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	picked := commitAll(t, repo, "feature change", map[string]string{"a.txt": "FEATURE\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	commitAll(t, repo, "master change", map[string]string{"a.txt": "MASTER\n"})

	res, err := repo.CherryPick().Commits(picked.Hash.String()).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Conflicting, res.Status)
	assert.NotEmpty(t, res.Conflicts)
}
