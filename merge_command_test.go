package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestMergeFastForward(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	res2 := commitAll(t, repo, "second", map[string]string{"b.txt": "two\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)

	res, err := repo.Merge().Include("feature").At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.FastForward, res.Status)
	assert.Equal(t, res2.Hash, res.Commit)

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, res2.Hash, head.Hash)
}

func TestMergeThreeWayClean(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on feature", map[string]string{"b.txt": "TWO\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on master", map[string]string{"a.txt": "ONE\n"})

	res, err := repo.Merge().Include("feature").At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Merged, res.Status)

	commit, err := object.GetCommit(repo.Storer, res.Commit)
	require.NoError(t, err)
	assert.Len(t, commit.ParentHashes, 2)
}

func TestMergeConflictingStopsAndPopulatesIndex(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on feature", map[string]string{"a.txt": "FEATURE\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on master", map[string]string{"a.txt": "MASTER\n"})

	res, err := repo.Merge().Include("feature").At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Conflicting, res.Status)
	assert.NotEmpty(t, res.Conflicts)

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, "on master", head.Message, "a conflicting merge must not move HEAD")
}

func TestMergeContentStrategyUnionAvoidsConflict(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "a\nb\nc\n"})
	_, err := repo.BranchCreate().Name("feature").Call()
	require.NoError(t, err)

	_, err = repo.Checkout().Branch("feature").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on feature", map[string]string{"a.txt": "a\nY\nc\n"})

	_, err = repo.Checkout().Branch("master").Call()
	require.NoError(t, err)
	commitAll(t, repo, "on master", map[string]string{"a.txt": "a\nZ\nc\n"})

	res, err := repo.Merge().Include("feature").ContentStrategy(merge.ContentUnion).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Merged, res.Status)

	commit, err := object.GetCommit(repo.Storer, res.Commit)
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)
	f, err := tree.File("a.txt")
	require.NoError(t, err)
	content, err := f.Contents()
	require.NoError(t, err)
	assert.Equal(t, "a\nZ\nY\nc\n", content)
}

func TestMergeNoIncludes(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	_, err := repo.Merge().Call()
	assert.ErrorIs(t, err, ErrInvalidMergeHeads)
}
