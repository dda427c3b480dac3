package vcs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/merge"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestRevertUndoesACleanChange(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n"})
	toRevert := commitAll(t, repo, "oops", map[string]string{"a.txt": "OOPS\n"})

	res, err := repo.Revert().Commits(toRevert.Hash.String()).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Merged, res.Status)
	require.Len(t, res.Applied, 1)

	newCommit, err := object.GetCommit(repo.Storer, res.Applied[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(newCommit.Message, `Revert "oops"`))
	assert.Contains(t, newCommit.Message, toRevert.Hash.String())

	tree, err := newCommit.Tree()
	require.NoError(t, err)
	f, err := tree.File("a.txt")
	require.NoError(t, err)
	content, err := f.Contents()
	require.NoError(t, err)
	assert.Equal(t, "one\n", content)
}

func TestRevertRootCommitHasEmptyTheirsSide(t *testing.T) {
	repo := newTestRepo(t)
	root := commitAll(t, repo, "root", map[string]string{"a.txt": "one\n"})

	res, err := repo.Revert().Commits(root.Hash.String()).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Merged, res.Status)

	newCommit, err := object.GetCommit(repo.Storer, res.Applied[0])
	require.NoError(t, err)
	tree, err := newCommit.Tree()
	require.NoError(t, err)
	assert.Empty(t, tree.Entries, "reverting the root commit must leave an empty tree")
}

func TestRevertConflict(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "base", map[string]string{"a.txt": "one\n"})
	toRevert := commitAll(t, repo, "change", map[string]string{"a.txt": "CHANGE\n"})
	commitAll(t, repo, "further edit", map[string]string{"a.txt": "FURTHER\n"})

	res, err := repo.Revert().Commits(toRevert.Hash.String()).At(testNow).Call()
	require.NoError(t, err)
	assert.Equal(t, merge.Conflicting, res.Status)
	assert.NotEmpty(t, res.Conflicts)
}
