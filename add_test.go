package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
)

func TestAddNoPatterns(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Add().Call()
	assert.ErrorIs(t, err, ErrNoFilepattern)
}

func TestAddStagesMatchingPaths(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo, "a.txt", "one\n")
	writeFile(t, repo, "dir/b.txt", "two\n")
	writeFile(t, repo, "other.md", "ignore me\n")

	res, err := repo.Add().Patterns("*.txt", "dir").Call()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "dir/b.txt"}, res.Added)

	e, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	assert.False(t, e.Hash.IsZero())
}

func TestAddDotMatchesEverything(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo, "a.txt", "one\n")
	writeFile(t, repo, "dir/b.txt", "two\n")

	res, err := repo.Add().Patterns(".").Call()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "dir/b.txt"}, res.Added)
}

func TestAddRespectsIgnoreUnlessForced(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo, "secret.env", "token\n")
	mw := repo.Worktree.(*MemWorktree)
	mw.Ignore("secret.env")

	res, err := repo.Add().Patterns("secret.env").Call()
	require.NoError(t, err)
	assert.Empty(t, res.Added)

	res, err = repo.Add().Patterns("secret.env").Force(true).Call()
	require.NoError(t, err)
	assert.Equal(t, []string{"secret.env"}, res.Added)
}

func TestAddUpdateSkipsNewFiles(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	writeFile(t, repo, "b.txt", "new\n")

	res, err := repo.Add().Patterns(".").Update(true).Call()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Added)
}

func TestAddIntentToAddStagesPlaceholder(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo, "a.txt", "one\n")

	res, err := repo.Add().Patterns("a.txt").IntentToAdd(true).Call()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Added)

	e, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	assert.Equal(t, plumbing.ZeroHash, e.Hash)
}

func TestAddAllStagesDeletions(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})

	mw := repo.Worktree.(*MemWorktree)
	delete(mw.files, "b.txt")

	res, err := repo.Add().Patterns(".").All(true).Call()
	require.NoError(t, err)
	assert.Contains(t, res.Removed, "b.txt")

	_, err = repo.Index.Entry("b.txt")
	assert.Error(t, err)
}

func TestAddNoWorktree(t *testing.T) {
	repo := newTestRepo(t)
	repo.Worktree = nil
	_, err := repo.Add().Patterns(".").Call()
	assert.ErrorIs(t, err, ErrNoFilepattern)
}
