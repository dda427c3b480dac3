package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRmNoPatterns(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Rm().Call()
	assert.ErrorIs(t, err, ErrNoFilepattern)
}

func TestRmRemovesFromIndexAndWorktree(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	res, err := repo.Rm().Patterns("a.txt").Call()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Removed)

	_, err = repo.Index.Entry("a.txt")
	assert.Error(t, err)

	mw := repo.Worktree.(*MemWorktree)
	assert.False(t, mw.Exists("a.txt"))
}

func TestRmCachedLeavesWorktree(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	_, err := repo.Rm().Patterns("a.txt").Cached(true).Call()
	require.NoError(t, err)

	_, err = repo.Index.Entry("a.txt")
	assert.Error(t, err)

	mw := repo.Worktree.(*MemWorktree)
	assert.True(t, mw.Exists("a.txt"))
}

func TestRmNoMatchIsNotAnError(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	res, err := repo.Rm().Patterns("nope-*.txt").Call()
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
}
