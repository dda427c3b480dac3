package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCleanAfterCommit(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	status, err := repo.Status().Call()
	require.NoError(t, err)
	assert.True(t, status.IsClean())
}

func TestStatusStagedAndUnstagedAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})

	// a.txt: staged edit only.
	writeFile(t, repo, "a.txt", "ONE\n")
	_, err := repo.Add().Patterns("a.txt").Call()
	require.NoError(t, err)

	// b.txt: staged edit, then a further unstaged edit on top.
	writeFile(t, repo, "b.txt", "TWO\n")
	_, err = repo.Add().Patterns("b.txt").Call()
	require.NoError(t, err)
	writeFile(t, repo, "b.txt", "TWO-AGAIN\n")

	// c.txt: untracked, never staged.
	writeFile(t, repo, "c.txt", "new\n")

	status, err := repo.Status().Call()
	require.NoError(t, err)

	a := status.File("a.txt")
	assert.Equal(t, Modified, a.Staging)
	assert.Equal(t, Unmodified, a.Worktree)

	b := status.File("b.txt")
	assert.Equal(t, Modified, b.Staging)
	assert.Equal(t, Modified, b.Worktree)

	c := status.File("c.txt")
	assert.Equal(t, Unmodified, c.Staging)
	assert.Equal(t, Untracked, c.Worktree)
}

func TestStatusDeletedFromWorktreeOnly(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	mw := repo.Worktree.(*MemWorktree)
	delete(mw.files, "a.txt")

	status, err := repo.Status().Call()
	require.NoError(t, err)

	a := status.File("a.txt")
	assert.Equal(t, Unmodified, a.Staging)
	assert.Equal(t, Deleted, a.Worktree)
}

func TestStatusAddedPathIsStagedBeforeCommit(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	writeFile(t, repo, "new.txt", "hello\n")
	_, err := repo.Add().Patterns("new.txt").Call()
	require.NoError(t, err)

	status, err := repo.Status().Call()
	require.NoError(t, err)

	n := status.File("new.txt")
	assert.Equal(t, Added, n.Staging)
	assert.Equal(t, Unmodified, n.Worktree)
}

func TestStatusCallTwiceErrors(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	cmd := repo.Status()
	_, err := cmd.Call()
	require.NoError(t, err)

	_, err = cmd.Call()
	assert.ErrorIs(t, err, ErrAlreadyCalled)
}
