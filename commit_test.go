package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/object"
)

func TestCommitRoot(t *testing.T) {
	repo := newTestRepo(t)

	res := commitAll(t, repo, "initial", map[string]string{"a.txt": "one\n"})
	assert.False(t, res.Hash.IsZero())

	head, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, "initial", head.Message)
	assert.Equal(t, "Ada Lovelace", head.Author.Name)
	assert.Equal(t, 0, head.NumParents())
}

func TestCommitEmptyRejectedByDefault(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Commit().Message("nothing").At(testNow).Call()
	assert.ErrorIs(t, err, ErrEmptyCommit)
}

func TestCommitAllowEmpty(t *testing.T) {
	repo := newTestRepo(t)

	res, err := repo.Commit().Message("nothing").AllowEmpty(true).At(testNow).Call()
	require.NoError(t, err)
	assert.False(t, res.Hash.IsZero())
}

func TestCommitNoMessage(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Commit().At(testNow).Call()
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestCommitSecondParentsAndAmend(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	res2 := commitAll(t, repo, "second", map[string]string{"b.txt": "two\n"})
	c2, err := object.GetCommit(repo.Storer, res2.Hash)
	require.NoError(t, err)
	assert.Equal(t, 1, c2.NumParents())

	amended, err := repo.Commit().Message("second (amended)").Amend(true).At(testNow).Call()
	require.NoError(t, err)

	amendedCommit, err := object.GetCommit(repo.Storer, amended.Hash)
	require.NoError(t, err)
	assert.Equal(t, "second (amended)", amendedCommit.Message)
	assert.Equal(t, "Ada Lovelace", amendedCommit.Author.Name)
	assert.Equal(t, c2.ParentHashes, amendedCommit.ParentHashes)
}

func TestCommitOnlyAndAllMutuallyExclusive(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Commit().Message("x").Only("a.txt").All(true).At(testNow).Call()
	assert.ErrorIs(t, err, ErrInvalidMergeHeads)
}

func TestCommitOnlyRestrictsToGivenPaths(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	writeFile(t, repo, "b.txt", "TWO\n")
	_, err := repo.Add().Patterns("a.txt", "b.txt").Call()
	require.NoError(t, err)

	res, err := repo.Commit().Message("only a").Only("a.txt").At(testNow).Call()
	require.NoError(t, err)

	commit, err := object.GetCommit(repo.Storer, res.Hash)
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)

	fa, err := tree.File("a.txt")
	require.NoError(t, err)
	content, err := fa.Contents()
	require.NoError(t, err)
	assert.Equal(t, "ONE\n", content)

	fb, err := tree.File("b.txt")
	require.NoError(t, err)
	content, err = fb.Contents()
	require.NoError(t, err)
	assert.Equal(t, "two\n", content, "b.txt was staged but excluded by Only, so it keeps HEAD's content")
}

func TestCommitAllStagesTrackedModificationsAndDeletionsOnly(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})

	writeFile(t, repo, "a.txt", "ONE\n")
	mw := repo.Worktree.(*MemWorktree)
	delete(mw.files, "b.txt")
	writeFile(t, repo, "c.txt", "new and untracked\n")

	res, err := repo.Commit().Message("all").All(true).At(testNow).Call()
	require.NoError(t, err)

	commit, err := object.GetCommit(repo.Storer, res.Hash)
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)

	_, err = tree.File("b.txt")
	assert.Error(t, err, "b.txt was deleted from the worktree, so --all should have staged its removal")

	_, err = tree.File("c.txt")
	assert.Error(t, err, "c.txt was never tracked, so --all must not stage it")

	fa, err := tree.File("a.txt")
	require.NoError(t, err)
	content, err := fa.Contents()
	require.NoError(t, err)
	assert.Equal(t, "ONE\n", content)
}

func TestCommitAuthorOverride(t *testing.T) {
	repo := newTestRepo(t)
	writeFile(t, repo, "a.txt", "one\n")
	_, err := repo.Add().Patterns("a.txt").Call()
	require.NoError(t, err)

	res, err := repo.Commit().Message("x").Author(sig("Bob", testNow)).At(testNow).Call()
	require.NoError(t, err)

	commit, err := object.GetCommit(repo.Storer, res.Hash)
	require.NoError(t, err)
	assert.Equal(t, "Bob", commit.Author.Name)
	assert.Equal(t, commit.Author, commit.Committer, "Committer defaults to Author when unset")
}

func TestCommitRefusesUnresolvedConflicts(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	entry, err := repo.Index.Entry("a.txt")
	require.NoError(t, err)
	repo.Index.Entries = append(repo.Index.Entries,
		&index.Entry{Name: "a.txt", Stage: index.OurMode, Hash: entry.Hash, Mode: entry.Mode},
		&index.Entry{Name: "a.txt", Stage: index.TheirMode, Hash: entry.Hash, Mode: entry.Mode},
	)

	_, err = repo.Commit().Message("x").At(testNow).Call()
	assert.ErrorIs(t, err, ErrUnresolvedConflicts)
}

func TestCommitAlreadyCalled(t *testing.T) {
	repo := newTestRepo(t)
	cmd := repo.Commit().Message("x").AllowEmpty(true).At(testNow)
	_, err := cmd.Call()
	require.NoError(t, err)

	_, err = cmd.Call()
	assert.ErrorIs(t, err, ErrAlreadyCalled)

	cmd.Message("y")
	_, err = cmd.Call()
	assert.ErrorIs(t, err, ErrAlreadyCalled)
}
