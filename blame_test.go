package vcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitAt writes path/content and commits at t, so successive calls carry
// distinct, increasing timestamps (commitAll pins every commit to the same
// testNow, which isn't enough to exercise blame's oldest-first ordering).
func commitAt(t *testing.T, repo *Repository, msg string, files map[string]string, at time.Time) *CommitResult {
	t.Helper()
	var patterns []string
	for path, content := range files {
		writeFile(t, repo, path, content)
		patterns = append(patterns, path)
	}
	_, err := repo.Add().Patterns(patterns...).Call()
	require.NoError(t, err)
	res, err := repo.Commit().Message(msg).At(at).Call()
	require.NoError(t, err)
	return res
}

func TestBlameAttributesLinesToTheirIntroducingCommit(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAt(t, repo, "first", map[string]string{"a.txt": "one\ntwo\nthree\n"}, testNow)
	r2 := commitAt(t, repo, "second", map[string]string{"a.txt": "one\nTWO\nthree\nfour\n"}, testNow.Add(time.Hour))

	res, err := repo.Blame().Path("a.txt").Call()
	require.NoError(t, err)
	require.Len(t, res.Lines, 4)

	assert.Equal(t, "one", res.Lines[0].Text)
	assert.Equal(t, r1.Hash, res.Lines[0].Commit.Hash)

	assert.Equal(t, "TWO", res.Lines[1].Text)
	assert.Equal(t, r2.Hash, res.Lines[1].Commit.Hash)

	assert.Equal(t, "three", res.Lines[2].Text)
	assert.Equal(t, r1.Hash, res.Lines[2].Commit.Hash)

	assert.Equal(t, "four", res.Lines[3].Text)
	assert.Equal(t, r2.Hash, res.Lines[3].Commit.Hash)
}

func TestBlameRequiresPath(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})

	_, err := repo.Blame().Call()
	assert.ErrorIs(t, err, ErrNoFilepattern)
}

func TestBlameSingleRevisionAttributesEveryLineToIt(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "only", map[string]string{"a.txt": "one\ntwo\n"})

	res, err := repo.Blame().Path("a.txt").Call()
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	for _, line := range res.Lines {
		assert.Equal(t, r1.Hash, line.Commit.Hash)
	}
}
