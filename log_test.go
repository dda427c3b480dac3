package vcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDescendingOrder(t *testing.T) {
	repo := newTestRepo(t)
	r1 := commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	r2 := commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})
	r3 := commitAll(t, repo, "third", map[string]string{"a.txt": "three\n"})

	commits, err := repo.Log().Call()
	require.NoError(t, err)
	require.Len(t, commits, 3)
	assert.Equal(t, r3.Hash, commits[0].Hash)
	assert.Equal(t, r2.Hash, commits[1].Hash)
	assert.Equal(t, r1.Hash, commits[2].Hash)
}

func TestLogMaxCountAndSkip(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	r2 := commitAll(t, repo, "second", map[string]string{"a.txt": "two\n"})
	commitAll(t, repo, "third", map[string]string{"a.txt": "three\n"})

	commits, err := repo.Log().Skip(1).MaxCount(1).Call()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, r2.Hash, commits[0].Hash)
}

func TestLogPathFilter(t *testing.T) {
	repo := newTestRepo(t)
	commitAll(t, repo, "first", map[string]string{"a.txt": "one\n"})
	r2 := commitAll(t, repo, "touches b", map[string]string{"b.txt": "two\n"})
	commitAll(t, repo, "touches a again", map[string]string{"a.txt": "ONE\n"})

	commits, err := repo.Log().Path("b.txt").Call()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, r2.Hash, commits[0].Hash)
}

func TestLogSinceUntil(t *testing.T) {
	repo := newTestRepo(t)
	early := testNow.Add(-2 * time.Hour)
	late := testNow.Add(2 * time.Hour)

	_, err := repo.Commit().Message("too early").At(early).AllowEmpty(true).Call()
	require.NoError(t, err)
	r2, err := repo.Commit().Message("in range").At(testNow).AllowEmpty(true).Call()
	require.NoError(t, err)
	_, err = repo.Commit().Message("too late").At(late).AllowEmpty(true).Call()
	require.NoError(t, err)

	commits, err := repo.Log().Since(testNow.Add(-time.Hour)).Until(testNow.Add(time.Hour)).Call()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, r2.Hash, commits[0].Hash)
}
