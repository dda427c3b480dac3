package vcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/config"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

// newTestRepo returns an initialized repository over a fresh in-memory
// store, with a MemWorktree attached.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	s := memory.NewStorage()
	cfg := config.NewConfig()
	cfg.Author.Name = "Ada Lovelace"
	cfg.Author.Email = "ada@example.com"
	repo, err := Init(s, cfg)
	require.NoError(t, err)
	repo.Worktree = NewMemWorktree(s)
	return repo
}

// writeFile writes content directly into the attached MemWorktree, without
// staging it.
func writeFile(t *testing.T, repo *Repository, path, content string) {
	t.Helper()
	mw := repo.Worktree.(*MemWorktree)
	mw.files[path] = []byte(content)
}

func sig(name string, when time.Time) object.Signature {
	return object.Signature{Name: name, Email: name + "@example.com", When: when}
}

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// commitAll writes every given path/content, adds it, and commits with msg,
// returning the commit's CommitResult.
func commitAll(t *testing.T, repo *Repository, msg string, files map[string]string) *CommitResult {
	t.Helper()
	var patterns []string
	for path, content := range files {
		writeFile(t, repo, path, content)
		patterns = append(patterns, path)
	}
	if len(patterns) > 0 {
		_, err := repo.Add().Patterns(patterns...).Call()
		require.NoError(t, err)
	}
	res, err := repo.Commit().Message(msg).At(testNow).Call()
	require.NoError(t, err)
	return res
}
