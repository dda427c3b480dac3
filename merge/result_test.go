package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

func commitWith(t *testing.T, s *memory.Storage, treeHash plumbing.Hash, parents ...plumbing.Hash) *object.Commit {
	t.Helper()
	c := &object.Commit{
		Message:      "msg",
		TreeHash:     treeHash,
		ParentHashes: parents,
	}
	c.Author.Name, c.Author.Email = "tester", "tester@example.com"
	c.Author.When = time.Unix(0, 0).UTC()
	c.Committer = c.Author

	obj := s.NewEncodedObject()
	require.NoError(t, c.Encode(obj))
	h, err := s.SetEncodedObject(obj)
	require.NoError(t, err)

	got, err := object.GetCommit(s, h)
	require.NoError(t, err)
	return got
}

func TestMergeAlreadyUpToDate(t *testing.T) {
	s := memory.NewStorage()
	root := tree(t, s)
	c1 := commitWith(t, s, root.Hash)
	c2 := commitWith(t, s, root.Hash, c1.Hash)

	res, err := Merge(s, c2, c1, CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, AlreadyUpToDate, res.Status)
}

func TestMergeFastForward(t *testing.T) {
	s := memory.NewStorage()
	root := tree(t, s)
	c1 := commitWith(t, s, root.Hash)
	c2 := commitWith(t, s, root.Hash, c1.Hash)

	res, err := Merge(s, c1, c2, CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, FastForward, res.Status)
	assert.Equal(t, c2.Hash, res.Commit)
}

func TestMergeCreatesMergeCommit(t *testing.T) {
	s := memory.NewStorage()

	baseFile := blob(t, s, "one\ntwo\n")
	base := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: baseFile})
	root := commitWith(t, s, base.Hash)

	oursFile := blob(t, s, "ONE\ntwo\n")
	oursTree := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: oursFile})
	ours := commitWith(t, s, oursTree.Hash, root.Hash)

	theirsFile := blob(t, s, "one\nTWO\n")
	theirsTree := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: theirsFile})
	theirs := commitWith(t, s, theirsTree.Hash, root.Hash)

	res, err := Merge(s, ours, theirs, CommitOptions{
		Message: "merge theirs into ours",
		Now:     time.Unix(100, 0).UTC(),
	})
	require.NoError(t, err)
	require.Equal(t, Merged, res.Status)
	assert.Empty(t, res.Conflicts)

	merged, err := object.GetCommit(s, res.Commit)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{ours.Hash, theirs.Hash}, merged.ParentHashes)
}

func TestMergeConflicting(t *testing.T) {
	s := memory.NewStorage()

	baseFile := blob(t, s, "line\n")
	base := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: baseFile})
	root := commitWith(t, s, base.Hash)

	oursFile := blob(t, s, "ours\n")
	oursTree := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: oursFile})
	ours := commitWith(t, s, oursTree.Hash, root.Hash)

	theirsFile := blob(t, s, "theirs\n")
	theirsTree := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: theirsFile})
	theirs := commitWith(t, s, theirsTree.Hash, root.Hash)

	res, err := Merge(s, ours, theirs, CommitOptions{Now: time.Unix(100, 0).UTC()})
	require.NoError(t, err)
	assert.Equal(t, Conflicting, res.Status)
	assert.Len(t, res.Conflicts, 1)
}
