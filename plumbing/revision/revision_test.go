package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

func addCommit(t *testing.T, s *memory.Storage, msg string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()

	c := &object.Commit{
		Message:      msg,
		TreeHash:     plumbing.ZeroHash,
		ParentHashes: parents,
	}
	c.Author.Name, c.Author.Email = "tester", "tester@example.com"
	c.Committer = c.Author

	obj := s.NewEncodedObject()
	require.NoError(t, c.Encode(obj))
	h, err := s.SetEncodedObject(obj)
	require.NoError(t, err)
	return h
}

func TestResolveHashPrefix(t *testing.T) {
	s := memory.NewStorage()
	root := addCommit(t, s, "root")
	child := addCommit(t, s, "child", root)

	got, err := Resolve(s, child.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, child, got)

	got, err = Resolve(s, child.String())
	require.NoError(t, err)
	assert.Equal(t, child, got)
}

func TestResolveShorthandRef(t *testing.T) {
	s := memory.NewStorage()
	root := addCommit(t, s, "root")

	require.NoError(t, s.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), root)))
	require.NoError(t, s.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))))

	got, err := Resolve(s, "main")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = Resolve(s, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestResolveParentAndAncestorSuffixes(t *testing.T) {
	s := memory.NewStorage()
	root := addCommit(t, s, "root")
	mid := addCommit(t, s, "mid", root)
	tip := addCommit(t, s, "tip", mid)

	require.NoError(t, s.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), tip)))

	got, err := Resolve(s, "main^")
	require.NoError(t, err)
	assert.Equal(t, mid, got)

	got, err = Resolve(s, "main~2")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = Resolve(s, "main^1")
	require.NoError(t, err)
	assert.Equal(t, mid, got)
}

func TestResolveInvalidAndMissing(t *testing.T) {
	s := memory.NewStorage()
	addCommit(t, s, "root")

	_, err := Resolve(s, "zz")
	assert.Error(t, err)

	_, err = Resolve(s, "deadbeef")
	assert.ErrorIs(t, err, plumbing.ErrObjectNotFound)

	_, err = Resolve(s, "nonexistent-branch")
	assert.Error(t, err)
}
