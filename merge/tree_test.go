package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

func blob(t *testing.T, s *memory.Storage, content string) plumbing.Hash {
	t.Helper()
	h, err := writeBlob(s, []byte(content))
	require.NoError(t, err)
	return h
}

func tree(t *testing.T, s *memory.Storage, entries ...object.TreeEntry) *object.Tree {
	t.Helper()
	tr := &object.Tree{Entries: entries}
	obj := s.NewEncodedObject()
	require.NoError(t, tr.Encode(obj))
	h, err := s.SetEncodedObject(obj)
	require.NoError(t, err)
	got, err := object.GetTree(s, h)
	require.NoError(t, err)
	return got
}

func TestMergeTreesNonConflicting(t *testing.T) {
	s := memory.NewStorage()

	baseFile := blob(t, s, "one\ntwo\nthree\n")
	oursFile := blob(t, s, "one\nTWO\nthree\n")
	theirsFile := blob(t, s, "one\ntwo\nTHREE\n")

	base := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: baseFile})
	ours := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: oursFile})
	theirs := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: theirsFile})

	h, conflicts, err := MergeTrees(s, base, ours, theirs, Options{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	merged, err := object.GetTree(s, h)
	require.NoError(t, err)
	entry, err := merged.TreeEntry("a.txt")
	require.NoError(t, err)

	content, err := blobContentFromEntry(s, entry)
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nTHREE\n", content)
}

func TestMergeTreesAddedOnBothSidesDisjoint(t *testing.T) {
	s := memory.NewStorage()

	base := tree(t, s)
	oursFile := blob(t, s, "ours only\n")
	theirsFile := blob(t, s, "theirs only\n")
	ours := tree(t, s, object.TreeEntry{Name: "ours.txt", Mode: filemode.Regular, Hash: oursFile})
	theirs := tree(t, s, object.TreeEntry{Name: "theirs.txt", Mode: filemode.Regular, Hash: theirsFile})

	h, conflicts, err := MergeTrees(s, base, ours, theirs, Options{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	merged, err := object.GetTree(s, h)
	require.NoError(t, err)
	assert.Len(t, merged.Entries, 2)
}

func TestMergeTreesModifyDeleteConflict(t *testing.T) {
	s := memory.NewStorage()

	baseFile := blob(t, s, "content\n")
	base := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: baseFile})
	ours := tree(t, s) // ours deleted a.txt

	theirsFile := blob(t, s, "modified\n")
	theirs := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: theirsFile})

	_, conflicts, err := MergeTrees(s, base, ours, theirs, Options{})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "modify/delete", conflicts[0].Reason)
	assert.Equal(t, "a.txt", conflicts[0].Path)
}

func TestMergeTreesContentConflictMarkers(t *testing.T) {
	s := memory.NewStorage()

	baseFile := blob(t, s, "line\n")
	oursFile := blob(t, s, "ours-line\n")
	theirsFile := blob(t, s, "theirs-line\n")

	base := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: baseFile})
	ours := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: oursFile})
	theirs := tree(t, s, object.TreeEntry{Name: "a.txt", Mode: filemode.Regular, Hash: theirsFile})

	h, conflicts, err := MergeTrees(s, base, ours, theirs, Options{})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "content", conflicts[0].Reason)

	merged, err := object.GetTree(s, h)
	require.NoError(t, err)
	entry, err := merged.TreeEntry("a.txt")
	require.NoError(t, err)
	content, err := blobContentFromEntry(s, entry)
	require.NoError(t, err)
	assert.Contains(t, content, "<<<<<<< ours")
}
