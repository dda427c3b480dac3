package index

import (
	"bytes"
	"testing"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntryRemove(t *testing.T) {
	idx := NewIndex()
	e := idx.Add("a/b.txt")
	e.Hash = plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	e.Mode = filemode.Regular

	got, err := idx.Entry("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, e.Hash, got.Hash)

	removed, err := idx.Remove("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, e.Hash, removed.Hash)

	_, err = idx.Entry("a/b.txt")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUnmergedStages(t *testing.T) {
	idx := NewIndex()
	idx.Entries = append(idx.Entries,
		&Entry{Name: "conflict.txt", Stage: AncestorMode},
		&Entry{Name: "conflict.txt", Stage: OurMode},
		&Entry{Name: "conflict.txt", Stage: TheirMode},
	)
	assert.True(t, idx.Unmerged())

	ours, err := idx.StageEntry("conflict.txt", OurMode)
	require.NoError(t, err)
	assert.Equal(t, OurMode, ours.Stage)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	idx := NewIndex()
	e := idx.Add("dir/file.go")
	e.Hash = plumbing.NewHash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	e.Mode = filemode.Regular
	e.Size = 42
	e.CreatedAt = time.Unix(1000, 500).UTC()
	e.ModifiedAt = time.Unix(2000, 700).UTC()

	idx.Cache = &Tree{Entries: []TreeEntry{
		{Path: "", Entries: 1, Trees: 1, Hash: plumbing.NewHash("cccccccccccccccccccccccccccccccccccccccc")},
		{Path: "dir", Entries: 1, Trees: 0, Hash: plumbing.NewHash("dddddddddddddddddddddddddddddddddddddddd")},
	}}

	buf := &bytes.Buffer{}
	require.NoError(t, NewEncoder(buf).Encode(idx))

	got := &Index{}
	require.NoError(t, NewDecoder(bytes.NewReader(buf.Bytes())).Decode(got))

	require.Len(t, got.Entries, 1)
	assert.Equal(t, e.Hash, got.Entries[0].Hash)
	assert.Equal(t, e.Name, got.Entries[0].Name)
	assert.Equal(t, e.Size, got.Entries[0].Size)
	assert.Equal(t, e.Mode, got.Entries[0].Mode)

	require.NotNil(t, got.Cache)
	require.Len(t, got.Cache.Entries, 2)
	assert.Equal(t, "dir", got.Cache.Entries[1].Path)
	assert.Equal(t, 1, got.Cache.Entries[1].Entries)
}
