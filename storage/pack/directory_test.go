package pack

import (
	"testing"

	billymemfs "github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
)

func newBlob(content string) plumbing.EncodedObject {
	obj := &plumbing.MemoryObject{}
	obj.SetType(plumbing.BlobObject)
	w, _ := obj.Writer()
	w.Write([]byte(content))
	w.Close()
	return obj
}

func packOf(t *testing.T, objs ...plumbing.EncodedObject) *FlushResult {
	t.Helper()
	pp := NewPendingPack(0, 0)
	for _, o := range objs {
		pp.Add(o)
	}
	result, err := pp.Flush()
	require.NoError(t, err)
	return result
}

func TestDirectoryAddAndLoad(t *testing.T) {
	fs := billymemfs.New()
	require.NoError(t, fs.MkdirAll("objects/pack", 0o755))

	dir := NewDirectory(fs, "objects/pack", nil)
	require.NoError(t, dir.Scan())

	blob := newBlob("hello from a pack\n")
	result := packOf(t, blob)
	require.NoError(t, dir.AddPack(result.PackName, result.PackData, result.IndexData))

	assert.True(t, dir.Has(blob.Hash()))

	got, err := dir.EncodedObject(plumbing.BlobObject, blob.Hash())
	require.NoError(t, err)
	assert.Equal(t, blob.Size(), got.Size())

	info, err := dir.GetDeltaChainInfo(blob.Hash())
	require.NoError(t, err)
	assert.Equal(t, 0, info.Depth)
	assert.Contains(t, info.Packs, result.PackName)
}

func TestDirectoryMissingObject(t *testing.T) {
	fs := billymemfs.New()
	require.NoError(t, fs.MkdirAll("objects/pack", 0o755))
	dir := NewDirectory(fs, "objects/pack", nil)
	require.NoError(t, dir.Scan())

	assert.False(t, dir.Has(plumbing.NewHash("0000000000000000000000000000000000000001")))
	_, err := dir.EncodedObject(plumbing.AnyObject, plumbing.NewHash("0000000000000000000000000000000000000001"))
	assert.ErrorIs(t, err, plumbing.ErrObjectNotFound)
}

func TestConsolidateMergesPacksAndPreservesObjects(t *testing.T) {
	fs := billymemfs.New()
	require.NoError(t, fs.MkdirAll("objects/pack", 0o755))
	dir := NewDirectory(fs, "objects/pack", nil)
	require.NoError(t, dir.Scan())

	var blobs []plumbing.EncodedObject
	for i := 0; i < 5; i++ {
		b := newBlob(string(rune('a' + i)))
		blobs = append(blobs, b)
		result := packOf(t, b)
		require.NoError(t, dir.AddPack(result.PackName, result.PackData, result.IndexData))
	}

	c := NewConsolidator(dir)
	c.MinPackSize = 0 // treat every pack as a candidate regardless of size
	var calls int
	require.NoError(t, c.Consolidate(func(processed, total int) {
		calls++
		assert.LessOrEqual(t, processed, total)
	}))
	assert.Greater(t, calls, 0)

	for _, b := range blobs {
		assert.True(t, dir.Has(b.Hash()))
	}

	infos := dir.packInfos()
	assert.Len(t, infos, 1, "consolidation should have left exactly one pack")
}
