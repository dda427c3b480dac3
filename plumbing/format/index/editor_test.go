package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorFinishAppliesAllOps(t *testing.T) {
	idx := NewIndex()
	idx.Add("keep.txt")

	err := idx.Editor().
		Add("a.txt", func(e *Entry) { e.Size = 1 }).
		Remove("keep.txt").
		Stage("conflict.txt", OurMode, func(e *Entry) { e.Size = 2 }).
		Finish()
	require.NoError(t, err)

	_, err = idx.Entry("keep.txt")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	a, err := idx.Entry("a.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.Size)

	ours, err := idx.StageEntry("conflict.txt", OurMode)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ours.Size)
}

func TestEditorFinishLeavesIndexUntouchedOnFailure(t *testing.T) {
	idx := NewIndex()
	idx.Add("a.txt")
	before := append([]*Entry(nil), idx.Entries...)

	wantErr := errors.New("boom")
	err := idx.Editor().
		Add("b.txt", nil).
		Do(func(*Index) error { return wantErr }).
		Finish()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, before, idx.Entries, "a failed op must leave the index exactly as it was")

	_, err = idx.Entry("b.txt")
	assert.ErrorIs(t, err, ErrEntryNotFound, "b.txt must not have been staged once the batch failed")
}
