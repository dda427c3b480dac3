package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

// commitBuilder writes a small, linear-or-branching DAG of commits into an
// in-memory storer, one commit at a time, so MergeBase/IsAncestor can be
// exercised without round-tripping through a full repository.
type commitBuilder struct {
	t    *testing.T
	s    *memory.Storage
	base time.Time
	n    int
}

func newCommitBuilder(t *testing.T) *commitBuilder {
	return &commitBuilder{t: t, s: memory.NewStorage(), base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (b *commitBuilder) commit(when time.Time, parents ...*Commit) *Commit {
	b.n++
	var parentHashes []plumbing.Hash
	for _, p := range parents {
		parentHashes = append(parentHashes, p.Hash)
	}

	sig := Signature{Name: "tester", Email: "tester@example.com", When: when}
	c := &Commit{
		Author:       sig,
		Committer:    sig,
		Message:      "commit",
		TreeHash:     plumbing.ZeroHash,
		ParentHashes: parentHashes,
		s:            b.s,
	}

	obj := b.s.NewEncodedObject()
	require.NoError(b.t, c.Encode(obj))
	h, err := b.s.SetEncodedObject(obj)
	require.NoError(b.t, err)

	got, err := GetCommit(b.s, h)
	require.NoError(b.t, err)
	return got
}

func TestIsAncestorReachableThroughParents(t *testing.T) {
	b := newCommitBuilder(t)
	root := b.commit(b.base)
	mid := b.commit(b.base.Add(time.Hour), root)
	tip := b.commit(b.base.Add(2*time.Hour), mid)

	ok, err := root.IsAncestor(tip)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tip.IsAncestor(root)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = root.IsAncestor(root)
	require.NoError(t, err)
	assert.True(t, ok, "a commit is its own ancestor")
}

func TestMergeBaseSingleCommonAncestor(t *testing.T) {
	b := newCommitBuilder(t)
	root := b.commit(b.base)
	featureTip := b.commit(b.base.Add(time.Hour), root)
	masterTip := b.commit(b.base.Add(2*time.Hour), root)

	bases, err := masterTip.MergeBase(featureTip)
	require.NoError(t, err)
	require.Len(t, bases, 1)
	assert.Equal(t, root.Hash, bases[0].Hash)
}

func TestMergeBaseDisjointHistoryIsEmpty(t *testing.T) {
	b := newCommitBuilder(t)
	a := b.commit(b.base)
	c := b.commit(b.base.Add(time.Hour))

	bases, err := a.MergeBase(c)
	require.NoError(t, err)
	assert.Empty(t, bases)
}

// TestMergeBaseCrissCrossTieBreaksByCommitTimeThenHash builds a criss-cross
// merge (two candidate lowest-common-ancestors, neither reachable from the
// other) and checks the result order is deterministic: by committer time,
// then by hash, never by map-iteration order.
func TestMergeBaseCrissCrossTieBreaksByCommitTimeThenHash(t *testing.T) {
	b := newCommitBuilder(t)
	root := b.commit(b.base)
	x := b.commit(b.base.Add(time.Hour), root)
	y := b.commit(b.base.Add(time.Hour), root)

	// Criss-cross: each side merges the other's line, producing two
	// incomparable common ancestors (x and y) for a later merge of left/right.
	left := b.commit(b.base.Add(2*time.Hour), x, y)
	right := b.commit(b.base.Add(2*time.Hour), y, x)

	var bases []*Commit
	var err error
	for i := 0; i < 20; i++ {
		bases, err = left.MergeBase(right)
		require.NoError(t, err)
		require.Len(t, bases, 2)

		first, second := x, y
		if !lessHash(x.Hash[:], y.Hash[:]) {
			first, second = y, x
		}
		assert.Equal(t, first.Hash, bases[0].Hash, "tie-break must be deterministic across repeated calls")
		assert.Equal(t, second.Hash, bases[1].Hash)
	}
}

func lessHash(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
