package storage

import (
	"errors"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// ErrLimitExceeded is returned once a Limited storer's budget is exhausted.
var ErrLimitExceeded = errors.New("limit exceeded")

// Limited wraps a Storer to cap the total number of object bytes that can be
// stored through it, e.g. to bound memory use while consolidating a pack.
type Limited struct {
	Storer
	N *int64
}

// Limit returns s wrapped with a budget of n bytes.
func Limit(s Storer, n int64) *Limited {
	return &Limited{Storer: s, N: &n}
}

// SetEncodedObject stores obj, failing with ErrLimitExceeded once the
// cumulative size of everything stored through this wrapper exceeds the
// configured budget.
func (s *Limited) SetEncodedObject(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	*s.N -= obj.Size()
	if *s.N < 0 {
		return plumbing.ZeroHash, ErrLimitExceeded
	}
	return s.Storer.SetEncodedObject(obj)
}
