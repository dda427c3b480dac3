// Package storage defines the aggregate storage contract a repository is
// built on: object storage plus reference storage (§4.4, §4.6). The
// storage/memory and storage/pack packages provide concrete backends.
package storage

import (
	"errors"

	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// ErrReferenceHasChanged is returned by CheckAndSetReference when the
// stored reference no longer matches the expected old value (§5).
var ErrReferenceHasChanged = errors.New("reference has changed concurrently")

// Storer is what a Repository is built on: an object store plus a
// reference store.
type Storer interface {
	storer.EncodedObjectStorer
	storer.ReferenceStorer
}
