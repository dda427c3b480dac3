package plumbing

import (
	"errors"
	"fmt"
)

// Error kinds shared by every component in this module (spec §7). Commands
// and storage layers return these sentinels (or wrap them with %w) rather
// than ad-hoc error strings, so callers can match with errors.Is.
var (
	ErrCorruptObject           = errors.New("corrupt object")
	ErrDeltaChainTooDeep       = errors.New("delta chain too deep")
	ErrInvalidRefName          = errors.New("invalid reference name")
	ErrRefNotFound             = errors.New("reference not found")
	ErrCancelled               = errors.New("operation cancelled")
)

// MissingDeltaBaseError is returned when a REF_DELTA or OFS_DELTA cannot
// locate its base object in the pack, any other registered pack, or the
// loose object store.
type MissingDeltaBaseError struct {
	Delta Hash
	Base  Hash
}

func (e *MissingDeltaBaseError) Error() string {
	return fmt.Sprintf("missing delta base %s for object %s", e.Base, e.Delta)
}

func (e *MissingDeltaBaseError) Is(target error) bool {
	return target == errMissingDeltaBase
}

var errMissingDeltaBase = errors.New("missing delta base")

// ErrMissingDeltaBase is the sentinel matched by MissingDeltaBaseError.Is,
// so callers can do errors.Is(err, plumbing.ErrMissingDeltaBase) without
// caring about the offending hashes.
var ErrMissingDeltaBase = errMissingDeltaBase
