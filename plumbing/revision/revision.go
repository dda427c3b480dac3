// Package revision implements the rev-parse grammar (§4.6): resolving a
// user-typed revision string (an abbreviated hash, a branch/tag shorthand,
// or either suffixed with ^, ^N or ~N) down to a single commit hash.
package revision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// ErrInvalidRevision is returned when a revision string cannot be parsed.
var ErrInvalidRevision = errors.New("invalid revision")

// ErrAmbiguousRevision is returned when an abbreviated hash prefix matches
// more than one object.
var ErrAmbiguousRevision = errors.New("ambiguous revision")

const minAbbrevLen = 4

// Resolve parses rev against s (used for ref and hash lookups, parent walks
// and object decoding) and returns the hash it names.
func Resolve(s storer.Storer, rev string) (plumbing.Hash, error) {
	base, suffix, err := splitSuffix(rev)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	h, err := resolveBase(s, base)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return applySuffix(s, h, suffix)
}

// splitSuffix peels the trailing run of ^, ^N or ~N modifiers off rev,
// returning the bare base name/hash and the modifiers in application order.
func splitSuffix(rev string) (base string, ops []revOp, err error) {
	base = rev
	for {
		switch {
		case strings.HasSuffix(base, "^"):
			base = base[:len(base)-1]
			ops = append([]revOp{{kind: opParent, n: 1}}, ops...)
			continue
		}

		if i := lastRunStart(base, '^'); i >= 0 {
			n, perr := strconv.Atoi(base[i+1:])
			if perr == nil {
				base = base[:i]
				ops = append([]revOp{{kind: opParent, n: n}}, ops...)
				continue
			}
		}

		if i := lastRunStart(base, '~'); i >= 0 {
			numStr := base[i+1:]
			n := 1
			if numStr != "" {
				var perr error
				n, perr = strconv.Atoi(numStr)
				if perr != nil {
					break
				}
			}
			base = base[:i]
			ops = append([]revOp{{kind: opAncestor, n: n}}, ops...)
			continue
		}

		break
	}

	if base == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidRevision, rev)
	}

	return base, ops, nil
}

// lastRunStart finds the last occurrence of marker that begins a trailing
// "marker+digits" (or bare marker) run at the end of s, or -1.
func lastRunStart(s string, marker byte) int {
	if len(s) == 0 {
		return -1
	}
	i := strings.LastIndexByte(s, marker)
	if i < 0 {
		return -1
	}
	for _, r := range s[i+1:] {
		if r < '0' || r > '9' {
			return -1
		}
	}
	return i
}

type revOpKind int

const (
	opParent revOpKind = iota
	opAncestor
)

type revOp struct {
	kind revOpKind
	n    int
}

func applySuffix(s storer.Storer, h plumbing.Hash, ops []revOp) (plumbing.Hash, error) {
	for _, op := range ops {
		c, err := object.GetCommit(s, h)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		switch op.kind {
		case opParent:
			if op.n == 0 {
				// "^0" dereferences a tag-like object to its commit; a
				// commit already is one, so this is a no-op.
				continue
			}
			if op.n > c.NumParents() {
				return plumbing.ZeroHash, fmt.Errorf("%w: commit %s has no parent number %d",
					ErrInvalidRevision, h, op.n)
			}
			parent, err := c.Parent(op.n - 1)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			h = parent.Hash

		case opAncestor:
			for i := 0; i < op.n; i++ {
				if c.NumParents() == 0 {
					return plumbing.ZeroHash, fmt.Errorf("%w: commit %s has no parent",
						ErrInvalidRevision, c.Hash)
				}
				parent, err := c.Parent(0)
				if err != nil {
					return plumbing.ZeroHash, err
				}
				c = parent
			}
			h = c.Hash
		}
	}

	return h, nil
}

// resolveBase resolves a revision with no ^/~ suffix: HEAD, a fully
// qualified or shorthand ref name, or an abbreviated/full hex hash.
func resolveBase(s storer.Storer, base string) (plumbing.Hash, error) {
	if ref, err := expandRef(s, base); err == nil {
		return resolveToCommitish(s, ref.Hash())
	}

	h, err := resolveHashPrefix(s, base)
	if err == nil {
		return h, nil
	}
	if errors.Is(err, plumbing.ErrObjectNotFound) || errors.Is(err, ErrAmbiguousRevision) {
		return plumbing.ZeroHash, fmt.Errorf("%w: %q: %w", ErrInvalidRevision, base, err)
	}

	return plumbing.ZeroHash, fmt.Errorf("%w: %q", ErrInvalidRevision, base)
}

// expandRef tries every RefRevParseRules pattern against name, the way
// git's own rev-parse does, and returns the first reference that resolves.
func expandRef(s storer.ReferenceStorer, name string) (*plumbing.Reference, error) {
	var firstErr error
	for _, rule := range plumbing.RefRevParseRules {
		candidate := plumbing.ReferenceName(fmt.Sprintf(rule, name))
		ref, err := storer.ResolveReference(s, candidate)
		if err == nil {
			return ref, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// resolveHashPrefix resolves a full or abbreviated (>= 4 hex chars) object
// hash by scanning the object store. A prefix matching more than one
// object is ErrAmbiguousRevision.
func resolveHashPrefix(s storer.EncodedObjectStorer, in string) (plumbing.Hash, error) {
	if !isHexPrefix(in) {
		return plumbing.ZeroHash, ErrInvalidRevision
	}

	if len(in) == len(plumbing.ZeroHash)*2 {
		h := plumbing.NewHash(in)
		if err := s.HasEncodedObject(h); err == nil {
			return h, nil
		}
		return plumbing.ZeroHash, plumbing.ErrObjectNotFound
	}

	if len(in) < minAbbrevLen {
		return plumbing.ZeroHash, fmt.Errorf("%w: abbreviated hash %q shorter than %d characters",
			ErrInvalidRevision, in, minAbbrevLen)
	}

	iter, err := s.IterEncodedObjects(plumbing.AnyObject)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer iter.Close()

	var match plumbing.Hash
	found := false
	err = iter.ForEach(func(obj plumbing.EncodedObject) error {
		h := obj.Hash().String()
		if strings.HasPrefix(h, in) {
			if found && h != match.String() {
				return ErrAmbiguousRevision
			}
			match = obj.Hash()
			found = true
		}
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if !found {
		return plumbing.ZeroHash, plumbing.ErrObjectNotFound
	}

	return match, nil
}

func isHexPrefix(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// resolveToCommitish dereferences a tag object down to the commit it
// ultimately points at; a hash that is already a commit is returned as-is.
func resolveToCommitish(s storer.EncodedObjectStorer, h plumbing.Hash) (plumbing.Hash, error) {
	for {
		obj, err := s.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		switch obj.Type() {
		case plumbing.CommitObject:
			return h, nil
		case plumbing.TagObject:
			tag, err := object.GetTag(s, h)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			h = tag.Target
		default:
			return plumbing.ZeroHash, fmt.Errorf("%w: %s is not a commit-ish object", ErrInvalidRevision, h)
		}
	}
}
