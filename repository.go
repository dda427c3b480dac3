// Package vcs is the command core (§4.10): a family of fire-once builder
// commands (commit, merge, cherry-pick, revert, reset, checkout, add, rm,
// diff, blame, log, branch) built on top of the object store, reference
// store, staging index, and merge engine packages.
package vcs

import (
	"fmt"
	"time"

	"github.com/statewalker/vcs-sub000/config"
	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/plumbing/revision"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Repository bundles the object/reference store, the staging index, and an
// optional attached worktree behind the command constructors. Every
// command reads and writes through these three; none holds global state of
// its own (§9 "Global state: none required").
type Repository struct {
	Storer   storer.Storer
	Index    *index.Index
	Config   *config.Config
	Worktree Worktree
}

// NewRepository returns a Repository over an already-initialized store; the
// caller is responsible for creating refs/heads/<default>  and HEAD
// (typically via Init) before issuing commands against it.
func NewRepository(s storer.Storer) *Repository {
	return &Repository{
		Storer: s,
		Index:  index.NewIndex(),
		Config: config.NewConfig(),
	}
}

// Init sets HEAD to point symbolically at the configured default branch
// (unborn: the branch ref itself is created by the first commit).
func Init(s storer.Storer, cfg *config.Config) (*Repository, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	branch := plumbing.NewBranchReferenceName(cfg.Core.DefaultBranch)
	if err := s.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)); err != nil {
		return nil, err
	}
	return &Repository{Storer: s, Index: index.NewIndex(), Config: cfg}, nil
}

// Head resolves HEAD down to a direct (hash) reference. It returns an error
// wrapping ErrRefNotFound when HEAD cannot be resolved, as on an unborn
// branch (HEAD's target doesn't exist yet).
func (r *Repository) Head() (*plumbing.Reference, error) {
	ref, err := storer.ResolveReference(r.Storer, plumbing.HEAD)
	if err != nil {
		return nil, fmt.Errorf("%w: HEAD", ErrRefNotFound)
	}
	return ref, nil
}

// HeadCommit resolves HEAD to its Commit object.
func (r *Repository) HeadCommit() (*object.Commit, error) {
	ref, err := r.Head()
	if err != nil {
		return nil, err
	}
	return object.GetCommit(r.Storer, ref.Hash())
}

// headBranch returns the reference name HEAD currently points at
// symbolically, or ("", false) if HEAD is detached (a direct hash
// reference).
func (r *Repository) headBranch() (plumbing.ReferenceName, bool, error) {
	ref, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", false, fmt.Errorf("%w: HEAD", ErrRefNotFound)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", false, nil
	}
	return ref.Target(), true, nil
}

// Resolve parses rev using the rev-parse grammar (§4.6) against this
// repository's store.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	return revision.Resolve(r.Storer, rev)
}

// updateHead advances the current branch (or, if HEAD is detached, HEAD
// itself) from old to h, using the reference store's compare-and-set so a
// concurrent mover is detected (§5).
func (r *Repository) updateHead(old *plumbing.Reference, h plumbing.Hash) error {
	branch, symbolic, err := r.headBranch()
	if err != nil {
		return err
	}

	name := plumbing.HEAD
	var oldRef *plumbing.Reference
	if symbolic {
		name = branch
		if old != nil {
			oldRef = plumbing.NewHashReference(branch, old.Hash())
		}
	} else if old != nil {
		oldRef = old
	}

	return r.Storer.CheckAndSetReference(plumbing.NewHashReference(name, h), oldRef)
}

// ident resolves the Author/Committer identity a new commit should carry,
// falling back to the repository's configured default.
func (r *Repository) ident(override *object.Signature, now time.Time) object.Signature {
	if override != nil && (override.Name != "" || override.Email != "") {
		sig := *override
		if sig.When.IsZero() {
			sig.When = now
		}
		return sig
	}

	return object.Signature{
		Name:  r.Config.Author.Name,
		Email: r.Config.Author.Email,
		When:  now,
	}
}

