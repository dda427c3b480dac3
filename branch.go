package vcs

import (
	"fmt"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// isValidRefName rejects the reference name patterns git itself refuses
// (a practical subset of git-check-ref-format): a leading "-", a trailing
// "/", ".." anywhere, and "@{".
func isValidRefName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.HasSuffix(name, "/") {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, "@{") {
		return false
	}
	return true
}

// BranchCreateCommand creates a new branch reference (§4.10).
type BranchCreateCommand struct {
	command
	repo *Repository

	name       string
	startPoint string
}

// BranchCreate returns a BranchCreateCommand against r.
func (r *Repository) BranchCreate() *BranchCreateCommand {
	return &BranchCreateCommand{repo: r}
}

// Name sets the new branch's short name. Required.
func (c *BranchCreateCommand) Name(name string) *BranchCreateCommand {
	if c.guard() {
		return c
	}
	c.name = name
	return c
}

// StartPoint sets the revision the branch is created at. Defaults to HEAD.
func (c *BranchCreateCommand) StartPoint(rev string) *BranchCreateCommand {
	if c.guard() {
		return c
	}
	c.startPoint = rev
	return c
}

// Call validates and creates the branch exactly once (§4.10).
func (c *BranchCreateCommand) Call() (*plumbing.Reference, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if !isValidRefName(c.name) {
		return nil, ErrInvalidRefName
	}

	repo := c.repo
	start := c.startPoint
	if start == "" {
		start = "HEAD"
	}
	hash, err := repo.Resolve(start)
	if err != nil {
		return nil, err
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(c.name), hash)
	if err := repo.Storer.CheckAndSetReference(ref, nil); err != nil {
		return nil, err
	}
	return ref, nil
}

// BranchDeleteCommand removes a branch reference (§4.10).
type BranchDeleteCommand struct {
	command
	repo *Repository

	name string
}

// BranchDelete returns a BranchDeleteCommand against r.
func (r *Repository) BranchDelete() *BranchDeleteCommand {
	return &BranchDeleteCommand{repo: r}
}

// Name sets the branch's short name. Required.
func (c *BranchDeleteCommand) Name(name string) *BranchDeleteCommand {
	if c.guard() {
		return c
	}
	c.name = name
	return c
}

// Call validates and deletes the branch exactly once (§4.10).
func (c *BranchDeleteCommand) Call() error {
	if err := c.begin(); err != nil {
		return err
	}
	if !isValidRefName(c.name) {
		return ErrInvalidRefName
	}

	repo := c.repo
	name := plumbing.NewBranchReferenceName(c.name)

	if branch, symbolic, err := repo.headBranch(); err == nil && symbolic && branch == name {
		return fmt.Errorf("command: cannot delete the currently checked out branch %s", c.name)
	}

	return repo.Storer.RemoveReference(name)
}

// BranchListCommand lists every branch reference (§4.10).
type BranchListCommand struct {
	command
	repo *Repository
}

// BranchList returns a BranchListCommand against r.
func (r *Repository) BranchList() *BranchListCommand {
	return &BranchListCommand{repo: r}
}

// Call validates and lists every branch reference exactly once (§4.10).
func (c *BranchListCommand) Call() ([]*plumbing.Reference, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	iter, err := c.repo.Storer.IterReferences()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var branches []*plumbing.Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			branches = append(branches, ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}
