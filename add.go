package vcs

import (
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
)

// emptyBlob is the placeholder object hash IntentToAdd entries carry: no
// content has been staged yet.
var emptyBlob = plumbing.ZeroHash

// AddCommand stages worktree paths into the index (§4.10).
type AddCommand struct {
	command
	repo *Repository

	patterns     []string
	update       bool
	all          bool
	force        bool
	intentToAdd  bool
}

// Add returns an AddCommand against r.
func (r *Repository) Add() *AddCommand {
	return &AddCommand{repo: r}
}

// Patterns sets which worktree paths to consider, in filepath.Match syntax
// (plus "." meaning the whole tree and a bare directory name matching
// everything beneath it). Required.
func (c *AddCommand) Patterns(patterns ...string) *AddCommand {
	if c.guard() {
		return c
	}
	c.patterns = patterns
	return c
}

// Update restricts staging to paths already tracked by the index, skipping
// new files.
func (c *AddCommand) Update(update bool) *AddCommand {
	if c.guard() {
		return c
	}
	c.update = update
	return c
}

// All also stages the deletion of tracked paths the patterns match but the
// worktree no longer has.
func (c *AddCommand) All(all bool) *AddCommand {
	if c.guard() {
		return c
	}
	c.all = all
	return c
}

// Force stages paths the worktree's ignore rules would otherwise exclude.
func (c *AddCommand) Force(force bool) *AddCommand {
	if c.guard() {
		return c
	}
	c.force = force
	return c
}

// IntentToAdd records a path as staged without its content (empty OID, zero
// size): a placeholder later commands can see as tracked.
func (c *AddCommand) IntentToAdd(intent bool) *AddCommand {
	if c.guard() {
		return c
	}
	c.intentToAdd = intent
	return c
}

// AddResult is the outcome of a successful AddCommand.Call.
type AddResult struct {
	Added   []string
	Removed []string
}

// Call validates and executes the staging exactly once (§4.10).
func (c *AddCommand) Call() (*AddResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if len(c.patterns) == 0 {
		return nil, ErrNoFilepattern
	}

	repo := c.repo
	if repo.Worktree == nil {
		return nil, ErrNoFilepattern
	}

	matches := func(path string) bool {
		for _, p := range c.patterns {
			if matchesPattern(p, path) {
				return true
			}
		}
		return false
	}

	entries, err := repo.Worktree.Walk(WalkOptions{})
	if err != nil {
		return nil, err
	}

	result := &AddResult{}
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.IsDir || !matches(e.Path) {
			continue
		}
		seen[e.Path] = true

		if !c.force && (e.IsIgnored || repo.Worktree.IsIgnored(e.Path)) {
			continue
		}

		_, notTracked := repo.Index.Entry(e.Path)
		if c.update && notTracked != nil {
			continue
		}

		if c.intentToAdd {
			upsertEntry(repo.Index, e.Path, filemode.Regular, emptyBlob, 0)
			result.Added = append(result.Added, e.Path)
			continue
		}

		r, err := repo.Worktree.ReadContent(e.Path)
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, err
		}

		hash, err := writeBlobObject(repo.Storer, content)
		if err != nil {
			return nil, err
		}

		mode := filemode.Regular
		if e.Mode != 0 {
			mode = filemode.FileMode(e.Mode)
		}
		upsertEntry(repo.Index, e.Path, mode, hash, int64(len(content)))
		result.Added = append(result.Added, e.Path)
	}

	if c.all {
		removed, err := stageDeletions(repo, matches, seen)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	return result, nil
}
