package vcs

import "github.com/statewalker/vcs-sub000/plumbing/format/index"

// RmCommand removes paths from the index, and by default from the
// worktree too (§4.10).
type RmCommand struct {
	command
	repo *Repository

	patterns []string
	cached   bool
}

// Rm returns an RmCommand against r.
func (r *Repository) Rm() *RmCommand {
	return &RmCommand{repo: r}
}

// Patterns sets which index paths to remove, in filepath.Match syntax.
// Required.
func (c *RmCommand) Patterns(patterns ...string) *RmCommand {
	if c.guard() {
		return c
	}
	c.patterns = patterns
	return c
}

// Cached leaves the worktree alone, removing only the index entry.
func (c *RmCommand) Cached(cached bool) *RmCommand {
	if c.guard() {
		return c
	}
	c.cached = cached
	return c
}

// RmResult is the outcome of a successful RmCommand.Call.
type RmResult struct {
	Removed []string
}

// Call validates and executes the removal exactly once (§4.10). A pattern
// matching nothing is not an error; it simply contributes no paths.
func (c *RmCommand) Call() (*RmResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if len(c.patterns) == 0 {
		return nil, ErrNoFilepattern
	}

	repo := c.repo
	result := &RmResult{}
	seen := map[string]bool{}
	ed := repo.Index.Editor()

	for _, pattern := range c.patterns {
		matches, err := repo.Index.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, e := range matches {
			if e.Stage != index.Merged || seen[e.Name] {
				continue
			}
			seen[e.Name] = true

			if !c.cached && repo.Worktree != nil && repo.Worktree.Exists(e.Name) {
				if err := repo.Worktree.Remove(e.Name, RemoveOptions{}); err != nil {
					return nil, err
				}
			}

			ed.Remove(e.Name)
			result.Removed = append(result.Removed, e.Name)
		}
	}

	if err := ed.Finish(); err != nil {
		return nil, err
	}
	return result, nil
}
