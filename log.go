package vcs

import (
	"sort"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing/object"
)

// LogCommand walks commit ancestry from a starting point (§4.10).
type LogCommand struct {
	command
	repo *Repository

	from     string
	path     string
	maxCount int
	skip     int
	since    time.Time
	until    time.Time
}

// Log returns a LogCommand against r.
func (r *Repository) Log() *LogCommand {
	return &LogCommand{repo: r, from: "HEAD"}
}

// From sets the starting revision. Defaults to "HEAD".
func (c *LogCommand) From(rev string) *LogCommand {
	if c.guard() {
		return c
	}
	c.from = rev
	return c
}

// Path restricts the log to commits that touched path.
func (c *LogCommand) Path(path string) *LogCommand {
	if c.guard() {
		return c
	}
	c.path = path
	return c
}

// MaxCount caps the number of commits returned (0 means unbounded).
func (c *LogCommand) MaxCount(n int) *LogCommand {
	if c.guard() {
		return c
	}
	c.maxCount = n
	return c
}

// Skip discards the first n commits that would otherwise be returned.
func (c *LogCommand) Skip(n int) *LogCommand {
	if c.guard() {
		return c
	}
	c.skip = n
	return c
}

// Since excludes commits committed before t.
func (c *LogCommand) Since(t time.Time) *LogCommand {
	if c.guard() {
		return c
	}
	c.since = t
	return c
}

// Until excludes commits committed after t.
func (c *LogCommand) Until(t time.Time) *LogCommand {
	if c.guard() {
		return c
	}
	c.until = t
	return c
}

// Call validates and executes the walk exactly once, returning commits in
// commit-time-descending order (§4.10).
func (c *LogCommand) Call() ([]*object.Commit, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	repo := c.repo
	hash, err := repo.Resolve(c.from)
	if err != nil {
		return nil, err
	}
	start, err := object.GetCommit(repo.Storer, hash)
	if err != nil {
		return nil, err
	}

	iter := object.CommitIter(object.NewCommitPreorderIter(start, nil, nil))
	if c.path != "" {
		match := func(p string) bool { return p == c.path || matchesPattern(c.path, p) }
		iter = object.NewCommitPathIterFromIter(match, iter, true)
	}

	var commits []*object.Commit
	err = iter.ForEach(func(commit *object.Commit) error {
		if !c.since.IsZero() && commit.Committer.When.Before(c.since) {
			return nil
		}
		if !c.until.IsZero() && commit.Committer.When.After(c.until) {
			return nil
		}
		commits = append(commits, commit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Committer.When.After(commits[j].Committer.When)
	})

	if c.skip > 0 {
		if c.skip >= len(commits) {
			return nil, nil
		}
		commits = commits[c.skip:]
	}
	if c.maxCount > 0 && len(commits) > c.maxCount {
		commits = commits[:c.maxCount]
	}

	return commits, nil
}
