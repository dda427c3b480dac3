package vcs

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/statewalker/vcs-sub000/plumbing/object"
	"github.com/statewalker/vcs-sub000/utils/diff"
)

// BlameCommand attributes each line of a file's current content to the
// commit that introduced or last modified it (§4.10), using the forward
// algorithm: walk the file's history oldest-first, diffing each revision
// against the previous one and carrying each line's origin commit forward
// across unchanged hunks.
type BlameCommand struct {
	command
	repo *Repository

	path  string
	start string
}

// Blame returns a BlameCommand against r.
func (r *Repository) Blame() *BlameCommand {
	return &BlameCommand{repo: r, start: "HEAD"}
}

// Path sets the file to blame. Required.
func (c *BlameCommand) Path(path string) *BlameCommand {
	if c.guard() {
		return c
	}
	c.path = path
	return c
}

// From sets the commit whose version of Path is blamed. Defaults to
// "HEAD".
func (c *BlameCommand) From(rev string) *BlameCommand {
	if c.guard() {
		return c
	}
	c.start = rev
	return c
}

// BlameLine is one line of the blamed file and the commit that produced
// it.
type BlameLine struct {
	Commit *object.Commit
	Text   string
}

// BlameResult is the outcome of a successful BlameCommand.Call.
type BlameResult struct {
	Path  string
	Lines []BlameLine
}

// Call validates and executes the blame exactly once (§4.10).
func (c *BlameCommand) Call() (*BlameResult, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if c.path == "" {
		return nil, ErrNoFilepattern
	}

	repo := c.repo
	hash, err := repo.Resolve(c.start)
	if err != nil {
		return nil, err
	}
	start, err := object.GetCommit(repo.Storer, hash)
	if err != nil {
		return nil, err
	}

	match := func(p string) bool { return p == c.path }
	iter := object.NewCommitPathIterFromIter(match, object.NewCommitPreorderIter(start, nil, nil), true)

	var revs []*object.Commit
	err = iter.ForEach(func(commit *object.Commit) error {
		revs = append(revs, commit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(revs, func(i, j int) bool {
		return revs[i].Committer.When.Before(revs[j].Committer.When)
	})

	result := &BlameResult{Path: c.path}
	if len(revs) == 0 {
		return result, nil
	}

	data := make([]string, len(revs))
	graph := make([][]*object.Commit, len(revs))

	for i, rev := range revs {
		content, err := fileContentAt(rev, c.path)
		if err != nil {
			return nil, err
		}
		data[i] = content
		lines := splitLines(content)
		graph[i] = make([]*object.Commit, len(lines))

		if i == 0 {
			for j := range graph[i] {
				graph[i][j] = revs[i]
			}
			continue
		}
		assignOrigin(graph, data, revs, i, i-1)
	}

	lastCommits := graph[len(graph)-1]
	lastLines := splitLines(data[len(data)-1])
	for i, commit := range lastCommits {
		text := ""
		if i < len(lastLines) {
			text = lastLines[i]
		}
		result.Lines = append(result.Lines, BlameLine{Commit: commit, Text: text})
	}

	return result, nil
}

// fileContentAt returns path's contents at rev, or "" if rev's tree
// doesn't have path.
func fileContentAt(rev *object.Commit, path string) (string, error) {
	tree, err := rev.Tree()
	if err != nil {
		return "", err
	}
	f, err := tree.File(path)
	if err != nil {
		return "", nil
	}
	return f.Contents()
}

// assignOrigin carries each line's origin commit from revision p (previous)
// to revision c (current) of graph, diffing their file contents: unchanged
// lines keep p's origin, inserted or modified lines are attributed to
// revs[c].
func assignOrigin(graph [][]*object.Commit, data []string, revs []*object.Commit, c, p int) {
	hunks := diff.Do(data[p], data[c])
	sl, dl := -1, -1

	for _, h := range hunks {
		n := countLines(h.Text)
		for i := 0; i < n; i++ {
			switch h.Type {
			case diffmatchpatch.DiffEqual:
				sl++
				dl++
				if dl < len(graph[c]) && sl < len(graph[p]) {
					graph[c][dl] = graph[p][sl]
				}
			case diffmatchpatch.DiffInsert:
				dl++
				if dl < len(graph[c]) {
					graph[c][dl] = revs[c]
				}
			case diffmatchpatch.DiffDelete:
				sl++
			}
		}
	}
}

// splitLines splits s into lines, the way data[] and each diff hunk's Text
// are line-delimited: a trailing newline contributes no extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func countLines(s string) int {
	return len(splitLines(s))
}
