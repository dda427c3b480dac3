// Package merge implements the three-way merge engine (§4.9): tree merge,
// diff3-style content merge, and the commit-level merge operation with its
// fast-forward and strategy handling.
package merge

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/statewalker/vcs-sub000/utils/diff"
)

// ContentStrategy selects how MergeContent resolves a region both ours and
// theirs changed differently from base.
type ContentStrategy int

const (
	// ContentDiff3 emits conflict markers around the two competing texts.
	ContentDiff3 ContentStrategy = iota
	// ContentOurs always resolves the region to ours.
	ContentOurs
	// ContentTheirs always resolves the region to theirs.
	ContentTheirs
	// ContentUnion concatenates ours then theirs, with no markers.
	ContentUnion
)

// ContentResult is the outcome of a single MergeContent call.
type ContentResult struct {
	Text     string
	Conflict bool
}

// changeRun is one contiguous region of base text that other replaces,
// expressed as a line range into base plus the replacement text.
type changeRun struct {
	baseStart int
	baseLen   int
	text      string
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// editOps reduces a line diff between base and other down to the minimal
// set of (base range -> replacement text) runs, coalescing each maximal
// run of adjacent delete/insert chunks diffmatchpatch emits for a replace
// into one run.
func editOps(base, other string) []changeRun {
	diffs := diff.Do(base, other)

	var runs []changeRun
	basePos := 0
	i := 0
	for i < len(diffs) {
		d := diffs[i]
		if d.Type == diffmatchpatch.DiffEqual {
			basePos += countLines(d.Text)
			i++
			continue
		}

		start := basePos
		delLines := 0
		var ins strings.Builder
		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				delLines += countLines(diffs[i].Text)
			case diffmatchpatch.DiffInsert:
				ins.WriteString(diffs[i].Text)
			}
			i++
		}
		basePos += delLines
		runs = append(runs, changeRun{baseStart: start, baseLen: delLines, text: ins.String()})
	}

	return runs
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

type mergeSide int

const (
	sideOurs mergeSide = iota
	sideTheirs
)

type taggedRun struct {
	changeRun
	side mergeSide
}

// hunkGroup is a maximal base-line range touched by one or more change runs
// from either side; overlapping runs from both sides, and runs starting at
// the same base line, are coalesced into the same group so they can be
// compared as one region. Runs that only abut stay in separate groups.
type hunkGroup struct {
	start, end   int
	ours, theirs []changeRun
}

func groupHunks(oursRuns, theirsRuns []changeRun) []hunkGroup {
	tagged := make([]taggedRun, 0, len(oursRuns)+len(theirsRuns))
	for _, r := range oursRuns {
		tagged = append(tagged, taggedRun{r, sideOurs})
	}
	for _, r := range theirsRuns {
		tagged = append(tagged, taggedRun{r, sideTheirs})
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		return tagged[i].baseStart < tagged[j].baseStart
	})

	var groups []hunkGroup
	for _, t := range tagged {
		rs, re := t.baseStart, t.baseStart+t.baseLen

		if n := len(groups); n > 0 && (rs < groups[n-1].end || rs == groups[n-1].start) {
			g := &groups[n-1]
			if re > g.end {
				g.end = re
			}
			if t.side == sideOurs {
				g.ours = append(g.ours, t.changeRun)
			} else {
				g.theirs = append(g.theirs, t.changeRun)
			}
			continue
		}

		g := hunkGroup{start: rs, end: re}
		if t.side == sideOurs {
			g.ours = []changeRun{t.changeRun}
		} else {
			g.theirs = []changeRun{t.changeRun}
		}
		groups = append(groups, g)
	}

	return groups
}

// stitch reconstructs the text a side produces across [start,end) of base,
// applying that side's runs and leaving any untouched base lines as-is.
func stitch(baseLines []string, start, end int, runs []changeRun) string {
	var b strings.Builder
	cursor := start
	for _, r := range runs {
		if r.baseStart > cursor {
			b.WriteString(strings.Join(baseLines[cursor:r.baseStart], ""))
		}
		b.WriteString(r.text)
		cursor = r.baseStart + r.baseLen
	}
	if cursor < end {
		b.WriteString(strings.Join(baseLines[cursor:end], ""))
	}
	return b.String()
}

// MergeContent performs a diff3-style three-way merge of base/ours/theirs
// text. Regions only one side touched take that side's text unconditionally;
// regions both sides touched identically collapse to one copy; regions both
// sides touched differently are resolved per strategy (conflict markers for
// ContentDiff3, one side's text for ContentOurs/ContentTheirs, or both
// concatenated for ContentUnion).
func MergeContent(base, ours, theirs string, strategy ContentStrategy) ContentResult {
	baseLines := splitLines(base)

	groups := groupHunks(editOps(base, ours), editOps(base, theirs))

	var out strings.Builder
	cursor := 0
	conflict := false

	for _, g := range groups {
		if g.start > cursor {
			out.WriteString(strings.Join(baseLines[cursor:g.start], ""))
		}

		oursText := stitch(baseLines, g.start, g.end, g.ours)
		theirsText := stitch(baseLines, g.start, g.end, g.theirs)

		switch {
		case len(g.ours) == 0:
			out.WriteString(theirsText)
		case len(g.theirs) == 0:
			out.WriteString(oursText)
		case oursText == theirsText:
			out.WriteString(oursText)
		default:
			switch strategy {
			case ContentOurs:
				out.WriteString(oursText)
			case ContentTheirs:
				out.WriteString(theirsText)
			case ContentUnion:
				out.WriteString(oursText)
				out.WriteString(theirsText)
			default:
				conflict = true
				out.WriteString(conflictMarkers(oursText, theirsText))
			}
		}

		cursor = g.end
	}

	if cursor < len(baseLines) {
		out.WriteString(strings.Join(baseLines[cursor:], ""))
	}

	return ContentResult{Text: out.String(), Conflict: conflict}
}

func conflictMarkers(ours, theirs string) string {
	if ours != "" && !strings.HasSuffix(ours, "\n") {
		ours += "\n"
	}
	if theirs != "" && !strings.HasSuffix(theirs, "\n") {
		theirs += "\n"
	}
	return "<<<<<<< ours\n" + ours + "=======\n" + theirs + ">>>>>>> theirs\n"
}
