// Package diff implements line-oriented diffing (§4.8 "Line diff
// (Myers)") on top of sergi/go-diff's character-level Myers
// implementation: each input is first collapsed to one synthetic
// character per line, diffed, then expanded back, so the result is a
// diff over whole lines rather than over individual runes.
package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Do returns the line-level diff turning src into dst.
func Do(src, dst string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	wSrc, wDst, lines := dmp.DiffLinesToChars(src, dst)
	diffs := dmp.DiffMain(wSrc, wDst, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// Src reconstructs the source text from diffs (every chunk except pure
// insertions).
func Src(diffs []diffmatchpatch.Diff) string {
	var out string
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffInsert {
			out += d.Text
		}
	}
	return out
}

// Dst reconstructs the destination text from diffs (every chunk except
// pure deletions).
func Dst(diffs []diffmatchpatch.Diff) string {
	var out string
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffDelete {
			out += d.Text
		}
	}
	return out
}
