package index

import "path/filepath"

// Op is one mutation queued onto an Editor.
type Op func(*Index) error

// Editor batches a list of Index mutations and applies them atomically:
// Finish runs every queued Op against a scratch copy of the index, and
// only swaps it into place if every Op succeeds. A failure midway leaves
// the original index entirely untouched.
type Editor struct {
	idx *Index
	ops []Op
}

// Editor starts a transactional batch of operations against i. Nothing
// is applied until Finish is called.
func (i *Index) Editor() *Editor {
	return &Editor{idx: i}
}

// Add queues staging a fresh stage-0 entry for path, set by fill.
func (ed *Editor) Add(path string, fill func(*Entry)) *Editor {
	ed.ops = append(ed.ops, func(idx *Index) error {
		e := idx.Add(path)
		if fill != nil {
			fill(e)
		}
		return nil
	})
	return ed
}

// Remove queues removing every stage of path.
func (ed *Editor) Remove(path string) *Editor {
	ed.ops = append(ed.ops, func(idx *Index) error {
		_, err := idx.Remove(path)
		return err
	})
	return ed
}

// Stage queues appending a conflict-stage entry (AncestorMode/OurMode/
// TheirMode) for path, set by fill. The caller is responsible for not
// leaving a stage-0 entry for the same path once the batch finishes.
func (ed *Editor) Stage(path string, stage Stage, fill func(*Entry)) *Editor {
	ed.ops = append(ed.ops, func(idx *Index) error {
		e := &Entry{Name: filepath.ToSlash(path), Stage: stage}
		if fill != nil {
			fill(e)
		}
		idx.Entries = append(idx.Entries, e)
		return nil
	})
	return ed
}

// Do queues an arbitrary Op, for mutations the other Editor methods don't
// cover directly.
func (ed *Editor) Do(op Op) *Editor {
	ed.ops = append(ed.ops, op)
	return ed
}

// Finish applies every queued Op, in order, against a scratch copy of the
// index. If any Op returns an error, Finish stops there, discards the
// scratch copy, and returns that error: the live index is left exactly as
// it was before Finish was called. If every Op succeeds, the scratch copy
// replaces the live index's entries in one step.
func (ed *Editor) Finish() error {
	scratch := &Index{
		Version: ed.idx.Version,
		Entries: append([]*Entry(nil), ed.idx.Entries...),
		Cache:   ed.idx.Cache,
	}

	for _, op := range ed.ops {
		if err := op(scratch); err != nil {
			return err
		}
	}

	ed.idx.Entries = scratch.Entries
	ed.idx.Cache = scratch.Cache
	return nil
}
