package object

import (
	"container/list"
	"io"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

type commitPreIterator struct {
	seenExternal map[plumbing.Hash]bool
	seen         map[plumbing.Hash]bool
	stack        []CommitIter
	start        *Commit
}

// NewCommitPreorderIter returns a CommitIter that walks the commit history,
// starting at the given commit and visiting its parents in pre-order. Each
// commit is visited only once. Ignore allows skipping commits that should
// be treated as already seen.
func NewCommitPreorderIter(
	c *Commit,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}

	return &commitPreIterator{
		seenExternal: seenExternal,
		seen:         seen,
		stack:        make([]CommitIter, 0),
		start:        c,
	}
}

func (w *commitPreIterator) Next() (*Commit, error) {
	var c *Commit
	for {
		if w.start != nil {
			c = w.start
			w.start = nil
		} else {
			current := len(w.stack) - 1
			if current < 0 {
				return nil, io.EOF
			}

			var err error
			c, err = w.stack[current].Next()
			if err == io.EOF {
				w.stack = w.stack[:current]
				continue
			}

			if err != nil {
				return nil, err
			}
		}

		if w.seen[c.Hash] || w.seenExternal[c.Hash] {
			continue
		}

		w.seen[c.Hash] = true

		if c.NumParents() > 0 {
			w.stack = append(w.stack, filteredParentIter(c, w.seen))
		}

		return c, nil
	}
}

func filteredParentIter(c *Commit, seen map[plumbing.Hash]bool) CommitIter {
	var hashes []plumbing.Hash
	for _, h := range c.ParentHashes {
		if !seen[h] {
			hashes = append(hashes, h)
		}
	}

	return NewCommitIter(c.s,
		storer.NewEncodedObjectLookupIter(c.s, plumbing.CommitObject, hashes),
	)
}

func (w *commitPreIterator) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = cb(c)
		if err == storer.ErrStop {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *commitPreIterator) Close() {}

type commitPostIterator struct {
	stack     *arraystack.Stack
	seen      map[plumbing.Hash]bool
	firstOnly bool
}

// NewCommitPostorderIter returns a CommitIter that walks the commit history
// in post-order: after walking a merge commit, the merged commits are
// walked before the base it was merged on. Ignore allows skipping commits.
func NewCommitPostorderIter(c *Commit, ignore []plumbing.Hash) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}

	stack := arraystack.New()
	stack.Push(c)
	return &commitPostIterator{
		stack: stack,
		seen:  seen,
	}
}

// NewCommitPostorderIterFirstParent is like NewCommitPostorderIter but only
// follows each commit's first parent, the way "git log --first-parent"
// walks a branch's own history without descending into merged-in commits.
func NewCommitPostorderIterFirstParent(c *Commit, ignore []plumbing.Hash) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}

	stack := arraystack.New()
	stack.Push(c)
	return &commitPostIterator{
		stack:     stack,
		seen:      seen,
		firstOnly: true,
	}
}

func (w *commitPostIterator) Next() (*Commit, error) {
	for {
		v, ok := w.stack.Pop()
		if !ok {
			return nil, io.EOF
		}
		c := v.(*Commit)

		if w.seen[c.Hash] {
			continue
		}

		w.seen[c.Hash] = true

		if w.firstOnly {
			if c.NumParents() > 0 {
				p, err := c.Parent(0)
				if err != nil {
					return nil, err
				}
				w.stack.Push(p)
			}
			return c, nil
		}

		return c, c.Parents().ForEach(func(p *Commit) error {
			w.stack.Push(p)
			return nil
		})
	}
}

func (w *commitPostIterator) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = cb(c)
		if err == storer.ErrStop {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *commitPostIterator) Close() {}

// commitAllIterator stands for a commit iterator over every ref.
type commitAllIterator struct {
	el *list.Element
}

// NewCommitAllIter returns a CommitIter covering every reference in s, each
// walked with fn (e.g. NewCommitPreorderIter), merged into one chronological
// sequence by insertion order.
func NewCommitAllIter(s storer.Storer, fn func(*Commit) CommitIter) (CommitIter, error) {
	l := list.New()
	m := make(map[plumbing.Hash]*list.Element)

	head, err := storer.ResolveReference(s, plumbing.HEAD)
	if err == nil {
		headCommit, err := GetCommit(s, head.Hash())
		if err == nil {
			err = fn(headCommit).ForEach(func(c *Commit) error {
				el := l.PushBack(c)
				m[c.Hash] = el
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	refIter, err := s.IterReferences()
	if err != nil {
		return nil, err
	}
	defer refIter.Close()
	err = refIter.ForEach(func(r *plumbing.Reference) error {
		if head != nil && r.Hash() == head.Hash() {
			return nil
		}
		c, _ := GetCommit(s, r.Hash())
		if c == nil {
			return nil
		}

		el, ok := m[c.Hash]
		if ok {
			return nil
		}

		var refCommits []*Commit
		cit := fn(c)
		for cc, e := cit.Next(); e == nil; {
			el, ok = m[cc.Hash]
			if ok {
				break
			}
			refCommits = append(refCommits, cc)
			cc, e = cit.Next()
		}
		cit.Close()

		if el == nil {
			for _, cc := range refCommits {
				el = l.PushBack(cc)
				m[cc.Hash] = el
			}
		} else {
			for i := len(refCommits) - 1; i >= 0; i-- {
				cc := refCommits[i]
				el = l.InsertBefore(cc, el)
				m[cc.Hash] = el
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &commitAllIterator{l.Front()}, nil
}

func (it *commitAllIterator) Next() (*Commit, error) {
	if it.el == nil {
		return nil, io.EOF
	}

	c := it.el.Value.(*Commit)
	it.el = it.el.Next()

	return c, nil
}

func (it *commitAllIterator) ForEach(cb func(*Commit) error) error {
	for {
		c, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = cb(c)
		if err == storer.ErrStop {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *commitAllIterator) Close() {
	it.el = nil
}

// CommitFilter reports whether a commit should be kept by NewFilterCommitIter.
type CommitFilter func(*Commit) bool

type filterCommitIter struct {
	source  CommitIter
	isValid *CommitFilter
	stopAt  *CommitFilter
	done    bool
}

// NewFilterCommitIter returns a CommitIter over the pre-order history
// starting at from, keeping only commits for which isValid (if set) returns
// true, and stopping the walk entirely (excluding the match) once stopAt
// (if set) returns true.
func NewFilterCommitIter(
	from *Commit,
	isValid *CommitFilter,
	stopAt *CommitFilter,
) CommitIter {
	return &filterCommitIter{
		source:  NewCommitPreorderIter(from, nil, nil),
		isValid: isValid,
		stopAt:  stopAt,
	}
}

func (w *filterCommitIter) Next() (*Commit, error) {
	if w.done {
		return nil, io.EOF
	}

	for {
		c, err := w.source.Next()
		if err != nil {
			w.done = true
			return nil, err
		}

		if w.stopAt != nil && (*w.stopAt)(c) {
			w.done = true
			return nil, io.EOF
		}

		if w.isValid != nil && !(*w.isValid)(c) {
			continue
		}

		return c, nil
	}
}

func (w *filterCommitIter) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = cb(c)
		if err == storer.ErrStop {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *filterCommitIter) Close() { w.source.Close() }

// NewCommitPathIterFromIter returns a CommitIter that filters source down
// to commits that introduced a change at path, by diffing each commit's
// tree against every parent's tree. A root commit, or any commit when
// checkParent is false, matches when its tree holds a matching path.
func NewCommitPathIterFromIter(
	path func(p string) bool,
	source CommitIter,
	checkParent bool,
) CommitIter {
	return &commitPathIterator{path: path, source: source, checkParent: checkParent}
}

type commitPathIterator struct {
	path        func(string) bool
	source      CommitIter
	checkParent bool
}

func (i *commitPathIterator) Next() (*Commit, error) {
	for {
		c, err := i.source.Next()
		if err != nil {
			return nil, err
		}

		found, err := i.commitTouchesPath(c)
		if err != nil {
			return nil, err
		}
		if found {
			return c, nil
		}
	}
}

func (i *commitPathIterator) commitTouchesPath(c *Commit) (bool, error) {
	tree, err := c.Tree()
	if err != nil {
		return false, err
	}

	if c.NumParents() == 0 {
		return treeHasMatchingPath(tree, i.path), nil
	}

	if !i.checkParent {
		return treeHasMatchingPath(tree, i.path), nil
	}

	for n := 0; n < c.NumParents(); n++ {
		parent, err := c.Parent(n)
		if err != nil {
			return false, err
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return false, err
		}

		changes, err := DiffTree(parentTree, tree)
		if err != nil {
			return false, err
		}

		for _, ch := range changes {
			if i.path(ch.Path()) {
				return true, nil
			}
		}
	}

	return false, nil
}

func treeHasMatchingPath(t *Tree, match func(string) bool) bool {
	found := false
	_ = t.Files().ForEach(func(f *File) error {
		if match(f.Name) {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	return found
}

func (i *commitPathIterator) ForEach(cb func(*Commit) error) error {
	for {
		c, err := i.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				break
			}
			return err
		}
	}
	return nil
}

func (i *commitPathIterator) Close() { i.source.Close() }
