package object

import (
	"container/heap"
	"container/list"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// commitIterBSF walks commit history breadth-first: all of a generation's
// commits are visited before any of their parents.
type commitIterBSF struct {
	seen  map[plumbing.Hash]bool
	queue *list.List
}

// NewCommitIterBSF returns a CommitIter that walks history breadth-first
// starting at c. seenExternal marks commits (e.g. from another branch
// already walked) to skip without visiting. ignore marks commits to treat
// as already seen.
func NewCommitIterBSF(
	c *Commit,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}
	if seenExternal != nil {
		for h := range seenExternal {
			seen[h] = true
		}
	}

	queue := list.New()
	queue.PushBack(c)
	seen[c.Hash] = true

	return &commitIterBSF{seen: seen, queue: queue}
}

func (w *commitIterBSF) Next() (*Commit, error) {
	var el *list.Element
	for {
		el = w.queue.Front()
		if el == nil {
			return nil, io.EOF
		}
		w.queue.Remove(el)
		c := el.Value.(*Commit)

		err := c.Parents().ForEach(func(p *Commit) error {
			if w.seen[p.Hash] {
				return nil
			}
			w.seen[p.Hash] = true
			w.queue.PushBack(p)
			return nil
		})
		if err != nil {
			return nil, err
		}

		return c, nil
	}
}

func (w *commitIterBSF) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

func (w *commitIterBSF) Close() {}

// commitTimeHeap is a max-heap of commits ordered by committer time, so the
// most recent unvisited commit is always popped first (the "date order"
// log walk).
type commitTimeHeap []*Commit

func (h commitTimeHeap) Len() int { return len(h) }
func (h commitTimeHeap) Less(i, j int) bool {
	return h[i].Committer.When.After(h[j].Committer.When)
}
func (h commitTimeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *commitTimeHeap) Push(x interface{}) {
	*h = append(*h, x.(*Commit))
}
func (h *commitTimeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type commitIterCTime struct {
	seen map[plumbing.Hash]bool
	heap *commitTimeHeap
}

// NewCommitIterCTime returns a CommitIter that walks history starting at c,
// always visiting the highest committer-time unvisited commit next
// (matching "git log --date-order").
func NewCommitIterCTime(
	c *Commit,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}
	if seenExternal != nil {
		for h := range seenExternal {
			seen[h] = true
		}
	}

	h := &commitTimeHeap{c}
	heap.Init(h)
	seen[c.Hash] = true

	return &commitIterCTime{seen: seen, heap: h}
}

func (w *commitIterCTime) Next() (*Commit, error) {
	if w.heap.Len() == 0 {
		return nil, io.EOF
	}

	c := heap.Pop(w.heap).(*Commit)

	err := c.Parents().ForEach(func(p *Commit) error {
		if w.seen[p.Hash] {
			return nil
		}
		w.seen[p.Hash] = true
		heap.Push(w.heap, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (w *commitIterCTime) ForEach(cb func(*Commit) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

func (w *commitIterCTime) Close() {}

// commitNodeTimeHeap is the CommitNode analogue of commitTimeHeap, used by
// NewCommitNodeIterCTime so a CommitNodeIndex backed store can walk history
// without decoding every commit up front.
type commitNodeTimeHeap []CommitNode

func (h commitNodeTimeHeap) Len() int { return len(h) }
func (h commitNodeTimeHeap) Less(i, j int) bool {
	return h[i].CommitTime().After(h[j].CommitTime())
}
func (h commitNodeTimeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *commitNodeTimeHeap) Push(x interface{}) {
	*h = append(*h, x.(CommitNode))
}
func (h *commitNodeTimeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type commitNodeIterCTime struct {
	seen map[plumbing.Hash]bool
	heap *commitNodeTimeHeap
}

// NewCommitNodeIterCTime is the CommitNode-level equivalent of
// NewCommitIterCTime.
func NewCommitNodeIterCTime(
	c CommitNode,
	seenExternal map[plumbing.Hash]bool,
	ignore []plumbing.Hash,
) CommitNodeIter {
	seen := make(map[plumbing.Hash]bool)
	for _, h := range ignore {
		seen[h] = true
	}
	if seenExternal != nil {
		for h := range seenExternal {
			seen[h] = true
		}
	}

	h := &commitNodeTimeHeap{c}
	heap.Init(h)
	seen[c.ID()] = true

	return &commitNodeIterCTime{seen: seen, heap: h}
}

func (w *commitNodeIterCTime) Next() (CommitNode, error) {
	if w.heap.Len() == 0 {
		return nil, io.EOF
	}

	c := heap.Pop(w.heap).(CommitNode)

	err := c.ParentNodes().ForEach(func(p CommitNode) error {
		if w.seen[p.ID()] {
			return nil
		}
		w.seen[p.ID()] = true
		heap.Push(w.heap, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (w *commitNodeIterCTime) ForEach(cb func(CommitNode) error) error {
	for {
		c, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

func (w *commitNodeIterCTime) Close() {}
