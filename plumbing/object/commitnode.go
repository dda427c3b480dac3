package object

import (
	"io"
	"time"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// CommitNode is the minimal view of a commit a history walk needs: its
// identity, its tree, and its parents. It lets walkers such as
// NewCommitNodeIterCTime traverse history without forcing every visited
// commit to be fully decoded up front.
type CommitNode interface {
	ID() plumbing.Hash
	Tree() (*Tree, error)
	CommitTime() time.Time
	NumParents() int
	ParentNodes() CommitNodeIter
	ParentNode(i int) (CommitNode, error)
	ParentHashes() []plumbing.Hash
}

// CommitNodeIndex resolves a commit hash to a CommitNode.
type CommitNodeIndex interface {
	Get(hash plumbing.Hash) (CommitNode, error)
}

// CommitNodeIter is a finite, non-restartable sequence of CommitNodes.
type CommitNodeIter interface {
	Next() (CommitNode, error)
	ForEach(func(CommitNode) error) error
	Close()
}

// objectCommitNode is the CommitNode view backed directly by a decoded
// Commit object.
type objectCommitNode struct {
	index  CommitNodeIndex
	commit *Commit
}

type objectCommitNodeIndex struct {
	s storer.EncodedObjectStorer
}

// NewObjectCommitNodeIndex returns a CommitNodeIndex that loads nodes
// straight from the object store.
func NewObjectCommitNodeIndex(s storer.EncodedObjectStorer) CommitNodeIndex {
	return &objectCommitNodeIndex{s}
}

func (idx *objectCommitNodeIndex) Get(hash plumbing.Hash) (CommitNode, error) {
	commit, err := GetCommit(idx.s, hash)
	if err != nil {
		return nil, err
	}
	return &objectCommitNode{index: idx, commit: commit}, nil
}

func (c *objectCommitNode) ID() plumbing.Hash       { return c.commit.ID() }
func (c *objectCommitNode) CommitTime() time.Time   { return c.commit.Committer.When }
func (c *objectCommitNode) Tree() (*Tree, error)    { return c.commit.Tree() }
func (c *objectCommitNode) NumParents() int         { return c.commit.NumParents() }
func (c *objectCommitNode) ParentHashes() []plumbing.Hash { return c.commit.ParentHashes }

func (c *objectCommitNode) ParentNodes() CommitNodeIter {
	return newParentCommitNodeIter(c)
}

func (c *objectCommitNode) ParentNode(i int) (CommitNode, error) {
	if i < 0 || i >= len(c.commit.ParentHashes) {
		return nil, ErrParentNotFound
	}
	return c.index.Get(c.commit.ParentHashes[i])
}

// Commit returns the underlying decoded Commit.
func (c *objectCommitNode) Commit() (*Commit, error) { return c.commit, nil }

type parentCommitNodeIter struct {
	node CommitNode
	i    int
}

func newParentCommitNodeIter(node CommitNode) CommitNodeIter {
	return &parentCommitNodeIter{node: node}
}

func (it *parentCommitNodeIter) Next() (CommitNode, error) {
	obj, err := it.node.ParentNode(it.i)
	if err == ErrParentNotFound {
		return nil, io.EOF
	}
	if err == nil {
		it.i++
	}
	return obj, err
}

func (it *parentCommitNodeIter) ForEach(cb func(CommitNode) error) error {
	for {
		obj, err := it.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := cb(obj); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

func (it *parentCommitNodeIter) Close() {}
