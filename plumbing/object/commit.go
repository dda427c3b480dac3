package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// Commit is a snapshot of the repository at a point in time, plus the
// metadata describing how it came to be (§3, §6): the tree it points at,
// zero or more parents, and an author/committer identity and message.
type Commit struct {
	Hash         plumbing.Hash
	Author       Signature
	Committer    Signature
	Message      string
	TreeHash     plumbing.Hash
	ParentHashes []plumbing.Hash

	// ExtraHeaders preserves any header line this module does not
	// interpret (e.g. "gpgsig", "mergetag", "encoding"), verbatim and in
	// order, so decoding and re-encoding an existing commit is lossless.
	ExtraHeaders []ExtraHeader

	s storer.EncodedObjectStorer
}

// ExtraHeader is a raw, uninterpreted commit header line (and its possibly
// multi-line continuation, as used by "gpgsig").
type ExtraHeader struct {
	Key   string
	Value string
}

// ID returns the Commit's hash.
func (c *Commit) ID() plumbing.Hash { return c.Hash }

// Type always returns plumbing.CommitObject.
func (c *Commit) Type() plumbing.ObjectType { return plumbing.CommitObject }

// NumParents returns the number of parent commits.
func (c *Commit) NumParents() int { return len(c.ParentHashes) }

// Tree loads the Tree this commit points at.
func (c *Commit) Tree() (*Tree, error) {
	return GetTree(c.s, c.TreeHash)
}

// Parent loads the i-th parent commit.
func (c *Commit) Parent(i int) (*Commit, error) {
	if i < 0 || i >= len(c.ParentHashes) {
		return nil, ErrParentNotFound
	}
	return GetCommit(c.s, c.ParentHashes[i])
}

// Parents returns an iterator over this commit's parent commits, in order.
func (c *Commit) Parents() CommitIter {
	return NewCommitIter(c.s, storer.NewEncodedObjectLookupIter(c.s, plumbing.CommitObject, c.ParentHashes))
}

// Decode parses o's content into c (§6): a "tree" line, zero or more
// "parent" lines, "author" and "committer" identity lines, any number of
// other header lines kept verbatim, a blank line, then the message.
func (c *Commit) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.CommitObject {
		return plumbing.ErrInvalidType
	}

	c.Hash = o.Hash()
	c.ParentHashes = nil
	c.ExtraHeaders = nil

	r, err := o.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}

		trimmed := strings.TrimSuffix(line, "\n")
		if trimmed == "" {
			break
		}

		key, value, _ := strings.Cut(trimmed, " ")
		switch key {
		case "tree":
			c.TreeHash = plumbing.NewHash(value)
		case "parent":
			c.ParentHashes = append(c.ParentHashes, plumbing.NewHash(value))
		case "author":
			c.Author.Decode([]byte(value))
		case "committer":
			c.Committer.Decode([]byte(value))
		default:
			extra, err := readExtraHeader(reader, key, value)
			if err != nil {
				return err
			}
			c.ExtraHeaders = append(c.ExtraHeaders, extra)
		}

		if err == io.EOF {
			break
		}
	}

	msg, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	c.Message = string(msg)

	return nil
}

// readExtraHeader folds a continuation block (lines starting with a space,
// as used by "gpgsig") into a single ExtraHeader value.
func readExtraHeader(r *bufio.Reader, key, firstValue string) (ExtraHeader, error) {
	var b strings.Builder
	b.WriteString(firstValue)

	for {
		peek, err := r.Peek(1)
		if err != nil || len(peek) == 0 || peek[0] != ' ' {
			break
		}
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return ExtraHeader{}, err
		}
		b.WriteByte('\n')
		b.WriteString(strings.TrimPrefix(strings.TrimSuffix(line, "\n"), " "))
		if err == io.EOF {
			break
		}
	}

	return ExtraHeader{Key: key, Value: b.String()}, nil
}

// Encode writes c's content into o.
func (c *Commit) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.CommitObject)
	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash.String())
	for _, p := range c.ParentHashes {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}

	buf.WriteString("author ")
	c.Author.Encode(&buf)
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	c.Committer.Encode(&buf)
	buf.WriteByte('\n')

	for _, h := range c.ExtraHeaders {
		buf.WriteString(h.Key)
		buf.WriteByte(' ')
		buf.WriteString(strings.ReplaceAll(h.Value, "\n", "\n "))
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	buf.WriteString(c.Message)

	_, err = w.Write(buf.Bytes())
	return err
}

// String renders the commit the way "git log" shows a single entry.
func (c *Commit) String() string {
	return fmt.Sprintf(
		"%s %s\nAuthor: %s\nDate:   %s\n\n%s\n",
		plumbing.CommitObject, c.Hash, c.Author.String(),
		c.Author.When.Format("Mon Jan 2 15:04:05 2006 -0700"), indentMessage(c.Message),
	)
}

func indentMessage(msg string) string {
	lines := strings.Split(strings.TrimRight(msg, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

// GetCommit loads and decodes the Commit with hash h from s.
func GetCommit(s storer.EncodedObjectStorer, h plumbing.Hash) (*Commit, error) {
	o, err := s.EncodedObject(plumbing.CommitObject, h)
	if err != nil {
		return nil, err
	}

	c := &Commit{s: s}
	return c, c.Decode(o)
}

// CommitIter is a finite, non-restartable sequence of commits.
type CommitIter interface {
	Next() (*Commit, error)
	ForEach(func(*Commit) error) error
	Close()
}

type commitIter struct {
	s    storer.EncodedObjectStorer
	iter storer.EncodedObjectIter
}

// NewCommitIter wraps iter, decoding each yielded object as a *Commit.
func NewCommitIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) CommitIter {
	return &commitIter{s: s, iter: iter}
}

func (i *commitIter) Next() (*Commit, error) {
	o, err := i.iter.Next()
	if err != nil {
		return nil, err
	}

	c := &Commit{s: i.s}
	return c, c.Decode(o)
}

func (i *commitIter) ForEach(cb func(*Commit) error) error {
	for {
		c, err := i.Next()
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

func (i *commitIter) Close() { i.iter.Close() }
