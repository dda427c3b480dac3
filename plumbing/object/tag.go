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

// Tag is an annotated tag (§3): a named, signed-or-not pointer at another
// object (almost always a Commit), carrying its own tagger identity and
// message distinct from whatever it points at.
type Tag struct {
	Hash       plumbing.Hash
	Name       string
	Tagger     Signature
	Message    string
	TargetType plumbing.ObjectType
	Target     plumbing.Hash

	s storer.EncodedObjectStorer
}

// ID returns the Tag's hash.
func (t *Tag) ID() plumbing.Hash { return t.Hash }

// Type always returns plumbing.TagObject.
func (t *Tag) Type() plumbing.ObjectType { return plumbing.TagObject }

// Commit resolves Target as a Commit. It fails with ErrUnsupportedObject if
// the tag does not point at a commit.
func (t *Tag) Commit() (*Commit, error) {
	if t.TargetType != plumbing.CommitObject {
		return nil, ErrUnsupportedObject
	}
	return GetCommit(t.s, t.Target)
}

// Tree resolves Target as a Tree, following through a tagged commit if
// necessary.
func (t *Tag) Tree() (*Tree, error) {
	switch t.TargetType {
	case plumbing.CommitObject:
		c, err := t.Commit()
		if err != nil {
			return nil, err
		}
		return c.Tree()
	case plumbing.TreeObject:
		return GetTree(t.s, t.Target)
	default:
		return nil, ErrUnsupportedObject
	}
}

// Blob resolves Target as a Blob. It fails with ErrUnsupportedObject if the
// tag does not point directly at a blob.
func (t *Tag) Blob() (*Blob, error) {
	if t.TargetType != plumbing.BlobObject {
		return nil, ErrUnsupportedObject
	}
	return GetBlob(t.s, t.Target)
}

// Object resolves Target as whichever concrete Object it is.
func (t *Tag) Object() (Object, error) {
	o, err := t.s.EncodedObject(t.TargetType, t.Target)
	if err != nil {
		return nil, err
	}
	return DecodeObject(t.s, o)
}

// Decode parses o's content into t (§6): "object"/"type"/"tag"/"tagger"
// header lines, a blank line, then the message.
func (t *Tag) Decode(o plumbing.EncodedObject) error {
	if o.Type() != plumbing.TagObject {
		return plumbing.ErrInvalidType
	}

	t.Hash = o.Hash()

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
		case "object":
			t.Target = plumbing.NewHash(value)
		case "type":
			t.TargetType, err = plumbing.ParseObjectType(value)
			if err != nil {
				return fmt.Errorf("object: decoding tag %s: %w", t.Hash, err)
			}
		case "tag":
			t.Name = value
		case "tagger":
			t.Tagger.Decode([]byte(value))
		}

		if err == io.EOF {
			break
		}
	}

	msg, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	t.Message = string(msg)

	return nil
}

// Encode writes t's content into o.
func (t *Tag) Encode(o plumbing.EncodedObject) error {
	o.SetType(plumbing.TagObject)
	w, err := o.Writer()
	if err != nil {
		return err
	}
	defer w.Close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Target.String())
	fmt.Fprintf(&buf, "type %s\n", t.TargetType.String())
	fmt.Fprintf(&buf, "tag %s\n", t.Name)

	buf.WriteString("tagger ")
	t.Tagger.Encode(&buf)
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(t.Message)

	_, err = w.Write(buf.Bytes())
	return err
}

// GetTag loads and decodes the Tag with hash h from s.
func GetTag(s storer.EncodedObjectStorer, h plumbing.Hash) (*Tag, error) {
	o, err := s.EncodedObject(plumbing.TagObject, h)
	if err != nil {
		return nil, err
	}

	t := &Tag{s: s}
	return t, t.Decode(o)
}

// TagIter is a finite, non-restartable sequence of tags.
type TagIter struct {
	s    storer.EncodedObjectStorer
	iter storer.EncodedObjectIter
}

// NewTagIter wraps iter, decoding each yielded object as a *Tag.
func NewTagIter(s storer.EncodedObjectStorer, iter storer.EncodedObjectIter) *TagIter {
	return &TagIter{s: s, iter: iter}
}

// Next returns the next Tag, or io.EOF when exhausted.
func (i *TagIter) Next() (*Tag, error) {
	o, err := i.iter.Next()
	if err != nil {
		return nil, err
	}

	t := &Tag{s: i.s}
	return t, t.Decode(o)
}

// ForEach calls cb for every remaining tag.
func (i *TagIter) ForEach(cb func(*Tag) error) error {
	for {
		t, err := i.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(t); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Close releases the underlying iterator.
func (i *TagIter) Close() { i.iter.Close() }
