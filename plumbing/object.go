// Package plumbing implements the low-level object model shared by every
// higher-level command in this module: object identity, the wire encoding of
// blobs/trees/commits/tags, and the reference graph that commands traverse.
package plumbing

import (
	"errors"
	"io"
)

var (
	// ErrObjectNotFound is returned when an object is not found in a store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidType is returned when an invalid object type is provided.
	ErrInvalidType = errors.New("invalid object type")
)

// EncodedObject is a generic, store-agnostic representation of a git object:
// its identity, type, size, and a stream of its wire-format payload.
type EncodedObject interface {
	Hash() Hash
	Type() ObjectType
	SetType(ObjectType)
	Size() int64
	SetSize(int64)
	Reader() (io.ReadCloser, error)
	Writer() (io.WriteCloser, error)
}

// DeltaObject is an EncodedObject representing a delta against a base
// object, as produced while reading a pack file.
type DeltaObject interface {
	EncodedObject
	// BaseHash is the hash of the object this delta is based on.
	BaseHash() Hash
	// ActualHash is the hash of the object once the delta is applied.
	ActualHash() Hash
	// ActualSize is the size of the object once the delta is applied.
	ActualSize() int64
}

// ObjectType identifies the kind of a git object. Values 0-7 match git's own
// on-disk encoding so pack object headers can use it directly.
type ObjectType int8

const (
	InvalidObject  ObjectType = 0
	CommitObject   ObjectType = 1
	TreeObject     ObjectType = 2
	BlobObject     ObjectType = 3
	TagObject      ObjectType = 4
	OFSDeltaObject ObjectType = 6
	REFDeltaObject ObjectType = 7

	// AnyObject matches any object type in a query.
	AnyObject ObjectType = -127
)

func (t ObjectType) String() string {
	switch t {
	case CommitObject:
		return "commit"
	case TreeObject:
		return "tree"
	case BlobObject:
		return "blob"
	case TagObject:
		return "tag"
	case OFSDeltaObject:
		return "ofs-delta"
	case REFDeltaObject:
		return "ref-delta"
	case AnyObject:
		return "any"
	default:
		return "unknown"
	}
}

// Bytes returns the ASCII wire-format name of the type ("commit", "tree", ...).
func (t ObjectType) Bytes() []byte { return []byte(t.String()) }

// Valid reports whether t is one of the four storable object kinds.
func (t ObjectType) Valid() bool {
	return t == CommitObject || t == TreeObject || t == BlobObject || t == TagObject
}

// IsDelta reports whether t represents a pack delta encoding.
func (t ObjectType) IsDelta() bool {
	return t == REFDeltaObject || t == OFSDeltaObject
}

// ParseObjectType parses the wire-format type name used in object headers.
func ParseObjectType(value string) (ObjectType, error) {
	switch value {
	case "commit":
		return CommitObject, nil
	case "tree":
		return TreeObject, nil
	case "blob":
		return BlobObject, nil
	case "tag":
		return TagObject, nil
	case "ofs-delta":
		return OFSDeltaObject, nil
	case "ref-delta":
		return REFDeltaObject, nil
	default:
		return InvalidObject, ErrInvalidType
	}
}
