package plumbing

import "strings"

// ReferenceName is the fully qualified name of a reference, e.g.
// "refs/heads/main" or "HEAD".
type ReferenceName string

const (
	HEAD ReferenceName = "HEAD"

	refHeadPrefix   = "refs/heads/"
	refTagPrefix    = "refs/tags/"
	refRemotePrefix = "refs/remotes/"
)

// RefRevParseRules are the successive patterns rev-parse tries, in order,
// to expand a shorthand name (e.g. "main") into a fully qualified
// reference name. The first pattern that resolves to an existing
// reference wins.
var RefRevParseRules = []string{
	"%s",
	"refs/%s",
	"refs/tags/%s",
	"refs/heads/%s",
	"refs/remotes/%s",
	"refs/remotes/%s/HEAD",
}

// NewBranchReferenceName builds the fully qualified name of a branch.
func NewBranchReferenceName(name string) ReferenceName {
	return ReferenceName(refHeadPrefix + name)
}

// NewTagReferenceName builds the fully qualified name of a tag.
func NewTagReferenceName(name string) ReferenceName {
	return ReferenceName(refTagPrefix + name)
}

// NewRemoteReferenceName builds the fully qualified name of a remote-tracking branch.
func NewRemoteReferenceName(remote, name string) ReferenceName {
	return ReferenceName(refRemotePrefix + remote + "/" + name)
}

func (n ReferenceName) String() string { return string(n) }

// IsBranch reports whether n is under refs/heads/.
func (n ReferenceName) IsBranch() bool { return strings.HasPrefix(string(n), refHeadPrefix) }

// IsTag reports whether n is under refs/tags/.
func (n ReferenceName) IsTag() bool { return strings.HasPrefix(string(n), refTagPrefix) }

// IsRemote reports whether n is under refs/remotes/.
func (n ReferenceName) IsRemote() bool { return strings.HasPrefix(string(n), refRemotePrefix) }

// Short returns the shorthand form of a branch/tag/remote reference name
// (the part after the last well-known prefix), or the full name unchanged
// for anything else (HEAD, a raw refs/* path that isn't one of the three).
func (n ReferenceName) Short() string {
	s := string(n)
	for _, prefix := range []string{refHeadPrefix, refTagPrefix, refRemotePrefix} {
		if strings.HasPrefix(s, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// ReferenceType distinguishes a symbolic ref (points to another ref by
// name) from a hash ref (points directly at an object id).
type ReferenceType int8

const (
	InvalidReference ReferenceType = iota
	HashReference
	SymbolicReference
)

// Reference is either a direct (hash) reference or a symbolic reference
// chaining to another reference name.
type Reference struct {
	typ    ReferenceType
	name   ReferenceName
	hash   Hash
	target ReferenceName
}

// NewReferenceFromStrings builds a Reference the way a ref storage backend
// parses a line of "packed-refs"-like input: if target looks like a hash,
// it's a hash reference, otherwise it's symbolic.
func NewReferenceFromStrings(name, target string) *Reference {
	if IsHash(target) {
		return NewHashReference(ReferenceName(name), NewHash(target))
	}
	return NewSymbolicReference(ReferenceName(name), ReferenceName(target))
}

// NewHashReference creates a direct reference with the given name pointing
// at hash.
func NewHashReference(name ReferenceName, hash Hash) *Reference {
	return &Reference{typ: HashReference, name: name, hash: hash}
}

// NewSymbolicReference creates a symbolic reference with the given name
// pointing at target.
func NewSymbolicReference(name, target ReferenceName) *Reference {
	return &Reference{typ: SymbolicReference, name: name, target: target}
}

func (r *Reference) Type() ReferenceType    { return r.typ }
func (r *Reference) Name() ReferenceName    { return r.name }
func (r *Reference) Hash() Hash             { return r.hash }
func (r *Reference) Target() ReferenceName  { return r.target }

func (r *Reference) String() string {
	switch r.typ {
	case HashReference:
		return r.hash.String() + " " + string(r.name)
	case SymbolicReference:
		return "ref: " + string(r.target) + " " + string(r.name)
	default:
		return "<invalid reference>"
	}
}

// Strings returns the (name, target) pair as used by NewReferenceFromStrings,
// with target either a hex hash or another reference name.
func (r *Reference) Strings() [2]string {
	var target string
	switch r.typ {
	case HashReference:
		target = r.hash.String()
	case SymbolicReference:
		target = string(r.target)
	}
	return [2]string{string(r.name), target}
}
