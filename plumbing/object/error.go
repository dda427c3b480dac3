package object

import "errors"

var (
	// ErrUnsupportedObject is returned by Tag's Commit/Tree/Blob accessors
	// when the tag does not point at that kind of object.
	ErrUnsupportedObject = errors.New("unsupported object type")
	// ErrMaxTreeDepth is returned by tree traversal once the recursion depth
	// exceeds the limit below, guarding against maliciously self-referential
	// or extremely deep trees.
	ErrMaxTreeDepth = errors.New("maximum tree depth exceeded")
	// ErrFileNotFound is returned when a path is not present in a tree.
	ErrFileNotFound = errors.New("file not found")
	// ErrEntryNotFound is returned when a name is not present as a direct
	// entry of a tree.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrDirectoryNotFound is returned when an intermediate path component
	// addressed during tree lookup is not itself a tree.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrParentNotFound is returned by CommitNode.ParentNode for an
	// out-of-range parent index.
	ErrParentNotFound = errors.New("commit parent not found")
)

// maxTreeDepth mirrors git's own recursion guard for tree walks.
const maxTreeDepth = 1000
