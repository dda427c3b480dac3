package object

import (
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
)

// Action describes what happened to a path between two trees.
type Action int

const (
	// Insert means the path exists only in the destination tree.
	Insert Action = iota
	// Delete means the path exists only in the source tree.
	Delete
	// Modify means the path exists in both trees with different content
	// or mode.
	Modify
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Modify:
		return "Modify"
	default:
		return "Unknown"
	}
}

// ChangeEntry names one side of a Change: the full slash-separated path and
// the tree entry found there, if any.
type ChangeEntry struct {
	Name string
	TreeEntry
}

// Change is a single difference between two trees at a path (§8): present
// on From for a deletion, on To for an insertion, and on both for a
// modification.
type Change struct {
	From ChangeEntry
	To   ChangeEntry
}

// Action reports which kind of change this is, based on which sides are set.
func (c *Change) Action() Action {
	if c.From.Name == "" {
		return Insert
	}
	if c.To.Name == "" {
		return Delete
	}
	return Modify
}

// Path returns the path this change applies to.
func (c *Change) Path() string {
	if c.From.Name != "" {
		return c.From.Name
	}
	return c.To.Name
}

// Changes is an ordered set of tree differences.
type Changes []*Change

// DiffTree compares the content and mode of every blob reachable from two
// trees via a lockstep walk of their sorted entries (§8), recursing into
// subtrees only when their hash differs.
func DiffTree(a, b *Tree) (Changes, error) {
	return diffTrees("", a, b)
}

func diffTrees(prefix string, a, b *Tree) (Changes, error) {
	ae := sortedCopy(a)
	be := sortedCopy(b)

	var changes Changes
	i, j := 0, 0
	for i < len(ae) || j < len(be) {
		switch {
		case j >= len(be) || (i < len(ae) && sortKey(ae[i]) < sortKey(be[j])):
			sub, err := expandEntry(prefix, a, ae[i], Delete)
			if err != nil {
				return nil, err
			}
			changes = append(changes, sub...)
			i++
		case i >= len(ae) || sortKey(ae[i]) > sortKey(be[j]):
			sub, err := expandEntry(prefix, b, be[j], Insert)
			if err != nil {
				return nil, err
			}
			changes = append(changes, sub...)
			j++
		default:
			ea, eb := ae[i], be[j]
			path := joinPath(prefix, ea.Name)

			switch {
			case ea.Mode == filemode.Dir && eb.Mode == filemode.Dir:
				if ea.Hash != eb.Hash {
					subA, err := a.subtree(&ea)
					if err != nil {
						return nil, err
					}
					subB, err := b.subtree(&eb)
					if err != nil {
						return nil, err
					}
					sub, err := diffTrees(path, subA, subB)
					if err != nil {
						return nil, err
					}
					changes = append(changes, sub...)
				}
			case ea.Mode == filemode.Dir:
				subA, err := expandEntry(prefix, a, ea, Delete)
				if err != nil {
					return nil, err
				}
				changes = append(changes, subA...)
				changes = append(changes, &Change{To: ChangeEntry{Name: path, TreeEntry: eb}})
			case eb.Mode == filemode.Dir:
				subB, err := expandEntry(prefix, b, eb, Insert)
				if err != nil {
					return nil, err
				}
				changes = append(changes, &Change{From: ChangeEntry{Name: path, TreeEntry: ea}})
				changes = append(changes, subB...)
			case ea.Hash != eb.Hash || !modeEquivalent(ea.Mode, eb.Mode):
				changes = append(changes, &Change{
					From: ChangeEntry{Name: path, TreeEntry: ea},
					To:   ChangeEntry{Name: path, TreeEntry: eb},
				})
			}

			i++
			j++
		}
	}

	return changes, nil
}

// modeEquivalent treats the deprecated non-executable file mode as
// equivalent to the modern one, the way git itself ignores that distinction
// when diffing (it is only ever produced by very old history).
func modeEquivalent(a, b filemode.FileMode) bool {
	normalize := func(m filemode.FileMode) filemode.FileMode {
		if m == filemode.Deprecated {
			return filemode.Regular
		}
		return m
	}
	return normalize(a) == normalize(b)
}

func expandEntry(prefix string, t *Tree, e TreeEntry, action Action) (Changes, error) {
	path := joinPath(prefix, e.Name)

	if e.Mode != filemode.Dir {
		entry := ChangeEntry{Name: path, TreeEntry: e}
		if action == Insert {
			return Changes{{To: entry}}, nil
		}
		return Changes{{From: entry}}, nil
	}

	sub, err := t.subtree(&e)
	if err != nil {
		return nil, err
	}

	var changes Changes
	err = sub.Files().ForEach(func(f *File) error {
		full := joinPath(path, f.Name)
		entry := ChangeEntry{Name: full, TreeEntry: TreeEntry{Name: f.Name, Mode: f.Mode, Hash: f.Hash}}
		if action == Insert {
			changes = append(changes, &Change{To: entry})
		} else {
			changes = append(changes, &Change{From: entry})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return changes, nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func sortedCopy(t *Tree) []TreeEntry {
	entries := make([]TreeEntry, len(t.Entries))
	copy(entries, t.Entries)
	sortTreeEntries(entries)
	return entries
}
