package vcs

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/filemode"
	"github.com/statewalker/vcs-sub000/plumbing/format/index"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// writeBlobObject stores content as a blob and returns its hash.
func writeBlobObject(s storer.EncodedObjectStorer, content []byte) (plumbing.Hash, error) {
	obj := s.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.SetEncodedObject(obj)
}

// matchesPattern extends filepath.Match (the syntax index.Glob already uses)
// with two conveniences commands need: "." or "" match every path, and a
// plain directory name also matches everything under it.
func matchesPattern(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	if pattern == "." || pattern == "" {
		return true
	}
	if ok, _ := filepath.Match(pattern, path); ok {
		return true
	}
	return strings.HasPrefix(path, pattern+"/")
}

// upsertEntry sets path's stage-0 index entry to (mode, hash, size),
// creating it if absent.
func upsertEntry(idx *index.Index, path string, mode filemode.FileMode, hash plumbing.Hash, size int64) *index.Entry {
	e, err := idx.Entry(path)
	if err != nil {
		e = idx.Add(path)
	}
	e.Mode = mode
	e.Hash = hash
	e.Size = uint32(size)
	return e
}

// stageDeletions removes every stage-0 index entry that matches but wasn't
// seen in the current worktree walk (§4.10 Add "--all").
func stageDeletions(repo *Repository, matches func(string) bool, seen map[string]bool) ([]string, error) {
	var removed []string
	for _, e := range append([]*index.Entry(nil), repo.Index.Entries...) {
		if e.Stage != index.Merged || !matches(e.Name) || seen[e.Name] {
			continue
		}
		if _, err := repo.Index.Remove(e.Name); err != nil && err != index.ErrEntryNotFound {
			return nil, err
		}
		removed = append(removed, e.Name)
	}
	return removed, nil
}

// stageTrackedChanges updates every already-tracked (stage-0) index entry
// to match the worktree: a path no longer present in the worktree is
// removed, and a path whose content hash changed is rewritten. It never
// stages paths the index doesn't already know about (§4.10 Commit "--all").
func stageTrackedChanges(repo *Repository) error {
	tracked := make([]*index.Entry, 0, len(repo.Index.Entries))
	for _, e := range repo.Index.Entries {
		if e.Stage == index.Merged {
			tracked = append(tracked, e)
		}
	}

	for _, e := range tracked {
		if !repo.Worktree.Exists(e.Name) {
			if _, err := repo.Index.Remove(e.Name); err != nil && err != index.ErrEntryNotFound {
				return err
			}
			continue
		}

		r, err := repo.Worktree.ReadContent(e.Name)
		if err != nil {
			return err
		}
		content, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return err
		}

		hash, err := writeBlobObject(repo.Storer, content)
		if err != nil {
			return err
		}
		if hash != e.Hash {
			e.Hash = hash
			e.Size = uint32(len(content))
		}
	}

	return nil
}
