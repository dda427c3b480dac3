package reference

import (
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// References returns all references from the storage.
func References(st storer.ReferenceStorer) ([]*plumbing.Reference, error) {
	var localRefs []*plumbing.Reference

	iter, err := st.IterReferences()
	if err != nil {
		return nil, err
	}

	for {
		ref, err := iter.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		localRefs = append(localRefs, ref)
	}

	return localRefs, nil
}
