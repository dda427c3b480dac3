package pack

import (
	"sync"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// Consolidator merges small packs in a Directory into fewer, larger ones
// (§4.5 PackConsolidator). It never drops an object: every OID resolvable
// before a run of Consolidate stays resolvable after.
type Consolidator struct {
	dir *Directory

	// MaxPacks and MinPackSize gate ShouldConsolidate: consolidation is
	// worth running once there are more than MaxPacks packs, or more
	// than ten packs smaller than MinPackSize.
	MaxPacks    int
	MinPackSize int64

	// MaxObjects and MaxBytes size each pack Consolidate produces; see
	// PendingPack.
	MaxObjects int
	MaxBytes   int64
}

// NewConsolidator returns a Consolidator over dir with the given
// defaults.
func NewConsolidator(dir *Directory) *Consolidator {
	return &Consolidator{
		dir:         dir,
		MaxPacks:    10,
		MinPackSize: 1 << 20, // 1MiB
		MaxObjects:  0,
		MaxBytes:    1 << 28, // 256MiB
	}
}

// ShouldConsolidate reports whether the directory has accumulated enough
// small packs to be worth merging.
func (c *Consolidator) ShouldConsolidate() bool {
	infos := c.dir.packInfos()
	if len(infos) > c.MaxPacks {
		return true
	}

	small := 0
	for _, p := range infos {
		if p.size < c.MinPackSize {
			small++
		}
	}
	return small > 10
}

// candidates returns the packs consolidation should absorb: every pack
// smaller than MinPackSize if that filter is set, otherwise every pack.
func (c *Consolidator) candidates() []packInfo {
	infos := c.dir.packInfos()
	if c.MinPackSize <= 0 {
		return infos
	}

	var out []packInfo
	for _, p := range infos {
		if p.size < c.MinPackSize {
			out = append(out, p)
		}
	}
	return out
}

// Consolidate streams every object out of the candidate packs (re-
// materializing deltas as full objects along the way, since
// packfile.Encoder only writes whole objects), accumulates them into one
// or more PendingPacks, flushes each into a new registered pack, then
// removes the originals. progress, if non-nil, is called after every
// object has been read from its source pack with (processed, total).
//
// Enumeration order across the merged packs is not preserved.
func (c *Consolidator) Consolidate(progress func(processed, total int)) error {
	candidates := c.candidates()
	if len(candidates) == 0 {
		return nil
	}

	total := 0
	for _, p := range candidates {
		total += p.idx.Count()
	}

	// Decoding a pack (entriesOf -> Directory.decode) is the CPU-bound
	// part of consolidation and is independent per candidate, so it runs
	// concurrently; the accumulation below it (dedup against written,
	// size-bounded flushing) is inherently ordered and stays sequential.
	objsByPack := make([][]plumbing.EncodedObject, len(candidates))
	errsByPack := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i, p := range candidates {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			objs, err := c.dir.entriesOf(name)
			objsByPack[i] = objs
			errsByPack[i] = err
		}(i, p.name)
	}
	wg.Wait()
	for _, err := range errsByPack {
		if err != nil {
			return err
		}
	}

	pending := NewPendingPack(c.MaxObjects, c.MaxBytes)
	written := make(map[string]bool) // hash hex -> already staged across flushes
	processed := 0

	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		result, err := pending.Flush()
		if err != nil {
			return err
		}
		return c.dir.AddPack(result.PackName, result.PackData, result.IndexData)
	}

	for _, objs := range objsByPack {
		for _, obj := range objs {
			processed++
			if progress != nil {
				progress(processed, total)
			}

			h := obj.Hash().String()
			if written[h] {
				continue
			}
			written[h] = true

			pending.Add(obj)
			if pending.ShouldFlush() {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	for _, p := range candidates {
		if err := c.dir.RemovePack(p.name); err != nil {
			return err
		}
	}

	return c.dir.Invalidate()
}
