package pack

import (
	"fmt"
	"strings"
	"sync"

	billy "github.com/go-git/go-billy/v5"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/format/idxfile"
	"github.com/statewalker/vcs-sub000/plumbing/format/packfile"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
	"github.com/statewalker/vcs-sub000/storage/memory"
)

const packPrefix = "pack-"
const packSuffix = ".pack"
const idxSuffix = ".idx"

// pack is one registered pack-<name>.pack / pack-<name>.idx pair. The idx
// is parsed eagerly at scan time (it's small); the pack itself is only
// fully decoded into cache on first object access, and then only once.
type pack struct {
	name string
	size int64
	idx  *idxfile.MemoryIndex

	once   sync.Once
	cache  *memory.Storage
	chains map[plumbing.Hash]packfile.ChainInfo
	err    error
}

func (p *pack) packFilename() string { return packPrefix + p.name + packSuffix }
func (p *pack) idxFilename() string  { return packPrefix + p.name + idxSuffix }

// Directory registers a set of sibling pack files (§4.5) against a
// billy.Filesystem, so the same type works against an in-memory memfs in
// tests and a real OS directory in production.
type Directory struct {
	fs  billy.Filesystem
	dir string

	// loose is consulted when a REF_DELTA base isn't found in any
	// registered pack (the loose-store fallback §4.5 calls for). Nil
	// means there is no loose fallback.
	loose storer.EncodedObjectStorer

	mu    sync.RWMutex
	packs []*pack
}

// NewDirectory returns a Directory over dir within fs. Call Scan before
// using it. loose may be nil.
func NewDirectory(fs billy.Filesystem, dir string, loose storer.EncodedObjectStorer) *Directory {
	return &Directory{fs: fs, dir: dir, loose: loose}
}

// snapshot returns the current pack set. Because Scan/Invalidate replace
// the whole slice under the write lock rather than mutating it in place, a
// call started before an Invalidate sees the old set, a call started
// after sees the new one, and no caller ever observes a half-installed
// pack: every *pack in a published slice was fully built (idx decoded)
// before the slice was published.
func (d *Directory) snapshot() []*pack {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.packs
}

// Scan discovers pack-<name>.pack/.idx pairs under dir and registers them,
// replacing whatever was previously registered. A name whose pack or idx
// file is missing is skipped, not an error, since that's exactly the
// transient state of a pack being written or removed.
func (d *Directory) Scan() error {
	packs, err := d.scanPacks()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.packs = packs
	d.mu.Unlock()
	return nil
}

// Invalidate re-scans the directory and atomically swaps in the new pack
// set (§4.5 "invalidate()": close readers, re-scan").
func (d *Directory) Invalidate() error {
	return d.Scan()
}

// scanPackWorkers bounds how many pack indexes scanPacks decodes at once.
// A repository can accumulate hundreds of packs between consolidations
// (§5), and idxfile decoding is CPU-bound, so a plain sequential loop
// makes Scan/Invalidate latency scale linearly with pack count; capping
// at a small worker count keeps the win without starving other
// goroutines on a small machine.
const scanPackWorkers = 8

func (d *Directory) scanPacks() ([]*pack, error) {
	infos, err := d.fs.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	names := map[string]bool{}
	sizes := map[string]int64{}
	for _, fi := range infos {
		base := fi.Name()
		if !strings.HasPrefix(base, packPrefix) || !strings.HasSuffix(base, packSuffix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(base, packPrefix), packSuffix)
		names[name] = true
		sizes[name] = fi.Size()
	}

	jobs := make(chan string)
	results := make([]*pack, len(names))
	errs := make([]error, len(names))

	var indexed []string
	for name := range names {
		indexed = append(indexed, name)
	}
	slots := map[string]int{}
	for i, name := range indexed {
		slots[name] = i
	}

	workers := scanPackWorkers
	if workers > len(indexed) {
		workers = len(indexed)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				slot := slots[name]
				idxPath := d.fs.Join(d.dir, packPrefix+name+idxSuffix)
				if _, err := d.fs.Stat(idxPath); err != nil {
					continue // no matching index yet: skip, don't fail the whole scan
				}
				idx, err := d.readIndex(idxPath)
				if err != nil {
					errs[slot] = err
					continue
				}
				results[slot] = &pack{name: name, size: sizes[name], idx: idx}
			}
		}()
	}
	for _, name := range indexed {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	var packs []*pack
	for i, p := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if p != nil {
			packs = append(packs, p)
		}
	}
	return packs, nil
}

func (d *Directory) readIndex(path string) (*idxfile.MemoryIndex, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx := idxfile.NewMemoryIndex()
	if err := idxfile.NewDecoder(f).Decode(idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// AddPack registers a new pack under name, writing packData and idxData
// to the filesystem. Both files are written to temporary names and
// renamed into place last, so a concurrent Scan never observes a
// half-written pack under its final name.
func (d *Directory) AddPack(name string, packData, idxData []byte) error {
	if err := d.writeFile(packPrefix+name+idxSuffix, idxData); err != nil {
		return err
	}
	if err := d.writeFile(packPrefix+name+packSuffix, packData); err != nil {
		return err
	}
	return d.Invalidate()
}

func (d *Directory) writeFile(name string, data []byte) error {
	tmp, err := d.fs.TempFile(d.dir, "tmp_pack_")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return d.fs.Rename(tmp.Name(), d.fs.Join(d.dir, name))
}

// RemovePack deletes the pack and index files for name.
func (d *Directory) RemovePack(name string) error {
	if err := d.fs.Remove(d.fs.Join(d.dir, packPrefix+name+packSuffix)); err != nil {
		return err
	}
	return d.fs.Remove(d.fs.Join(d.dir, packPrefix+name+idxSuffix))
}

// Has reports whether h is resolvable through some registered pack or
// the loose-store fallback.
func (d *Directory) Has(h plumbing.Hash) bool {
	for _, p := range d.snapshot() {
		if p.idx.Contains(h) {
			return true
		}
	}
	if d.loose != nil {
		return d.loose.HasEncodedObject(h) == nil
	}
	return false
}

// EncodedObject resolves h against the first pack whose index contains
// it, decoding that pack (lazily, once) if it hasn't been already.
func (d *Directory) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	for _, p := range d.snapshot() {
		if !p.idx.Contains(h) {
			continue
		}
		if err := d.decode(p); err != nil {
			return nil, err
		}
		obj, err := p.cache.EncodedObject(t, h)
		if err == nil {
			return obj, nil
		}
	}
	if d.loose != nil {
		return d.loose.EncodedObject(t, h)
	}
	return nil, plumbing.ErrObjectNotFound
}

// decode fully parses p's pack file into p.cache, resolving any REF_DELTA
// whose base isn't within p itself by consulting the rest of the
// directory (other packs, then the loose fallback) via resolveExternal.
// Parsing the whole pack up front rather than doing offset-indexed
// streaming random access is a deliberate simplification: it costs one
// extra full decode the first time any object in a pack is touched, but
// avoids re-implementing the packfile package's internal entry cursor
// from outside its package boundary.
func (d *Directory) decode(p *pack) error {
	p.once.Do(func() {
		f, err := d.fs.Open(d.fs.Join(d.dir, p.packFilename()))
		if err != nil {
			p.err = err
			return
		}
		defer f.Close()

		cache := memory.NewStorage()
		parser, err := packfile.NewParser(f, &externalResolver{d: d, skip: p})
		if err != nil {
			p.err = err
			return
		}
		hashes, err := parser.Parse(cache)
		if err != nil {
			p.err = err
			return
		}
		chains := make(map[plumbing.Hash]packfile.ChainInfo, len(hashes))
		for _, h := range hashes {
			if ci, ok := parser.ChainInfo(h); ok {
				chains[h] = ci
			}
		}
		p.cache = cache
		p.chains = chains
	})
	return p.err
}

// resolveExternal looks for h outside of skip: in every other registered
// pack, then in the loose fallback.
func (d *Directory) resolveExternal(skip *pack, t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	for _, p := range d.snapshot() {
		if p == skip || !p.idx.Contains(h) {
			continue
		}
		if err := d.decode(p); err != nil {
			continue
		}
		if obj, err := p.cache.EncodedObject(t, h); err == nil {
			return obj, nil
		}
	}
	if d.loose != nil {
		return d.loose.EncodedObject(t, h)
	}
	return nil, plumbing.ErrObjectNotFound
}

// externalResolver adapts Directory.resolveExternal to packfile.ObjectResolver.
type externalResolver struct {
	d    *Directory
	skip *pack
}

func (r *externalResolver) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	return r.d.resolveExternal(r.skip, t, h)
}

// DeltaChainInfo is the chain metadata for one object (§4.5
// get_delta_chain_info): Depth is how many delta hops separate h from
// BaseHash, the ultimate non-delta object the chain bottoms out at
// (zero Depth means h itself isn't stored as a delta). Packs names
// every registered pack whose index carries a copy of the hash (normally
// exactly one). A chain that crosses a pack boundary (its base resolved
// via another pack or the loose store rather than within the same pack)
// reports Depth/BaseHash relative to that crossing point, since nothing
// upstream of it was decoded as part of this pack's parse.
type DeltaChainInfo struct {
	Hash     plumbing.Hash
	Depth    int
	BaseHash plumbing.Hash
	Packs    []string
}

// GetDeltaChainInfo returns chain metadata for h, even when h is present
// in more than one pack. When h appears in several packs, the first
// pack (in registration order) that was willing to decode is used as
// the source of truth for Depth/BaseHash.
func (d *Directory) GetDeltaChainInfo(h plumbing.Hash) (*DeltaChainInfo, error) {
	info := &DeltaChainInfo{Hash: h}
	var source *pack
	for _, p := range d.snapshot() {
		if p.idx.Contains(h) {
			info.Packs = append(info.Packs, p.name)
			if source == nil {
				source = p
			}
		}
	}
	if len(info.Packs) == 0 {
		return nil, plumbing.ErrObjectNotFound
	}

	if err := d.decode(source); err != nil {
		return nil, err
	}
	if ci, ok := source.chains[h]; ok {
		info.Depth = ci.Depth
		info.BaseHash = ci.Base
	}
	return info, nil
}

// packInfo is the bookkeeping Consolidator needs per pack without reaching
// into the unexported pack type directly.
type packInfo struct {
	name string
	size int64
	idx  *idxfile.MemoryIndex
}

func (d *Directory) packInfos() []packInfo {
	snap := d.snapshot()
	out := make([]packInfo, len(snap))
	for i, p := range snap {
		out[i] = packInfo{name: p.name, size: p.size, idx: p.idx}
	}
	return out
}

func (d *Directory) entriesOf(name string) ([]plumbing.EncodedObject, error) {
	var target *pack
	for _, p := range d.snapshot() {
		if p.name == name {
			target = p
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("pack: no such pack %q", name)
	}
	if err := d.decode(target); err != nil {
		return nil, err
	}

	hashes := target.idx.EntryHashes()
	objs := make([]plumbing.EncodedObject, 0, len(hashes))
	for _, h := range hashes {
		obj, err := target.cache.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
