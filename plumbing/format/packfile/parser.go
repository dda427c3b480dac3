package packfile

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/statewalker/vcs-sub000/plumbing/storer"
)

// ObjectResolver supplies the content of an object by hash when a
// REF_DELTA entry's base isn't itself present earlier in the same pack
// stream (a "thin pack", built against objects the receiver already has).
type ObjectResolver interface {
	EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error)
}

// Parser decodes a full pack stream into a Storer, resolving every
// OFS_DELTA and REF_DELTA entry along the way (§4.3). It makes a single
// forward pass, which is sufficient because a well-formed (non-thin)
// pack always places a delta's base before the delta itself.
type Parser struct {
	scanner  *Scanner
	resolver ObjectResolver
	chains   map[plumbing.Hash]ChainInfo
}

// ChainInfo is the delta-chain metadata for one decoded object (§4.3
// get_delta_chain_info): Depth is how many delta hops separate it from
// the chain's ultimate non-delta base, and Base is that base object's
// hash. A non-delta entry has Depth 0 and a zero Base.
type ChainInfo struct {
	Depth int
	Base  plumbing.Hash
}

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader, resolver ObjectResolver) (*Parser, error) {
	s, err := NewScanner(r)
	if err != nil {
		return nil, err
	}
	return &Parser{scanner: s, resolver: resolver, chains: map[plumbing.Hash]ChainInfo{}}, nil
}

// ChainInfo reports the delta-chain metadata Parse recorded for h, if h
// was decoded by this Parser.
func (p *Parser) ChainInfo(h plumbing.Hash) (ChainInfo, bool) {
	ci, ok := p.chains[h]
	return ci, ok
}

type decodedEntry struct {
	typ     plumbing.ObjectType
	content []byte
	hash    plumbing.Hash
	chain   ChainInfo
}

// Parse reads every entry, storing each resulting object into dst, and
// returns the hashes in pack order.
func (p *Parser) Parse(dst storer.EncodedObjectStorer) ([]plumbing.Hash, error) {
	byOffset := make(map[int64]*decodedEntry)
	var order []plumbing.Hash

	for {
		e, err := p.scanner.NextEntryHeader()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		raw, err := p.readContent(e)
		if err != nil {
			return nil, err
		}

		var typ plumbing.ObjectType
		var content []byte
		var chain ChainInfo

		switch e.Type {
		case entryCommit, entryTree, entryBlob, entryTag:
			typ = plumbing.ObjectType(e.Type)
			content = raw

		case entryOFSDelta:
			base, ok := byOffset[e.BaseOffset]
			if !ok {
				return nil, fmt.Errorf("packfile: ofs-delta at %d references unknown base offset %d", e.Offset, e.BaseOffset)
			}
			content, err = PatchDelta(base.content, raw)
			if err != nil {
				return nil, err
			}
			typ = base.typ
			chain = childChain(base.hash, base.chain)

		case entryRefDelta:
			baseContent, baseTyp, baseChain, err := p.lookupBase(dst, e.BaseHash, byOffset)
			if err != nil {
				return nil, err
			}
			content, err = PatchDelta(baseContent, raw)
			if err != nil {
				return nil, err
			}
			typ = baseTyp
			chain = childChain(e.BaseHash, baseChain)

		default:
			return nil, fmt.Errorf("packfile: unknown entry type %d", e.Type)
		}

		obj := dst.NewEncodedObject()
		obj.SetType(typ)
		obj.SetSize(int64(len(content)))
		w, err := obj.Writer()
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}

		hash, err := dst.SetEncodedObject(obj)
		if err != nil {
			return nil, err
		}

		byOffset[e.Offset] = &decodedEntry{typ: typ, content: content, hash: hash, chain: chain}
		p.chains[hash] = chain
		order = append(order, hash)
	}

	return order, nil
}

// childChain derives a delta entry's chain info from its immediate
// base's hash and chain info: one hop deeper, rooted at the base itself
// when the base is not a delta, or at the base's own root otherwise.
func childChain(baseHash plumbing.Hash, baseChain ChainInfo) ChainInfo {
	root := baseChain.Base
	if baseChain.Depth == 0 {
		root = baseHash
	}
	return ChainInfo{Depth: baseChain.Depth + 1, Base: root}
}

func (p *Parser) lookupBase(dst storer.EncodedObjectStorer, h plumbing.Hash, byOffset map[int64]*decodedEntry) ([]byte, plumbing.ObjectType, ChainInfo, error) {
	for _, e := range byOffset {
		if e.hash == h {
			return e.content, e.typ, e.chain, nil
		}
	}

	if obj, err := dst.EncodedObject(plumbing.AnyObject, h); err == nil {
		content, typ, err := readAll(obj)
		return content, typ, ChainInfo{}, err
	}

	if p.resolver != nil {
		if obj, err := p.resolver.EncodedObject(plumbing.AnyObject, h); err == nil {
			content, typ, err := readAll(obj)
			return content, typ, ChainInfo{}, err
		}
	}

	return nil, 0, ChainInfo{}, fmt.Errorf("packfile: ref-delta references unknown base %s", h)
}

func readAll(obj plumbing.EncodedObject) ([]byte, plumbing.ObjectType, error) {
	r, err := obj.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, r); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), obj.Type(), nil
}

func (p *Parser) readContent(e *rawEntry) ([]byte, error) {
	zr, err := zlib.NewReader(p.scanner.br)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	buf := &bytes.Buffer{}
	buf.Grow(int(e.Size))
	if _, err := io.CopyN(buf, zr, int64(e.Size)); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}
