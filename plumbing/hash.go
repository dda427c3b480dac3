package plumbing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strconv"

	"github.com/pjbgf/sha1cd"
)

// HashSize is the length in bytes of an object id.
const HashSize = 20

// Hash is a content-addressed 160-bit object id, computed as
// sha1(type + " " + ascii(len(payload)) + NUL + payload).
//
// go-git historically supports swapping in SHA256; this module only wires
// SHA1 (via the collision-detecting implementation) since the spec asks for
// a single collision-resistant hash and nothing downstream branches on the
// algorithm used.
type Hash [HashSize]byte

// ZeroHash is the zero-valued Hash, never a valid object id.
var ZeroHash Hash

// newHasher returns the hash.Hash used to compute object ids.
func newHasher() hash.Hash { return sha1cd.New() }

// FromHex parses a hex string into a Hash. It fails if s is not exactly
// HashSize*2 hex characters.
func FromHex(s string) (Hash, error) {
	var h Hash
	if len(s) != HashSize*2 {
		return h, fmt.Errorf("plumbing: invalid hash length %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("plumbing: invalid hash %q: %w", s, err)
	}
	copy(h[:], b)
	return h, nil
}

// NewHash parses a hex string into a Hash, returning the zero Hash on error.
// Prefer FromHex when the caller needs to distinguish a malformed input.
func NewHash(s string) Hash {
	h, _ := FromHex(s)
	return h
}

// IsHash reports whether s is a well-formed hex object id.
func IsHash(s string) bool {
	if len(s) != HashSize*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func (h Hash) IsZero() bool { return h == ZeroHash }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

func (h Hash) Bytes() []byte { return h[:] }

// Compare returns an integer comparing h to the hash encoded in b.
func (h Hash) Compare(b []byte) int { return bytes.Compare(h[:], b) }

// HasPrefix reports whether hex is a (possibly partial, >=1 hex char) prefix
// of h's hex representation. Used by rev-parse's abbreviated-hash lookup.
func (h Hash) HasPrefix(hexPrefix string) bool {
	full := h.String()
	if len(hexPrefix) > len(full) {
		return false
	}
	return full[:len(hexPrefix)] == hexPrefix
}

// HashesSort sorts a slice of Hash in increasing lexicographic order.
func HashesSort(a []Hash) { sort.Sort(HashSlice(a)) }

// HashSlice implements sort.Interface for a slice of Hash.
type HashSlice []Hash

func (p HashSlice) Len() int           { return len(p) }
func (p HashSlice) Less(i, j int) bool { return p[i].Compare(p[j][:]) < 0 }
func (p HashSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Hasher incrementally computes the hash of an object's wire-format bytes:
// the header ("<type> <size>\x00") followed by the payload.
type Hasher struct {
	hash.Hash
}

// NewHasher returns a Hasher primed with the wire-format header for an
// object of type t and size size. Callers then Write the payload and call
// Sum to obtain the object id.
func NewHasher(t ObjectType, size int64) Hasher {
	h := Hasher{Hash: newHasher()}
	h.Write(t.Bytes())
	h.Write([]byte(" "))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
	return h
}

// Sum returns the computed object id.
func (h Hasher) Sum() (hash Hash) {
	copy(hash[:], h.Hash.Sum(nil))
	return hash
}

// ComputeHash returns the object id for an object of type t with the given
// payload, per the content-addressing rule in §3: it is a pure function of
// (t, payload).
func ComputeHash(t ObjectType, payload []byte) Hash {
	h := NewHasher(t, int64(len(payload)))
	h.Write(payload)
	return h.Sum()
}
