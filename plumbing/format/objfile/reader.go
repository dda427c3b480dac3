package objfile

import (
	"bufio"
	"compress/zlib"
	"errors"
	"io"
	"strconv"

	"github.com/statewalker/vcs-sub000/plumbing"
)

var (
	ErrHeaderMalformed = errors.New("objfile: invalid header")
	ErrNegativeSize    = errors.New("objfile: negative object size")
)

// Reader reads the zlib-compressed "<type> <size>\x00" header and payload
// of a loose object, hashing the payload as it is consumed so the stored
// hash can be verified once the object has been fully read.
type Reader struct {
	zr     io.ReadCloser
	br     *bufio.Reader
	hasher plumbing.Hasher
	multi  io.Reader

	typ  plumbing.ObjectType
	size int64
}

// NewReader returns a Reader that decompresses r with zlib. The returned
// Reader must have Close called on it once its content has been consumed.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zlib.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	return &Reader{zr: zr, br: bufio.NewReader(zr)}, nil
}

// Header reads and parses the "<type> <size>\x00" prefix, returning the
// object's type and uncompressed size.
func (r *Reader) Header() (t plumbing.ObjectType, size int64, err error) {
	typ, err := r.br.ReadBytes(' ')
	if err != nil {
		return plumbing.InvalidObject, 0, ErrHeaderMalformed
	}
	typ = typ[:len(typ)-1]

	sizeBuf, err := r.br.ReadBytes(0)
	if err != nil {
		return plumbing.InvalidObject, 0, ErrHeaderMalformed
	}
	sizeBuf = sizeBuf[:len(sizeBuf)-1]

	size, err = strconv.ParseInt(string(sizeBuf), 10, 64)
	if err != nil || size < 0 {
		return plumbing.InvalidObject, 0, ErrHeaderMalformed
	}

	t, err = parseType(typ)
	if err != nil {
		return plumbing.InvalidObject, 0, err
	}

	r.typ = t
	r.size = size
	r.hasher = plumbing.NewHasher(t, size)
	r.multi = io.TeeReader(r.br, r.hasher)

	return t, size, nil
}

func parseType(b []byte) (plumbing.ObjectType, error) {
	switch string(b) {
	case "commit":
		return plumbing.CommitObject, nil
	case "tree":
		return plumbing.TreeObject, nil
	case "blob":
		return plumbing.BlobObject, nil
	case "tag":
		return plumbing.TagObject, nil
	default:
		return plumbing.InvalidObject, ErrHeaderMalformed
	}
}

// Read reads decompressed payload bytes. Header must be called first.
func (r *Reader) Read(p []byte) (int, error) {
	return r.multi.Read(p)
}

// Hash returns the content hash of everything read so far. It is only
// meaningful once the full payload has been consumed.
func (r *Reader) Hash() plumbing.Hash {
	return r.hasher.Sum()
}

// Close releases the underlying zlib reader.
func (r *Reader) Close() error {
	return r.zr.Close()
}
