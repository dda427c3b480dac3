package packfile

import (
	"bytes"
	"errors"

	packutil "github.com/statewalker/vcs-sub000/plumbing/format/packfile/util"
)

// Delta errors.
var (
	ErrInvalidDelta = errors.New("packfile: invalid delta")
	ErrDeltaCmd     = errors.New("packfile: wrong delta command")
)

const minDeltaSize = 4

// maskContinue marks a copy-from-source command; a command byte without
// it set (and nonzero) is an insert-from-delta command (§4.3, git's
// delta.h).
const maskContinue = 0x80

type offset struct {
	mask  byte
	shift uint
}

var copyOffsetBytes = []offset{
	{mask: 0x01, shift: 0},
	{mask: 0x02, shift: 8},
	{mask: 0x04, shift: 16},
	{mask: 0x08, shift: 24},
}

var copySizeBytes = []offset{
	{mask: 0x10, shift: 0},
	{mask: 0x20, shift: 8},
	{mask: 0x40, shift: 16},
}

const maxCopySize = 0x10000

// PatchDelta applies the modification deltas in delta to src and returns
// the reconstructed target object payload.
func PatchDelta(src, delta []byte) ([]byte, error) {
	if len(src) == 0 || len(delta) < minDeltaSize {
		return nil, ErrInvalidDelta
	}

	srcSz, delta := packutil.DecodeLEB128(delta)
	if srcSz != uint(len(src)) {
		return nil, ErrInvalidDelta
	}

	targetSz, delta := packutil.DecodeLEB128(delta)

	dst := bytes.NewBuffer(make([]byte, 0, targetSz))
	remaining := targetSz

	for remaining > 0 {
		if len(delta) == 0 {
			return nil, ErrInvalidDelta
		}

		cmd := delta[0]
		delta = delta[1:]

		switch {
		case cmd&maskContinue != 0:
			var off, sz uint
			var err error
			off, delta, err = decodeCopyOffset(cmd, delta)
			if err != nil {
				return nil, err
			}
			sz, delta, err = decodeCopySize(cmd, delta)
			if err != nil {
				return nil, err
			}
			if sz > remaining || off+sz > srcSz || off+sz < off {
				return nil, ErrInvalidDelta
			}
			dst.Write(src[off : off+sz])
			remaining -= sz

		case cmd != 0:
			sz := uint(cmd)
			if sz > remaining || uint(len(delta)) < sz {
				return nil, ErrInvalidDelta
			}
			dst.Write(delta[:sz])
			delta = delta[sz:]
			remaining -= sz

		default:
			return nil, ErrDeltaCmd
		}
	}

	return dst.Bytes(), nil
}

func decodeCopyOffset(cmd byte, delta []byte) (uint, []byte, error) {
	var off uint
	for _, o := range copyOffsetBytes {
		if cmd&o.mask != 0 {
			if len(delta) == 0 {
				return 0, nil, ErrInvalidDelta
			}
			off |= uint(delta[0]) << o.shift
			delta = delta[1:]
		}
	}
	return off, delta, nil
}

func decodeCopySize(cmd byte, delta []byte) (uint, []byte, error) {
	var sz uint
	for _, s := range copySizeBytes {
		if cmd&s.mask != 0 {
			if len(delta) == 0 {
				return 0, nil, ErrInvalidDelta
			}
			sz |= uint(delta[0]) << s.shift
			delta = delta[1:]
		}
	}
	if sz == 0 {
		sz = maxCopySize
	}
	return sz, delta, nil
}
