// Package util holds small binary helpers shared by the pack scanner,
// parser, and encoder: the variable-length object header size encoding
// and the LEB128 encoding used inside delta instructions (§4.3).
package util

import (
	"errors"
	"io"

	"github.com/statewalker/vcs-sub000/plumbing"
)

const (
	firstLengthBits = uint8(4)   // the first byte into object header has 4 bits to store the length
	maskPayload     = 0x7f       // 0111 1111
	maskContinue    = 0x80       // 1000 0000
	maskType        = uint8(112) // 0111 0000
)

// VariableLengthSize reads a variable length size from first, and uses reader
// to continue on reading until the full size is determined.
func VariableLengthSize(first byte, reader io.ByteReader) (uint64, error) {
	size := uint64(first & 0x0F)

	if first&maskContinue != 0 {
		shift := uint(4)

		if reader == nil {
			return 0, errors.New("reader is nil")
		}

		for {
			b, err := reader.ReadByte()
			if err != nil {
				return 0, err
			}

			size |= uint64(b&0x7F) << shift

			if b&maskContinue == 0 {
				break
			}

			shift += 7
		}
	}
	return size, nil
}

// EncodeTypeSize encodes t and sz into the variable-length object header
// format: 4 bits of size plus 3 bits of type in the first byte, 7 bits of
// size per continuation byte.
func EncodeTypeSize(t plumbing.ObjectType, sz uint64) []byte {
	first := byte(t) << firstLengthBits
	first |= byte(sz & 0x0F)
	sz >>= 4

	out := []byte{}
	for sz != 0 {
		out = append(out, first|maskContinue)
		first = byte(sz & 0x7F)
		sz >>= 7
	}
	out = append(out, first)
	return out
}

// ObjectType returns the plumbing.ObjectType which is represented by b.
func ObjectType(b byte) plumbing.ObjectType {
	return plumbing.ObjectType((b & maskType) >> firstLengthBits)
}

// DecodeLEB128 decodes a number encoded as an unsigned LEB128 at the
// start of some binary data and returns the decoded number and the rest
// of the bytes.
func DecodeLEB128(input []byte) (uint, []byte) {
	if len(input) == 0 {
		return 0, input
	}

	var num, sz uint
	var b byte
	for {
		b = input[sz]
		num |= (uint(b) & maskPayload) << (sz * 7)
		sz++

		if uint(b)&maskContinue == 0 || sz == uint(len(input)) {
			break
		}
	}

	return num, input[sz:]
}

// DecodeLEB128FromReader decodes a number encoded as an unsigned LEB128 at
// the start of r and returns the decoded number.
func DecodeLEB128FromReader(r io.ByteReader) (uint, error) {
	var num, sz uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		num |= (uint(b) & maskPayload) << (sz * 7)
		sz++

		if uint(b)&maskContinue == 0 {
			break
		}
	}

	return num, nil
}

// EncodeLEB128 encodes n as an unsigned LEB128, the format used for the
// source/target size prefixes of a delta instruction stream (§4.3).
func EncodeLEB128(n uint) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= maskContinue
		}
		out = append(out, b)
		if n == 0 {
			break
		}
	}
	return out
}
