package plumbing

import (
	"bytes"
	"strconv"
)

// WireEncode serializes an object's type and payload into git's loose
// object wire format: "<type> <decimal size>\x00<payload>".
func WireEncode(t ObjectType, payload []byte) []byte {
	header := t.String() + " " + strconv.Itoa(len(payload)) + "\x00"
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header...)
	buf = append(buf, payload...)
	return buf
}

// WireDecode parses the wire format produced by WireEncode, returning the
// object type and payload. It fails with ErrCorruptObject if the header is
// malformed or the declared size does not match the payload that follows.
func WireDecode(data []byte) (ObjectType, []byte, error) {
	sp := bytes.IndexByte(data, ' ')
	if sp < 0 {
		return InvalidObject, nil, ErrCorruptObject
	}
	nul := bytes.IndexByte(data[sp+1:], 0)
	if nul < 0 {
		return InvalidObject, nil, ErrCorruptObject
	}
	nul += sp + 1

	t, err := ParseObjectType(string(data[:sp]))
	if err != nil {
		return InvalidObject, nil, ErrCorruptObject
	}

	size, err := strconv.Atoi(string(data[sp+1 : nul]))
	if err != nil || size < 0 {
		return InvalidObject, nil, ErrCorruptObject
	}

	payload := data[nul+1:]
	if len(payload) != size {
		return InvalidObject, nil, ErrCorruptObject
	}

	return t, payload, nil
}
