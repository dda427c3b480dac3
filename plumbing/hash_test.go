package plumbing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	hash := ComputeHash(BlobObject, []byte(""))
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", hash.String())

	hash = ComputeHash(BlobObject, []byte("Hello, World!\n"))
	assert.Equal(t, "8ab686eafeb1f44702738c8b0f24f2567c36da6d", hash.String())
}

func TestNewHashRoundTrip(t *testing.T) {
	hash := ComputeHash(BlobObject, []byte("Hello, World!\n"))
	assert.Equal(t, hash, NewHash(hash.String()))
}
