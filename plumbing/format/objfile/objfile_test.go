package objfile

import (
	"bytes"
	"io"
	"testing"

	"github.com/statewalker/vcs-sub000/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	content := []byte("hello world\n")

	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteHeader(plumbing.BlobObject, int64(len(content))))
	n, err := w.Write(content)
	require.NoError(t, err)
	require.Equal(t, len(content), n)
	require.NoError(t, w.Close())

	wantHash := plumbing.ComputeHash(plumbing.BlobObject, content)
	assert.Equal(t, wantHash, w.Hash())

	r, err := NewReader(buf)
	require.NoError(t, err)

	typ, size, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, plumbing.BlobObject, typ)
	assert.EqualValues(t, len(content), size)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, wantHash, r.Hash())
	require.NoError(t, r.Close())
}

func TestWriteOverflow(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteHeader(plumbing.BlobObject, 8))

	n, err := w.Write([]byte("1234"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = w.Write([]byte("56789"))
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 4, n)
}

func TestWriteHeaderInvalidType(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	assert.ErrorIs(t, w.WriteHeader(plumbing.InvalidObject, 8), plumbing.ErrInvalidType)
}

func TestWriteHeaderNegativeSize(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	assert.ErrorIs(t, w.WriteHeader(plumbing.BlobObject, -1), ErrNegativeSize)
}

func TestReadEmpty(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestReadGarbage(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("!@#$RO!@NROSADfinq@o#irn@oirfn")))
	assert.Error(t, err)
}
