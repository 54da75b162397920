package bundle

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	payload := []byte(strings.Repeat(`{"moduleFormat":"endoZipBase64"}`, 100))

	packed, err := Pack(payload)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), packed.UncompressedSize)
	require.True(t, strings.HasPrefix(packed.ContentHash, HashPrefix))
	require.Less(t, len(packed.Compressed), len(payload))

	// The compressed payload inflates back to the original.
	zr, err := gzip.NewReader(bytes.NewReader(packed.Compressed))
	require.NoError(t, err)
	inflated, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, payload, inflated)
}

func TestContentHashDeterministic(t *testing.T) {
	a := ContentHash([]byte("bundle"))
	b := ContentHash([]byte("bundle"))
	c := ContentHash([]byte("other"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, len(HashPrefix)+64)
}

func TestPackRejectsEmptyPayload(t *testing.T) {
	_, err := Pack(nil)
	require.Error(t, err)
}
