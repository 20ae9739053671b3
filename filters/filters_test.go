package filters

import (
	"bytes"
	"testing"

	"github.com/dagnvfs/vfs"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, f vfs.Filter, plaintext []byte) []byte {
	t.Helper()
	var encoded bytes.Buffer
	require.NoError(t, f.Encode(nil, bytes.NewReader(plaintext), &encoded, vfs.EntityInfo{}))

	var decoded bytes.Buffer
	require.NoError(t, f.Decode(nil, bytes.NewReader(encoded.Bytes()), &decoded, vfs.EntityInfo{}))
	return decoded.Bytes()
}

func TestIdentityRoundTrip(t *testing.T) {
	plaintext := []byte("hello, world")
	require.Equal(t, plaintext, roundTrip(t, Identity{}, plaintext))
}

func TestGzipRoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	require.Equal(t, plaintext, roundTrip(t, Gzip{}, plaintext))
}

func TestZstdRoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	require.Equal(t, plaintext, roundTrip(t, Zstd{}, plaintext))
}

func TestLZ4RoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	require.Equal(t, plaintext, roundTrip(t, LZ4{}, plaintext))
}
