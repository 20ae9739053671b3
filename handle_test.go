package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	closed bool
}

func (f *fakeBackend) Read([]byte) (int, error)                   { return 0, nil }
func (f *fakeBackend) Write([]byte) (int, error)                  { return 0, nil }
func (f *fakeBackend) Seek(int64, SeekOrigin) (int64, error)       { return 0, nil }
func (f *fakeBackend) Tell() (int64, error)                       { return 0, nil }
func (f *fakeBackend) Resize(int64) error                         { return nil }
func (f *fakeBackend) Size() (int64, error)                       { return 0, nil }
func (f *fakeBackend) Info() EntityInfo                           { return EntityInfo{} }
func (f *fakeBackend) IsArchived() bool                           { return false }
func (f *fakeBackend) Close() error                               { f.closed = true; return nil }

var _ Backend = (*fakeBackend)(nil)

func TestHandleTablePutLookupRelease(t *testing.T) {
	tbl := NewHandleTable()
	backend := &fakeBackend{}

	tbl.Put("/a/b.bin", backend)
	assert.Equal(t, 1, tbl.Refs("/a/b.bin"))

	entry, ok := tbl.Lookup("/a/b.bin")
	require.True(t, ok)
	assert.Equal(t, 2, entry.refs)

	evicted, err := tbl.Release("/a/b.bin")
	require.NoError(t, err)
	assert.False(t, evicted)
	assert.False(t, backend.closed)

	evicted, err = tbl.Release("/a/b.bin")
	require.NoError(t, err)
	assert.True(t, evicted)
	assert.True(t, backend.closed)
	assert.Equal(t, 0, tbl.Count())
}

func TestHandleTableLeakedAndCloseAll(t *testing.T) {
	tbl := NewHandleTable()
	tbl.Put("/a", &fakeBackend{})
	tbl.Put("/b", &fakeBackend{})

	leaked := tbl.Leaked()
	assert.ElementsMatch(t, []string{"/a", "/b"}, leaked)

	tbl.CloseAll()
	assert.Equal(t, 0, tbl.Count())
}
