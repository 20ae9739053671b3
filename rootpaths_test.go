package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPathListAddOrderAndWriteRoot(t *testing.T) {
	l := NewRootPathList()
	_, ok := l.WriteRoot()
	assert.False(t, ok)

	require.NoError(t, l.Add("/r1"))
	require.NoError(t, l.Add("/r2"))

	root, ok := l.WriteRoot()
	require.True(t, ok)
	assert.Equal(t, "/r1", root) // first root is the write root, spec §4.3

	assert.Equal(t, []string{"/r1", "/r2"}, l.List())
}

func TestRootPathListRejectsRelativeAndDuplicate(t *testing.T) {
	l := NewRootPathList()
	err := l.Add("relative/path")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindInvalidParameter, verr.Kind)

	require.NoError(t, l.Add("/r1"))
	err = l.Add("/R1") // case-insensitive duplicate check
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindAlreadyExists, verr.Kind)
}

func TestRootPathListAddRemoveRoundTrip(t *testing.T) {
	// spec §8 round-trip: add_root(r); remove_root(r) returns the root-path list to its prior state.
	l := NewRootPathList()
	before := l.Count()

	require.NoError(t, l.Add("/r1"))
	require.NoError(t, l.RemoveByValue("/r1"))
	assert.Equal(t, before, l.Count())
}

func TestRootPathListRemoveByIndex(t *testing.T) {
	l := NewRootPathList()
	require.NoError(t, l.Add("/r1"))
	require.NoError(t, l.Add("/r2"))
	require.NoError(t, l.RemoveByIndex(0))
	assert.Equal(t, []string{"/r2"}, l.List())
}
