package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRegistryRegisterAndLookup(t *testing.T) {
	r := NewFilterRegistry()
	f := testIdentityFilter{}

	require.NoError(t, r.Register(f))
	assert.True(t, r.Exists("null-pass"))
	assert.True(t, r.Exists("NULL-PASS")) // case-insensitive lookup

	got, ok := r.Get("Null-Pass")
	require.True(t, ok)
	assert.Equal(t, f, got)

	err := r.Register(f)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindAlreadyExists, verr.Kind)
}

func TestFilterRegistryRegisterUnregisterRoundTrip(t *testing.T) {
	// spec §8 round-trip: register(f); unregister(f) returns the registry to its prior state.
	r := NewFilterRegistry()
	before := r.Count()

	f := testIdentityFilter{}
	require.NoError(t, r.Register(f))
	assert.True(t, r.Unregister(f))
	assert.Equal(t, before, r.Count())
	assert.False(t, r.Exists("null-pass"))
}

func TestFilterRegistryUnregisterByNameCaseInsensitive(t *testing.T) {
	// spec §9: register stores lower-cased; unregister-by-name must key off the same lower-cased form, fixing
	// the reference implementation's mismatched casing.
	r := NewFilterRegistry()
	require.NoError(t, r.Register(testIdentityFilter{}))
	assert.True(t, r.UnregisterByName("NULL-PASS"))
	assert.False(t, r.Exists("null-pass"))
}

func TestFilterRegistryNameTooLong(t *testing.T) {
	r := NewFilterRegistry()
	err := r.Register(longNameFilter{})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindInvalidParameter, verr.Kind)
}

type longNameFilter struct{ testIdentityFilter }

func (longNameFilter) Name() string {
	name := make([]byte, MaxNameLength+1)
	for i := range name {
		name[i] = 'x'
	}
	return string(name)
}
