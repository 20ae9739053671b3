package vfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsystemLifecycle(t *testing.T) {
	s := New()
	assert.Equal(t, Uninitialized, s.state)

	require.NoError(t, s.Init())
	err := s.Init()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindAlreadyInitialized, verr.Kind)

	require.NoError(t, s.Shutdown())
	assert.Equal(t, Uninitialized, s.state)
}

func TestOperationsFailBeforeInit(t *testing.T) {
	s := New()
	_, err := s.Open("foo.bin")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNotInitializedYet, verr.Kind)
}

func TestShutdownReportsLeakedHandles(t *testing.T) {
	r1 := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(r1, "x.bin"), []byte("abc")))

	s := New()
	require.NoError(t, s.Init())
	require.NoError(t, s.Roots.Add(r1))

	_, err := s.Open("x.bin") // deliberately never closed
	require.NoError(t, err)

	err = s.Shutdown()
	require.Error(t, err) // aggregated leak report, spec §5 "warns about leaked files/archives"
	assert.Equal(t, Uninitialized, s.state)
}
