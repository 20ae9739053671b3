package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s := New()
	require.NoError(t, s.Init())
	require.NoError(t, s.Filters.Register(testIdentityFilter{}))
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestResolveHostFileAcrossMultipleRoots(t *testing.T) {
	// spec §8 scenario 2: add root /r1, then /r2. Place /r2/foo.bin. open("foo.bin") resolves under /r2.
	r1 := t.TempDir()
	r2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(r2, "foo.bin"), []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0o644))

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))
	require.NoError(t, s.Roots.Add(r2))

	h, err := s.Open("foo.bin")
	require.NoError(t, err)
	defer h.Close()

	info := h.Info()
	assert.Equal(t, Normalize(filepath.Join(r2, "foo.bin")), info.FullPath)
}

func TestResolveArchivePrefix(t *testing.T) {
	// spec §8 scenario 3: /r1/pack.DAGN contains dir ui/ and file ui/button.png.
	r1 := t.TempDir()
	buildFixtureArchive(t, filepath.Join(r1, "pack.DAGN"),
		[]string{"null-pass"},
		[]fixtureDir{{Name: "ui", Parent: rootMarker}},
		[]fixtureFile{{Name: "button.png", Dir: 0, Data: []byte{1, 2, 3}}},
	)

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))

	h, err := s.Open("pack/ui/button.png")
	require.NoError(t, err)
	defer h.Close()

	buf := make([]byte, 3)
	n, err := h.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, buf[:n])

	info, err := s.Stat("pack/ui")
	require.NoError(t, err)
	assert.Equal(t, EntityDirectory, info.Type)

	_, err = s.Stat("pack/ui/nonexistent")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNotFound, verr.Kind)
}

func TestOpenTwiceCloseOnceHandleStillWorks(t *testing.T) {
	// spec §8 scenario 4: open x.bin twice, close once; tell() on the first handle still works; close second;
	// the handle-table entry is gone.
	r1 := t.TempDir()
	hostPath := filepath.Join(r1, "x.bin")
	require.NoError(t, os.WriteFile(hostPath, []byte("0123456789"), 0o644))

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))

	h1, err := s.Open("x.bin")
	require.NoError(t, err)
	h2, err := s.Open("x.bin")
	require.NoError(t, err)

	lowered := Normalize(hostPath)
	assert.Equal(t, 2, s.Handles.Refs(lowered))

	require.NoError(t, h1.Close())
	_, err = h2.Tell()
	require.NoError(t, err)

	require.NoError(t, h2.Close())
	assert.Equal(t, 0, s.Handles.Refs(lowered))
}

func TestWriteArchivedEntryFails(t *testing.T) {
	// spec §8 scenario 5: write on an archive-file handle fails with CantManipulateArchives.
	r1 := t.TempDir()
	buildFixtureArchive(t, filepath.Join(r1, "pack.DAGN"),
		[]string{"null-pass"},
		nil,
		[]fixtureFile{{Name: "a.txt", Dir: rootMarker, Data: []byte("x")}},
	)

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))

	h, err := s.Open("pack/a.txt")
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Write([]byte("y"))
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindCantManipulateArchives, verr.Kind)
}

func TestArchiveFileSeekOutOfRange(t *testing.T) {
	// spec §8 "Boundary behaviors": seek(size+1) on an archive-file backend fails with InvalidParameter.
	r1 := t.TempDir()
	buildFixtureArchive(t, filepath.Join(r1, "pack.DAGN"),
		[]string{"null-pass"},
		nil,
		[]fixtureFile{{Name: "a.txt", Dir: rootMarker, Data: []byte("hello")}},
	)

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))

	h, err := s.Open("pack/a.txt")
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Seek(6, SeekStart)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindInvalidParameter, verr.Kind)
}

func TestFlushEvictsOnlyUnreferencedArchives(t *testing.T) {
	// spec §8 scenario 6: one archive with 0 live file handles, another with 1; flush evicts only the first.
	r1 := t.TempDir()
	buildFixtureArchive(t, filepath.Join(r1, "idle.DAGN"), []string{"null-pass"}, nil,
		[]fixtureFile{{Name: "a.txt", Dir: rootMarker, Data: []byte("x")}})
	buildFixtureArchive(t, filepath.Join(r1, "live.DAGN"), []string{"null-pass"}, nil,
		[]fixtureFile{{Name: "b.txt", Dir: rootMarker, Data: []byte("y")}})

	s := newTestState(t)
	require.NoError(t, s.Roots.Add(r1))

	idleHandle, err := s.Open("idle/a.txt")
	require.NoError(t, err)
	require.NoError(t, idleHandle.Close()) // derived refcount back to 0

	liveHandle, err := s.Open("live/b.txt")
	require.NoError(t, err)
	defer liveHandle.Close()

	assert.Equal(t, 2, s.Archives.Len())
	evicted, err := s.Flush()
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, s.Archives.Len())
}

func TestRelativePathWithNoRootsFails(t *testing.T) {
	s := newTestState(t)
	_, err := s.Open("foo.bin")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindNoRootPathsDefined, verr.Kind)
}
