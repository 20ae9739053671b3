package vfs

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// testIdentityFilter is the "null-pass" codec from spec §8 scenario 1, used only to build archive fixtures for
// this package's own tests. Not part of the public API - see filters.Identity for the real, exported version
// built on top of the same Filter contract.
type testIdentityFilter struct{}

func (testIdentityFilter) Name() string        { return "null-pass" }
func (testIdentityFilter) Description() string { return "identity codec for tests" }
func (testIdentityFilter) ConfigSize() uint32   { return 0 }
func (testIdentityFilter) LoadConfig(io.Reader) ([]byte, error) {
	return nil, nil
}
func (testIdentityFilter) SaveConfig([]byte, io.Writer) error { return nil }
func (testIdentityFilter) Decode(_ []byte, r io.Reader, w io.Writer, _ EntityInfo) error {
	_, err := io.Copy(w, r)
	return err
}
func (testIdentityFilter) Encode(_ []byte, r io.Reader, w io.Writer, _ EntityInfo) error {
	_, err := io.Copy(w, r)
	return err
}

var _ Filter = testIdentityFilter{}

type fixtureDir struct {
	Name   string
	Parent uint32
}

type fixtureFile struct {
	Name string
	Dir  uint32
	Data []byte
}

// buildFixtureArchive synthesizes a ".DAGN" container at path using only zero-config filters (so no filter
// config blob section is needed), exercising the exact wire layout archive_format.go reads back (spec §4.4).
func buildFixtureArchive(t *testing.T, path string, filterNames []string, dirs []fixtureDir, files []fixtureFile) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	header := archiveHeader{
		Version:    archiveVersion(),
		NumFilters: uint32(len(filterNames)),
		NumDirs:    uint32(len(dirs)),
		NumFiles:   uint32(len(files)),
	}
	require.NoError(t, writeArchiveHeader(f, header))
	for _, name := range filterNames {
		require.NoError(t, writeFilterRecord(f, name))
	}
	for _, d := range dirs {
		require.NoError(t, writeDirRecord(f, d.Name, d.Parent))
	}
	for _, file := range files {
		require.NoError(t, writeFileRecord(f, file.Name, file.Dir, uint32(len(file.Data)), uint32(len(file.Data))))
	}
	for _, file := range files {
		_, err := f.Write(file.Data)
		require.NoError(t, err)
	}
}
