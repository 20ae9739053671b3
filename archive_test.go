package vfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchiveScenario1(t *testing.T) {
	// spec §8 scenario 1: register null-pass, build an archive with one dir "a/" and file "a/b.txt" = "hello".
	registry := NewFilterRegistry()
	require.NoError(t, registry.Register(testIdentityFilter{}))

	path := filepath.Join(t.TempDir(), "pack.DAGN")
	buildFixtureArchive(t, path,
		[]string{"null-pass"},
		[]fixtureDir{{Name: "a", Parent: rootMarker}},
		[]fixtureFile{{Name: "b.txt", Dir: 0, Data: []byte("hello")}},
	)

	archive, err := openArchive(path, registry)
	require.NoError(t, err)
	defer archive.Close()

	assert.True(t, archive.Exists("a/b.txt"))
	assert.True(t, archive.Exists("A/B.TXT")) // case-insensitive

	idx, ok := archive.fileIndex["a/b.txt"]
	require.True(t, ok)

	data, err := decodeFile(archive, archive.files[idx], EntityInfo{})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestParseArchiveMissingFilter(t *testing.T) {
	registry := NewFilterRegistry() // "null-pass" deliberately not registered

	path := filepath.Join(t.TempDir(), "pack.DAGN")
	buildFixtureArchive(t, path, []string{"null-pass"}, nil, nil)

	_, err := openArchive(path, registry)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMissingFilters, verr.Kind)
}

func TestParseArchiveBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.DAGN")
	require.NoError(t, writeFile(path, []byte("not an archive at all, way too short")))

	_, err := openArchive(path, NewFilterRegistry())
	require.Error(t, err)
}

func TestArchiveParentChainLength(t *testing.T) {
	// spec §8: walking dirs[i].parent_index always terminates at ROOT in <= |dirs| steps.
	registry := NewFilterRegistry()
	require.NoError(t, registry.Register(testIdentityFilter{}))

	path := filepath.Join(t.TempDir(), "pack.DAGN")
	buildFixtureArchive(t, path,
		[]string{"null-pass"},
		[]fixtureDir{
			{Name: "a", Parent: rootMarker},
			{Name: "b", Parent: 0},
			{Name: "c", Parent: 1},
		},
		nil,
	)
	archive, err := openArchive(path, registry)
	require.NoError(t, err)
	defer archive.Close()

	assert.LessOrEqual(t, archive.parentChainLength(2), len(archive.dirs))
}

func writeFile(path string, data []byte) error {
	f, err := createHostFile(path, path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}
