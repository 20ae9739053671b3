package vfs

import (
	"os"
	"sync"
)

// dirEntry is one row of an archive's directory table (spec §3). FullName is stored lower-cased; ParentIndex is
// either rootMarker or a strictly smaller index into the owning Archive.dirs slice (directories are topologically
// ordered parents-first).
type dirEntry struct {
	FullName    string
	ParentIndex uint32
}

// fileEntry is one row of an archive's file table (spec §3). FullName is stored lower-cased; DataOffset is the
// byte offset of this file's encoded payload within the archive's backing host file.
type fileEntry struct {
	FullName         string
	ParentDirIndex   uint32
	DataOffset       int64
	CompressedSize   uint32
	UncompressedSize uint32
}

// Archive is the in-memory materialization of a parsed archive container (spec §3, §4.5). It is read-only: the
// core never mutates an Archive after parsing it.
type Archive struct {
	// Path is the absolute, lower-cased host path of the backing ".DAGN" file.
	Path string

	mu   sync.Mutex
	file *os.File

	filters       []Filter
	filterConfigs [][]byte // parallel to filters; loaded once at parse time, no global "active archive" pointer

	dirs     []dirEntry
	dirIndex map[string]int // full lower-case dir name -> index into dirs

	files     []fileEntry
	fileIndex map[string]int // full lower-case file name -> index into files

	dataOffset     int64 // byte offset where the first filter's config blob begins
	fileDataOffset int64 // byte offset where the first file's encoded payload begins
}

// Exists reports whether name (a full path inside the archive, any case) names a directory or a file.
func (a *Archive) Exists(name string) bool {
	key := ToLower(name)
	if _, ok := a.dirIndex[key]; ok {
		return true
	}
	_, ok := a.fileIndex[key]
	return ok
}

// Stat returns the EntityInfo for name inside the archive, or ok=false if name resolves to neither a directory
// nor a file.
func (a *Archive) Stat(name string) (EntityInfo, bool) {
	key := ToLower(name)
	if idx, ok := a.dirIndex[key]; ok {
		return EntityInfo{
			Type:     EntityDirectory,
			Archived: true,
			FullPath: a.dirs[idx].FullName,
			LeafName: GetName(a.dirs[idx].FullName),
		}, true
	}
	if idx, ok := a.fileIndex[key]; ok {
		f := a.files[idx]
		return EntityInfo{
			Type:     EntityFile,
			Archived: true,
			FullPath: f.FullName,
			LeafName: GetName(f.FullName),
			Size:     int64(f.UncompressedSize),
		}, true
	}
	return EntityInfo{}, false
}

// parentChainLength walks dirs[idx].ParentIndex back to rootMarker and returns the number of steps taken. Used to
// enforce the "every parent chain terminates within |dirs| steps" invariant (spec §8).
func (a *Archive) parentChainLength(idx int) int {
	steps := 0
	for idx >= 0 && uint32(idx) != rootMarker {
		parent := a.dirs[idx].ParentIndex
		if parent == rootMarker {
			return steps + 1
		}
		idx = int(parent)
		steps++
		if steps > len(a.dirs) {
			return steps
		}
	}
	return steps
}

// Close releases the backing host file. Safe to call once the archive has been evicted from the cache and no
// archive-file backend still references it.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// readPayload reads a file's encoded payload into memory with a positional read (the file cursor is not moved).
// Guarded by a.mu so that a concurrent Close cannot release the backing *os.File mid-read.
func (a *Archive) readPayload(f fileEntry) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf := make([]byte, f.CompressedSize)
	if f.CompressedSize == 0 {
		return buf, nil
	}
	n, err := a.file.ReadAt(buf, f.DataOffset)
	if err != nil {
		return nil, wrapErr(KindGeneric, "failed to read archive payload", err)
	}
	if uint32(n) != f.CompressedSize {
		return nil, newErr(KindInvalidArchiveFormat, "short payload read")
	}
	return buf, nil
}
