package vfs

import "io"

// archiveFile is the read-only in-memory buffer plus cursor described in spec §4.9. It holds a non-owning
// reference to its parent archive - the archive cache keeps the archive alive for as long as any archiveFile's
// derived refcount keeps it resident (archivecache.go).
type archiveFile struct {
	archive *Archive
	cache   *ArchiveCache
	path    string // absolute, lower-cased path inside the unified namespace (not just the archive-relative name)
	entry   fileEntry
	data    []byte
	cursor  int64
	closed  bool
}

// openArchiveFile decodes entry's payload (running the full filter chain, spec §4.10) and returns a cursor over
// the resulting plaintext. The returned archiveFile holds the archive's derived refcount (spec §3 "Open
// archive") acquired via cache.Acquire, released exactly once on Close.
func openArchiveFile(archive *Archive, cache *ArchiveCache, entry fileEntry, loweredPath string) (*archiveFile, error) {
	info := EntityInfo{
		Type:     EntityFile,
		Archived: true,
		FullPath: loweredPath,
		LeafName: GetName(loweredPath),
		Size:     int64(entry.UncompressedSize),
	}
	data, err := decodeFile(archive, entry, info)
	if err != nil {
		return nil, err
	}
	cache.Acquire(archive.Path)
	return &archiveFile{archive: archive, cache: cache, path: loweredPath, entry: entry, data: data}, nil
}

func (a *archiveFile) Read(buf []byte) (int, error) {
	if a.cursor >= int64(len(a.data)) {
		return 0, nil // zero bytes at EOF is not an error, spec §8 "Boundary behaviors"
	}
	n := copy(buf, a.data[a.cursor:])
	a.cursor += int64(n)
	return n, nil
}

func (a *archiveFile) Write([]byte) (int, error) {
	return 0, newErr(KindCantManipulateArchives, "cannot write to an archived entry: "+a.path)
}

func (a *archiveFile) Seek(offset int64, whence SeekOrigin) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = a.cursor + offset
	case io.SeekEnd:
		target = int64(len(a.data)) + offset
	default:
		return 0, newErr(KindInvalidParameter, "invalid seek origin")
	}
	if target < 0 || target > int64(len(a.data)) {
		return 0, newErr(KindInvalidParameter, "seek position out of range")
	}
	a.cursor = target
	return a.cursor, nil
}

func (a *archiveFile) Tell() (int64, error) {
	return a.cursor, nil
}

func (a *archiveFile) Resize(int64) error {
	return newErr(KindCantManipulateArchives, "cannot resize an archived entry: "+a.path)
}

func (a *archiveFile) Size() (int64, error) {
	return int64(len(a.data)), nil
}

func (a *archiveFile) Info() EntityInfo {
	return EntityInfo{
		Type:     EntityFile,
		Archived: true,
		FullPath: a.path,
		LeafName: GetName(a.path),
		Size:     int64(len(a.data)),
	}
}

func (a *archiveFile) IsArchived() bool {
	return true
}

// Close releases this handle's hold on its parent archive's derived refcount; the archive itself may still be
// resident in the cache for other live handles or until flush runs.
func (a *archiveFile) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.cache.Release(a.archive.Path)
	return nil
}
