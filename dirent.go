package vfs

import (
	"errors"
	"os"
	"strings"
)

// ErrStopIteration is returned by an IterFunc to request that iteration halt immediately without that halt being
// treated as a failure - spec §9 "Iteration control flow" calls out the reference implementation's overloaded
// boolean ("false doubles as stop") as a design smell and asks for a distinct Stop vs Err variant. A sentinel
// error compared with errors.Is is the idiomatic Go equivalent of that distinct variant.
var ErrStopIteration = errors.New("vfs: stop iteration")

// IterFunc is invoked once per directory entry during ReadDir. Returning ErrStopIteration halts iteration
// without propagating an error to the caller; any other non-nil error halts iteration and propagates.
type IterFunc func(info EntityInfo) error

// dirHandle names a directory that directory iteration can enumerate: either a host directory, or a directory
// inside a resident archive (identified by its dir-table index, or rootMarker for the archive root).
type dirHandle struct {
	logicalPath string // the full logical path as given to ReadDir, used to build children's FullPath

	hostPath string // set when this is a plain host directory

	archive  *Archive // set when this is an archive-internal directory
	dirIndex uint32   // index into archive.dirs, or rootMarker for the archive's own root
}

// resolveDir locates the directory named by path, following the same absolute/relative and archive-prefix rules
// as resolve (spec §4.6), but matching directories instead of files.
func (s *State) resolveDir(path string) (*dirHandle, error) {
	if IsAbsolute(path) {
		return s.resolveDirAbsolute(path)
	}
	roots := s.Roots.List()
	if len(roots) == 0 {
		return nil, newErr(KindNoRootPathsDefined, "relative path used before any root was added: "+path)
	}
	for _, root := range roots {
		if dh, err := s.resolveDirAbsolute(Join(root, path)); err == nil {
			dh.logicalPath = path
			return dh, nil
		}
	}
	return nil, newErr(KindNotFound, "directory not found in any root: "+path)
}

func (s *State) resolveDirAbsolute(absPath string) (*dirHandle, error) {
	stat, err := os.Stat(absPath)
	if err == nil && stat.IsDir() {
		return &dirHandle{logicalPath: absPath, hostPath: absPath}, nil
	}

	for _, i := range splitPoints(absPath) {
		prefix := absPath[:i]
		remainder := absPath[i+1:]

		archiveHostPath := canonicalizeArchivePath(prefix)
		if !hostFileExists(archiveHostPath) {
			continue
		}
		archive, err := s.Archives.GetOrOpen(archiveHostPath, func() (*Archive, error) {
			return openArchive(archiveHostPath, s.Filters)
		})
		if err != nil {
			continue
		}

		if remainder == "" {
			return &dirHandle{logicalPath: absPath, archive: archive, dirIndex: rootMarker}, nil
		}
		if idx, ok := archive.dirIndex[ToLower(remainder)]; ok {
			return &dirHandle{logicalPath: absPath, archive: archive, dirIndex: uint32(idx)}, nil
		}
	}
	return nil, wrapErr(KindNotFound, "directory not found: "+absPath,
		&MountPointNotFoundError{Path: absPath})
}

// ReadDir enumerates the entries of the directory named by path, invoking fn once per entry in enumeration
// order (host-OS order for host directories, table order for archive directories, spec §5 "Ordering
// guarantees"). fn returning ErrStopIteration halts iteration without error; any other error halts and
// propagates. recursive continues into child directories after fn returns for them (spec §4.11 "Recursive mode
// continues into sub-entities post-callback").
func (s *State) ReadDir(path string, recursive bool, fn IterFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	dh, err := s.resolveDir(path)
	if err != nil {
		return err
	}
	err = s.readDir(dh, recursive, fn)
	if errors.Is(err, ErrStopIteration) {
		return nil
	}
	return err
}

func (s *State) readDir(dh *dirHandle, recursive bool, fn IterFunc) error {
	if dh.hostPath != "" {
		return s.readHostDir(dh, recursive, fn)
	}
	return s.readArchiveDir(dh, recursive, fn)
}

func (s *State) readHostDir(dh *dirHandle, recursive bool, fn IterFunc) error {
	entries, err := os.ReadDir(dh.hostPath)
	if err != nil {
		return wrapErr(KindGeneric, "failed to read host directory: "+dh.hostPath, err)
	}
	for _, entry := range entries {
		childLogical := Join(dh.logicalPath, entry.Name())
		childHost := Join(dh.hostPath, entry.Name())

		entityType := EntityDirectory
		var size int64
		if !entry.IsDir() {
			// a host FILE whose name ends in the archive extension is an Archive; directories are always
			// Directory regardless of name (spec §4.11, §9 "Open questions": fixes the reference
			// implementation's reversed check).
			if strings.HasSuffix(strings.ToLower(entry.Name()), "."+strings.ToLower(DefaultArchiveExtension)) {
				entityType = EntityArchive
			} else {
				entityType = EntityFile
			}
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
		}

		info := EntityInfo{
			Type:     entityType,
			Archived: false,
			FullPath: childLogical,
			LeafName: entry.Name(),
			Size:     size,
		}
		// fn's error (including ErrStopIteration) propagates all the way up through any recursion in progress;
		// it is only ever translated into a non-error at the ReadDir boundary, so a stop requested deep inside
		// a recursive walk halts every enclosing level, not just the immediate one (spec §8, §5 ordering).
		if err := fn(info); err != nil {
			return err
		}

		if recursive && entry.IsDir() {
			child := &dirHandle{logicalPath: childLogical, hostPath: childHost}
			if err := s.readHostDir(child, recursive, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *State) readArchiveDir(dh *dirHandle, recursive bool, fn IterFunc) error {
	archive := dh.archive
	for i, d := range archive.dirs {
		if d.ParentIndex != dh.dirIndex {
			continue
		}
		childLogical := Join(dh.logicalPath, GetName(d.FullName))
		info := EntityInfo{
			Type:     EntityDirectory,
			Archived: true,
			FullPath: childLogical,
			LeafName: GetName(d.FullName),
		}
		// see readHostDir: fn's error propagates past this recursion level unconverted, so it is only ever
		// translated into a non-error at the ReadDir boundary.
		if err := fn(info); err != nil {
			return err
		}
		if recursive {
			child := &dirHandle{logicalPath: childLogical, archive: archive, dirIndex: uint32(i)}
			if err := s.readArchiveDir(child, recursive, fn); err != nil {
				return err
			}
		}
	}
	for _, f := range archive.files {
		if f.ParentDirIndex != dh.dirIndex {
			continue
		}
		childLogical := Join(dh.logicalPath, GetName(f.FullName))
		info := EntityInfo{
			Type:     EntityFile,
			Archived: true,
			FullPath: childLogical,
			LeafName: GetName(f.FullName),
			Size:     int64(f.UncompressedSize),
		}
		if err := fn(info); err != nil {
			return err
		}
	}
	return nil
}
