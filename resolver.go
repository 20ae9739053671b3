package vfs

import (
	"os"
	"strings"
)

// canonicalizeArchivePath appends the default archive extension to prefix if not already present
// (case-insensitive), per spec §4.4 "Opening an archive path always canonicalizes by appending .DAGN if absent."
func canonicalizeArchivePath(prefix string) string {
	if strings.HasSuffix(strings.ToLower(prefix), "."+strings.ToLower(DefaultArchiveExtension)) {
		return prefix
	}
	return prefix + "." + DefaultArchiveExtension
}

// hostFileExists reports whether hostPath names a regular file (not a directory) on the host filesystem.
func hostFileExists(hostPath string) bool {
	stat, err := os.Stat(hostPath)
	return err == nil && !stat.IsDir()
}

// resolveAbsolute implements spec §4.6 steps 1-2 for a single absolute path: handle-table short-circuit, then
// host-file, then archive-prefix resolution. Returns the lowered key the result was filed under, since a
// relative resolve (below) tries several candidate roots and the caller needs to know which one matched.
func (s *State) resolveAbsolute(absPath string) (Backend, string, error) {
	lowered := Normalize(absPath)

	if entry, ok := s.Handles.Lookup(lowered); ok {
		return entry.backend, lowered, nil
	}

	if hostFileExists(absPath) {
		hf, err := openHostFile(absPath, lowered, false)
		if err != nil {
			return nil, "", err
		}
		s.Handles.Put(lowered, hf)
		return hf, lowered, nil
	}

	backend, err := s.resolveArchivePrefix(absPath, lowered)
	if err != nil {
		return nil, "", err
	}
	return backend, lowered, nil
}

// resolveArchivePrefix implements the "hard part" of spec §4.6: scanning every legal split point of an absolute
// path for a prefix that denotes an on-disk archive whose file index contains the suffix.
func (s *State) resolveArchivePrefix(absPath, lowered string) (Backend, error) {
	for _, i := range splitPoints(absPath) {
		prefix := absPath[:i]
		remainder := absPath[i+1:]
		if remainder == "" {
			continue
		}

		archiveHostPath := canonicalizeArchivePath(prefix)
		if !hostFileExists(archiveHostPath) {
			continue
		}

		archive, err := s.Archives.GetOrOpen(archiveHostPath, func() (*Archive, error) {
			return openArchive(archiveHostPath, s.Filters)
		})
		if err != nil {
			continue // this split point's archive doesn't parse; try the next candidate
		}

		idx, ok := archive.fileIndex[ToLower(remainder)]
		if !ok {
			continue // remainder doesn't name a file in this archive (might be a directory, or wrong split)
		}

		af, err := openArchiveFile(archive, s.Archives, archive.files[idx], lowered)
		if err != nil {
			return nil, err
		}
		s.Handles.Put(lowered, af)
		return af, nil
	}
	return nil, wrapErr(KindNotFound, "no archive or host entity found for: "+absPath,
		&MountPointNotFoundError{Path: absPath})
}

// resolve implements the full spec §4.6 algorithm: absolute paths go straight to resolveAbsolute; relative
// paths are tried against every configured root, in order, stopping at the first success. Returns the lowered
// key the result was filed under, for the caller to build a Handle from.
func (s *State) resolve(path string) (Backend, string, error) {
	if IsAbsolute(path) {
		return s.resolveAbsolute(path)
	}

	roots := s.Roots.List()
	if len(roots) == 0 {
		return nil, "", newErr(KindNoRootPathsDefined, "relative path used before any root was added: "+path)
	}
	for _, root := range roots {
		candidate := Join(root, path)
		if backend, lowered, err := s.resolveAbsolute(candidate); err == nil {
			return backend, lowered, nil
		}
	}
	return nil, "", newErr(KindNotFound, "not found in any root: "+path)
}

// writeTarget resolves the absolute host path that create/mkdirs operations target: path verbatim if absolute,
// else joined onto the write root (spec §4.6 "Creation ... always target the first root").
func (s *State) writeTarget(path string) (string, error) {
	if IsAbsolute(path) {
		return path, nil
	}
	root, ok := s.Roots.WriteRoot()
	if !ok {
		return "", newErr(KindNoRootPathsDefined, "no write root configured")
	}
	return Join(root, path), nil
}
