package vfs

import (
	"io"
	"os"
	"strings"
)

// Handle is an open file returned by Open/Create. It wraps one of the two Backend variants (hostFile or
// archiveFile, spec §9 "Polymorphism") behind a single capability set, and must be released with Close exactly
// once per successful Open/Create call - repeated opens of the same path share the underlying Backend and are
// refcounted by the handle table (handle.go, spec §4.7).
type Handle struct {
	state *State
	path  string // absolute, lower-cased key into the handle table
	backend Backend
}

func (h *Handle) Read(buf []byte) (int, error)  { return h.backend.Read(buf) }
func (h *Handle) Write(buf []byte) (int, error) { return h.backend.Write(buf) }
func (h *Handle) Seek(offset int64, whence SeekOrigin) (int64, error) {
	return h.backend.Seek(offset, whence)
}
func (h *Handle) Tell() (int64, error)       { return h.backend.Tell() }
func (h *Handle) Resize(size int64) error    { return h.backend.Resize(size) }
func (h *Handle) Size() (int64, error)        { return h.backend.Size() }
func (h *Handle) Info() EntityInfo            { return h.backend.Info() }
func (h *Handle) IsArchived() bool            { return h.backend.IsArchived() }

// Close releases this Handle's hold on the underlying path. The backend is only actually closed once every
// Handle sharing that path has been closed (spec §4.7).
func (h *Handle) Close() error {
	_, err := h.state.Handles.Release(h.path)
	return err
}

// Open resolves path for reading (and, for host files, writing when the file permits) following spec §4.6, and
// returns a refcounted Handle over the result.
func (s *State) Open(path string) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	backend, lowered, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("open")
	return &Handle{state: s, path: lowered, backend: backend}, nil
}

// Create truncates (or creates) a host file at path - always the write root for relative paths (spec §4.6). An
// already-open handle for the target is reused with its refcount bumped; otherwise a fresh host-file backend is
// constructed and truncated.
func (s *State) Create(path string) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	hostPath, err := s.writeTarget(path)
	if err != nil {
		return nil, err
	}
	lowered := Normalize(hostPath)

	if entry, ok := s.Handles.Lookup(lowered); ok {
		// Create always truncates its target, even when reusing an already-open handle (spec §4.6): a fresh
		// createHostFile below gets this for free via O_TRUNC, so the reused-handle path has to do it explicitly.
		if err := entry.backend.Resize(0); err != nil {
			_, _ = s.Handles.Release(lowered)
			return nil, err
		}
		return &Handle{state: s, path: lowered, backend: entry.backend}, nil
	}

	backend, err := createHostFile(hostPath, lowered)
	if err != nil {
		return nil, err
	}
	s.Handles.Put(lowered, backend)
	s.log.Debug().Str("path", hostPath).Msg("create")
	return &Handle{state: s, path: lowered, backend: backend}, nil
}

// MkDirs creates path (and any missing parents) as a host directory, always under the write root for relative
// paths (spec §4.6).
func (s *State) MkDirs(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	hostPath, err := s.writeTarget(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(hostPath, 0o755); err != nil {
		return wrapErr(KindGeneric, "failed to create directory: "+hostPath, err)
	}
	return nil
}

// Delete removes a host file. It requires the file not be in use by another holder (refcount <= 1, spec §4.7)
// and that it isn't archive-backed (archive-file backends never hold a host path that can be unlinked directly).
func (s *State) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}

	hostPath, err := s.writeTarget(path)
	if err != nil {
		return err
	}
	lowered := Normalize(hostPath)

	if refs := s.Handles.Refs(lowered); refs > 1 {
		return newErr(KindInUse, "file has other open holders: "+hostPath)
	}
	if backend, ok := s.Handles.Remove(lowered); ok {
		if backend.IsArchived() {
			return newErr(KindCantManipulateArchives, "cannot delete an archived entry: "+hostPath)
		}
		_ = backend.Close()
	}
	if err := os.Remove(hostPath); err != nil {
		return wrapErr(KindPermissionDenied, "failed to delete: "+hostPath, err)
	}
	return nil
}

// Rename renames a host file, resolving newName relative to oldPath's parent directory (spec §4.7). Same
// pre-conditions as Delete.
func (s *State) Rename(oldPath, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}

	hostOld, err := s.writeTarget(oldPath)
	if err != nil {
		return err
	}
	lowered := Normalize(hostOld)

	if refs := s.Handles.Refs(lowered); refs > 1 {
		return newErr(KindInUse, "file has other open holders: "+hostOld)
	}
	if backend, ok := s.Handles.Remove(lowered); ok {
		if backend.IsArchived() {
			return newErr(KindCantManipulateArchives, "cannot rename an archived entry: "+hostOld)
		}
		_ = backend.Close()
	}

	hostNew := Join(GetPath(hostOld), newName)
	if err := os.Rename(hostOld, hostNew); err != nil {
		return wrapErr(KindPermissionDenied, "failed to rename: "+hostOld, err)
	}
	return nil
}

// Stat resolves path to its EntityInfo without registering a handle-table entry or decoding any archived
// payload beyond what Archive.Stat already knows (SPEC_FULL.md supplemented feature: a read-only query that
// doesn't pay for a full open).
func (s *State) Stat(path string) (EntityInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return EntityInfo{}, err
	}
	return s.stat(path)
}

func (s *State) stat(path string) (EntityInfo, error) {
	if IsAbsolute(path) {
		return s.statAbsolute(path)
	}
	roots := s.Roots.List()
	if len(roots) == 0 {
		return EntityInfo{}, newErr(KindNoRootPathsDefined, "relative path used before any root was added: "+path)
	}
	for _, root := range roots {
		if info, err := s.statAbsolute(Join(root, path)); err == nil {
			return info, nil
		}
	}
	return EntityInfo{}, newErr(KindNotFound, "not found in any root: "+path)
}

func (s *State) statAbsolute(absPath string) (EntityInfo, error) {
	lowered := Normalize(absPath)
	if stat, err := os.Stat(absPath); err == nil {
		entityType := EntityDirectory
		var size int64
		if !stat.IsDir() {
			entityType = EntityFile
			if strings.HasSuffix(lowered, "."+strings.ToLower(DefaultArchiveExtension)) {
				entityType = EntityArchive
			}
			size = stat.Size()
		}
		return EntityInfo{Type: entityType, FullPath: lowered, LeafName: GetName(lowered), Size: size}, nil
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
			return EntityInfo{Type: EntityArchive, FullPath: lowered, LeafName: GetName(lowered)}, nil
		}
		if info, ok := archive.Stat(remainder); ok {
			info.FullPath = lowered
			return info, nil
		}
	}
	return EntityInfo{}, newErr(KindNotFound, "not found: "+absPath)
}

// Extract resolves path, decodes it if archived, and streams the complete contents to dest (SPEC_FULL.md
// supplemented feature, built atop Open/Read/Close). Reading stops once a Read call returns 0 bytes - per spec
// §4.8/§8, 0 bytes is how both backends signal EOF, not io.EOF, so this does not use io.Copy directly.
func (s *State) Extract(path string, dest io.Writer) error {
	handle, err := s.Open(path)
	if err != nil {
		return err
	}
	defer handle.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := handle.Read(buf)
		if err != nil {
			return wrapErr(KindGeneric, "failed to extract: "+path, err)
		}
		if n == 0 {
			return nil
		}
		if _, err := dest.Write(buf[:n]); err != nil {
			return wrapErr(KindGeneric, "failed to write extracted bytes: "+path, err)
		}
	}
}
