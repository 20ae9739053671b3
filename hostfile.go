package vfs

import (
	"io"
	"os"
)

// hostFile is the thin adapter over a platform file stream described in spec §4.8. It always tries to open
// read-write first and falls back to read-only, recording which mode it actually got so Write can report
// PermissionDenied instead of letting the OS call fail with its own, less specific error.
type hostFile struct {
	path     string // absolute, lower-cased resolution of the opened logical path
	file     *os.File
	readOnly bool
	info     EntityInfo
}

// openHostFile opens path for reading, preferring read-write and falling back to read-only. create controls
// whether a missing file is created (for the `create` operation, spec §4.6).
func openHostFile(hostPath, loweredPath string, create bool) (*hostFile, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	file, err := os.OpenFile(hostPath, flags, 0o644)
	readOnly := false
	if err != nil {
		readOnly = true
		roFlags := os.O_RDONLY
		file, err = os.OpenFile(hostPath, roFlags, 0)
		if err != nil {
			return nil, wrapErr(KindNotFound, "cannot open host file: "+hostPath, err)
		}
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, wrapErr(KindGeneric, "cannot stat host file: "+hostPath, err)
	}

	return &hostFile{
		path:     loweredPath,
		file:     file,
		readOnly: readOnly,
		info: EntityInfo{
			Type:     EntityFile,
			Archived: false,
			FullPath: loweredPath,
			LeafName: GetName(loweredPath),
			Size:     stat.Size(),
		},
	}, nil
}

// createHostFile truncates (or creates) path for read-write access - the backend constructed by the `create`
// operation (spec §4.6).
func createHostFile(hostPath, loweredPath string) (*hostFile, error) {
	file, err := os.OpenFile(hostPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, wrapErr(KindGeneric, "cannot create host file: "+hostPath, err)
	}
	return &hostFile{
		path: loweredPath,
		file: file,
		info: EntityInfo{
			Type:     EntityFile,
			Archived: false,
			FullPath: loweredPath,
			LeafName: GetName(loweredPath),
		},
	}, nil
}

func (h *hostFile) Read(buf []byte) (int, error) {
	n, err := h.file.Read(buf)
	if err == io.EOF {
		return n, nil // zero bytes at EOF is not an error, spec §8 "Boundary behaviors"
	}
	return n, err
}

func (h *hostFile) Write(buf []byte) (int, error) {
	if h.readOnly {
		return 0, newErr(KindPermissionDenied, "host file opened read-only: "+h.path)
	}
	return h.file.Write(buf)
}

func (h *hostFile) Seek(offset int64, whence SeekOrigin) (int64, error) {
	return h.file.Seek(offset, whence)
}

func (h *hostFile) Tell() (int64, error) {
	return h.file.Seek(0, io.SeekCurrent)
}

func (h *hostFile) Resize(size int64) error {
	if h.readOnly {
		return newErr(KindPermissionDenied, "host file opened read-only: "+h.path)
	}
	return h.file.Truncate(size)
}

func (h *hostFile) Size() (int64, error) {
	stat, err := h.file.Stat()
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

func (h *hostFile) Info() EntityInfo {
	size, err := h.Size()
	if err == nil {
		h.info.Size = size
	}
	return h.info
}

func (h *hostFile) IsArchived() bool {
	return false
}

func (h *hostFile) Close() error {
	return h.file.Close()
}
