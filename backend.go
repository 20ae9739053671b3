package vfs

import "io"

// SeekOrigin mirrors io.Seek{Start,Current,End}; it is an alias of int, with its own named constants so callers
// that only need the three origin values do not have to import io (spec §4.8 "translates the three origin
// values").
type SeekOrigin = int

const (
	SeekStart   SeekOrigin = io.SeekStart
	SeekCurrent SeekOrigin = io.SeekCurrent
	SeekEnd     SeekOrigin = io.SeekEnd
)

// Backend is the closed sum type `File = HostFile | ArchiveFile` of spec §4.9/§9 "Polymorphism", modeled as an
// interface rather than a tagged union/enum switch - the two concrete variants (hostFile, archiveFile) are the
// only implementations this package constructs, but the interface keeps the handle table (handle.go) ignorant of
// which one it is holding.
type Backend interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Seek(offset int64, whence SeekOrigin) (int64, error)
	Tell() (int64, error)
	Resize(size int64) error
	Size() (int64, error)
	Info() EntityInfo
	IsArchived() bool
	Close() error
}
