package vfs

import (
	"encoding/binary"
	"io"
)

// ArchiveMagic is the fixed 4 byte magic every archive container starts with (spec §4.4, §6 Constants).
const ArchiveMagic = "VFS1"

// DefaultArchiveExtension is the host filename suffix every archive is canonicalized to (spec §4.4, §6).
const DefaultArchiveExtension = "DAGN"

// archiveVersionMajor/archiveVersionMinor make up the version word written to every archive header; major is
// encoded in the low byte (spec §6 Constants).
const (
	archiveVersionMajor = 1
	archiveVersionMinor = 0
)

// rootMarker is the sentinel parent/dir index meaning "the archive root" (spec §4.4).
const rootMarker = 0xFFFFFFFF

// Record sizes of the fixed, packed, little-endian on-disk layout (spec §4.4). Name fields are MaxNameLength NUL
// terminated UTF-8 bytes.
const (
	headerRecordSize = 4 + 2 + 4 + 4 + 4 // magic, version, numFilters, numDirs, numFiles
	filterRecordSize = MaxNameLength
	dirRecordSize    = MaxNameLength + 4          // name, parentIndex
	fileRecordSize   = MaxNameLength + 4 + 4 + 4  // name, dirIndex, uncompressedSize, compressedSize
)

type archiveHeader struct {
	Version    uint16
	NumFilters uint32
	NumDirs    uint32
	NumFiles   uint32
}

func readArchiveHeader(r io.Reader) (archiveHeader, error) {
	buf := make([]byte, headerRecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return archiveHeader{}, wrapErr(KindInvalidArchiveFormat, "short archive header", err)
	}
	if string(buf[0:4]) != ArchiveMagic {
		return archiveHeader{}, newErr(KindInvalidArchiveFormat, "bad magic")
	}
	return archiveHeader{
		Version:    binary.LittleEndian.Uint16(buf[4:6]),
		NumFilters: binary.LittleEndian.Uint32(buf[6:10]),
		NumDirs:    binary.LittleEndian.Uint32(buf[10:14]),
		NumFiles:   binary.LittleEndian.Uint32(buf[14:18]),
	}, nil
}

func writeArchiveHeader(w io.Writer, h archiveHeader) error {
	buf := make([]byte, headerRecordSize)
	copy(buf[0:4], ArchiveMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint32(buf[6:10], h.NumFilters)
	binary.LittleEndian.PutUint32(buf[10:14], h.NumDirs)
	binary.LittleEndian.PutUint32(buf[14:18], h.NumFiles)
	_, err := w.Write(buf)
	return err
}

// archiveVersion packs major/minor into the wire version word, major in the low byte (spec §6 Constants).
func archiveVersion() uint16 {
	return uint16(archiveVersionMajor) | uint16(archiveVersionMinor)<<8
}

func readFixedName(buf []byte) string {
	end := 0
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[:end])
}

func writeFixedName(name string, buf []byte) error {
	if len(name) >= len(buf) {
		return newErr(KindInvalidParameter, "name exceeds MaxNameLength: "+name)
	}
	for i := range buf {
		buf[i] = 0
	}
	copy(buf, name)
	return nil
}

type rawFilterRecord struct {
	Name string
}

func readFilterRecord(r io.Reader) (rawFilterRecord, error) {
	buf := make([]byte, filterRecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return rawFilterRecord{}, wrapErr(KindInvalidArchiveFormat, "short filter record", err)
	}
	return rawFilterRecord{Name: readFixedName(buf)}, nil
}

type rawDirRecord struct {
	Name        string
	ParentIndex uint32
}

func readDirRecord(r io.Reader) (rawDirRecord, error) {
	buf := make([]byte, dirRecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return rawDirRecord{}, wrapErr(KindInvalidArchiveFormat, "short dir record", err)
	}
	return rawDirRecord{
		Name:        readFixedName(buf[:MaxNameLength]),
		ParentIndex: binary.LittleEndian.Uint32(buf[MaxNameLength:]),
	}, nil
}

type rawFileRecord struct {
	Name              string
	DirIndex          uint32
	UncompressedSize  uint32
	CompressedSize    uint32
}

func readFileRecord(r io.Reader) (rawFileRecord, error) {
	buf := make([]byte, fileRecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return rawFileRecord{}, wrapErr(KindInvalidArchiveFormat, "short file record", err)
	}
	off := MaxNameLength
	return rawFileRecord{
		Name:             readFixedName(buf[:MaxNameLength]),
		DirIndex:         binary.LittleEndian.Uint32(buf[off : off+4]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[off+4 : off+8]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[off+8 : off+12]),
	}, nil
}

func writeFilterRecord(w io.Writer, name string) error {
	buf := make([]byte, filterRecordSize)
	if err := writeFixedName(name, buf); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func writeDirRecord(w io.Writer, name string, parentIndex uint32) error {
	buf := make([]byte, dirRecordSize)
	if err := writeFixedName(name, buf[:MaxNameLength]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[MaxNameLength:], parentIndex)
	_, err := w.Write(buf)
	return err
}

func writeFileRecord(w io.Writer, name string, dirIndex, uncompressedSize, compressedSize uint32) error {
	buf := make([]byte, fileRecordSize)
	if err := writeFixedName(name, buf[:MaxNameLength]); err != nil {
		return err
	}
	off := MaxNameLength
	binary.LittleEndian.PutUint32(buf[off:off+4], dirIndex)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], uncompressedSize)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], compressedSize)
	_, err := w.Write(buf)
	return err
}
