package vfs

import (
	"fmt"
	"io"
	"os"
)

// openArchive implements the archive parser sequence of spec §4.5: read the header, resolve the filter chain
// against registry, read the directory and file tables, and compute every file's payload offset. Parsing is
// append-only and allocates each table exactly once.
func openArchive(hostPath string, registry *FilterRegistry) (*Archive, error) {
	file, err := os.Open(hostPath)
	if err != nil {
		return nil, wrapErr(KindNotAnArchive, "cannot open archive: "+hostPath, err)
	}

	archive, err := parseArchive(file, registry)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	archive.Path = Normalize(hostPath)
	archive.file = file
	return archive, nil
}

func parseArchive(file *os.File, registry *FilterRegistry) (*Archive, error) {
	header, err := readArchiveHeader(file)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		dirIndex:  make(map[string]int, header.NumDirs),
		fileIndex: make(map[string]int, header.NumFiles),
	}

	a.dataOffset = int64(headerRecordSize) +
		int64(header.NumFilters)*int64(filterRecordSize) +
		int64(header.NumDirs)*int64(dirRecordSize) +
		int64(header.NumFiles)*int64(fileRecordSize)

	// step 4: filter table, resolved against the registry; accumulate file-data offset as we go.
	var missing []string
	fileDataOffset := a.dataOffset
	for i := uint32(0); i < header.NumFilters; i++ {
		rec, err := readFilterRecord(file)
		if err != nil {
			return nil, err
		}
		filter, ok := registry.Get(rec.Name)
		if !ok {
			missing = append(missing, rec.Name)
			continue
		}
		a.filters = append(a.filters, filter)
		fileDataOffset += int64(filter.ConfigSize())
	}
	if len(missing) > 0 {
		return nil, newErr(KindMissingFilters, fmt.Sprintf("archive references unknown filters: %v", missing))
	}
	a.fileDataOffset = fileDataOffset

	// step 5: directory table, raw (relative) names.
	rawDirs := make([]rawDirRecord, header.NumDirs)
	for i := uint32(0); i < header.NumDirs; i++ {
		rec, err := readDirRecord(file)
		if err != nil {
			return nil, err
		}
		rawDirs[i] = rec
	}

	// step 6: post-process the directory table - parents have smaller indices by construction, so a single
	// forward pass can resolve every full name.
	a.dirs = make([]dirEntry, len(rawDirs))
	for i, rec := range rawDirs {
		full := rec.Name
		if rec.ParentIndex != rootMarker {
			if rec.ParentIndex >= uint32(i) {
				return nil, newErr(KindInvalidArchiveFormat, "directory parent index is not topologically ordered")
			}
			full = a.dirs[rec.ParentIndex].FullName + "/" + rec.Name
		}
		lower := ToLower(full)
		a.dirs[i] = dirEntry{FullName: lower, ParentIndex: rec.ParentIndex}
		a.dirIndex[lower] = i
	}

	// step 7: snapshot/restore the cursor around loading per-filter configuration, so table reads stay
	// sequential; the reference implementation calls this "activating" the archive (spec §4.10). This redesign
	// has no global active-archive pointer: the loaded blobs are stored directly on this Archive (see
	// archive.go, filterConfigs) and LoadConfig never mutates filter-global state.
	cursor, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, wrapErr(KindGeneric, "failed to snapshot archive cursor", err)
	}
	if _, err := file.Seek(a.dataOffset, io.SeekStart); err != nil {
		return nil, wrapErr(KindGeneric, "failed to seek to filter config data", err)
	}
	a.filterConfigs = make([][]byte, len(a.filters))
	for i, filter := range a.filters {
		cfg, err := filter.LoadConfig(file)
		if err != nil {
			return nil, wrapErr(KindInvalidArchiveFormat, "filter config load failed: "+filter.Name(), err)
		}
		a.filterConfigs[i] = cfg
	}
	if _, err := file.Seek(cursor, io.SeekStart); err != nil {
		return nil, wrapErr(KindGeneric, "failed to restore archive cursor", err)
	}

	// step 8: file table, full names prefixed by their parent dir's full name, data offsets assigned
	// monotonically starting at fileDataOffset.
	a.files = make([]fileEntry, header.NumFiles)
	offset := a.fileDataOffset
	for i := uint32(0); i < header.NumFiles; i++ {
		rec, err := readFileRecord(file)
		if err != nil {
			return nil, err
		}

		full := rec.Name
		if rec.DirIndex != rootMarker {
			dir, ok := dirByIndex(a.dirs, rec.DirIndex)
			if !ok {
				return nil, newErr(KindInvalidArchiveFormat, "file references unknown directory index")
			}
			full = dir.FullName + "/" + rec.Name
		}
		lower := ToLower(full)

		a.files[i] = fileEntry{
			FullName:         lower,
			ParentDirIndex:   rec.DirIndex,
			DataOffset:       offset,
			CompressedSize:   rec.CompressedSize,
			UncompressedSize: rec.UncompressedSize,
		}
		a.fileIndex[lower] = int(i)
		offset += int64(rec.CompressedSize)
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, wrapErr(KindGeneric, "failed to stat archive", err)
	}
	if offset != stat.Size() {
		return nil, newErr(KindInvalidArchiveFormat, "archive payload size mismatch against backing file size")
	}

	return a, nil
}

func dirByIndex(dirs []dirEntry, idx uint32) (dirEntry, bool) {
	if idx == rootMarker || idx >= uint32(len(dirs)) {
		return dirEntry{}, false
	}
	return dirs[idx], true
}
