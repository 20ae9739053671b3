package vfs

import "io"

// MaxNameLength is the maximum length, in UTF-8 bytes, of a filter name or an archive directory/file name. It is
// also the fixed size of the corresponding NUL-terminated name field in the on-disk archive format (spec §4.4).
//
// The reference implementation stores these as fixed size arrays of the platform's native character width, which
// means an archive built on a wide-char platform is not byte compatible with one built elsewhere (spec §9 Open
// Questions). This package picks one canonical encoding - UTF-8 - and never looks back.
const MaxNameLength = 64

// EntityType is the tagged variant every resolved entity carries: a plain File, a host Directory, or an Archive
// (a host file whose name ends in the configured archive extension, exposed to consumers as a directory).
type EntityType int

const (
	EntityFile EntityType = iota
	EntityDirectory
	EntityArchive
)

func (t EntityType) String() string {
	switch t {
	case EntityFile:
		return "File"
	case EntityDirectory:
		return "Directory"
	case EntityArchive:
		return "Archive"
	default:
		return "Unknown"
	}
}

// EntityInfo is the immutable description of a resolved entity (spec §3). Archived is true iff the entity lives
// inside an archive; directories always report Size 0; the archive container itself is never flagged Archived
// even though it is exposed as an EntityArchive to its own parent directory listing.
type EntityInfo struct {
	Type     EntityType
	Archived bool
	FullPath string
	LeafName string
	Size     int64
}

// A Filter is a user supplied, name-addressed codec plugged into the filter registry (spec §4.2) and referenced
// by archives via their filter chain (spec §3). Encode and Decode receive the per-archive configuration blob
// explicitly, instead of mutating filter-internal state, so that the same *Filter value can serve many archives
// (even concurrently, modulo the package-wide lock described in spec §5) without a process-wide "active archive"
// pointer - see the design notes in spec §9 on the reference implementation's global decode buffers and active
// archive pointer, which this redesign removes entirely.
type Filter interface {
	// Name returns the registry key for this filter. Must not exceed MaxNameLength UTF-8 bytes.
	Name() string

	// Description is a short, human readable summary; purely informational.
	Description() string

	// ConfigSize is the fixed number of bytes this filter's per-archive configuration blob occupies in the
	// archive's FILTER_CONFIG_BLOB table (spec §4.4). May be zero.
	ConfigSize() uint32

	// LoadConfig reads exactly ConfigSize bytes from r and returns the decoded configuration blob that later
	// Decode/Encode calls against the same archive must be given verbatim.
	LoadConfig(r io.Reader) ([]byte, error)

	// SaveConfig writes cfg back out in the same format LoadConfig expects to read. Only exercised by archive
	// creation tooling, which is outside the core's scope (spec §1 Non-goals); kept so the Filter contract stays
	// symmetric for callers who do implement a writer.
	SaveConfig(cfg []byte, w io.Writer) error

	// Decode transforms the bytes read from r into plaintext(-er) bytes written to w, using cfg (as returned by
	// LoadConfig for this archive) and info describing the file being decoded. A non-nil error aborts the
	// decode pipeline (spec §4.10).
	Decode(cfg []byte, r io.Reader, w io.Writer, info EntityInfo) error

	// Encode is the inverse of Decode. The core never calls it (read-only, spec §1 Non-goals); it exists so the
	// Filter contract can be implemented once and reused by external archive-creation tooling.
	Encode(cfg []byte, r io.Reader, w io.Writer, info EntityInfo) error
}
