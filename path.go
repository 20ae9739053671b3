package vfs

import "strings"

// PathSeparator is the platform independent separator used by every logical path in this package.
const PathSeparator = "/"

// A Path is a logical, slash separated location in the unified namespace this package exposes. Any prefix of a
// Path may, at resolution time, turn out to name an archive rather than a host directory - see State.Open.
//
// Design decisions
//
//   - It is a string and not a []string of segments, because the overwhelming majority of paths are short (most
//     real world file names are 11-15 bytes) and the traffic pattern is "build once, compare/hash many times" -
//     a string gives us cheap map keys and cheap prefix comparisons without per-segment allocations.
//   - Comparisons are case-insensitive throughout; every hash-map keyed by a Path in this package stores the
//     lower-cased, separator-normalized form (see Normalize).
type Path string

// StartsWith tests whether p begins with prefix.
func (p Path) StartsWith(prefix Path) bool {
	return strings.HasPrefix(string(p), string(prefix))
}

// EndsWith tests whether p ends with suffix.
func (p Path) EndsWith(suffix Path) bool {
	return strings.HasSuffix(string(p), string(suffix))
}

// IsAbsolute reports whether p starts with the separator, or - on platforms with drive letters - matches the
// pattern "<letter>:/...".
func (p Path) IsAbsolute() bool {
	return IsAbsolute(string(p))
}

// String returns p as a plain string.
func (p Path) String() string {
	return string(p)
}

// Name returns the final path component of p, matching GetName.
func (p Path) Name() string {
	return GetName(string(p))
}

// Parent returns the parent path of p, matching GetPath.
func (p Path) Parent() Path {
	return Path(GetPath(string(p)))
}

// Child returns a new Path with name appended as a child.
func (p Path) Child(name string) Path {
	return Path(Join(string(p), name))
}

// TrimPrefix returns p without the leading prefix, re-adding a leading separator so the result stays absolute.
func (p Path) TrimPrefix(prefix Path) Path {
	rest := strings.TrimPrefix(string(p), string(prefix))
	if !strings.HasPrefix(rest, PathSeparator) {
		rest = PathSeparator + rest
	}
	return Path(rest)
}

// Normalize returns the canonical comparison form of p: lower-cased, without a trailing separator.
func (p Path) Normalize() Path {
	return Path(Normalize(string(p)))
}

// ToLower folds path to its comparison form. Every map in this package that is keyed by a path uses this form.
func ToLower(path string) string {
	return strings.ToLower(path)
}

// IsAbsolute reports whether path starts with the separator, or - on platforms with drive letters - matches the
// pattern "<letter>:/...".
func IsAbsolute(path string) bool {
	if strings.HasPrefix(path, PathSeparator) {
		return true
	}
	return len(path) >= 3 && isDriveLetter(path[0]) && path[1] == ':' && path[2] == '/'
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isRootDir reports whether path is exactly a root directory: "/" or "X:/". This fixes the reference
// implementation's out-of-bounds IsRootDir("/") check (spec §9 Open Questions), which indexed path[1] of a
// length-1 string; here length is checked explicitly before any indexing.
func isRootDir(path string) bool {
	if path == PathSeparator {
		return true
	}
	return len(path) == 3 && isDriveLetter(path[0]) && path[1] == ':' && path[2] == '/'
}

// WithoutTrailingSeparator drops a trailing separator from path, unless force is false and path already denotes a
// root directory ("/" or "X:/"), in which case path is returned unchanged.
func WithoutTrailingSeparator(path string, force bool) string {
	if !force && isRootDir(path) {
		return path
	}
	if len(path) > 1 && strings.HasSuffix(path, PathSeparator) {
		return path[:len(path)-1]
	}
	return path
}

// GetPath returns the parent portion of path: everything up to, but not including, the final separator. "/" and
// "X:/" have no parent and return the empty string.
func GetPath(path string) string {
	trimmed := WithoutTrailingSeparator(path, true)
	if isRootDir(trimmed) || isRootDir(trimmed+PathSeparator) {
		return ""
	}
	idx := strings.LastIndex(trimmed, PathSeparator)
	if idx < 0 {
		return ""
	}
	if idx == 0 {
		return PathSeparator
	}
	if idx == 2 && isDriveLetter(trimmed[0]) && trimmed[1] == ':' {
		return trimmed[:idx+1]
	}
	return trimmed[:idx]
}

// GetName returns the final path component of path. The root directories "/" and "X:/" are returned unchanged.
func GetName(path string) string {
	if isRootDir(path) {
		return path
	}
	trimmed := WithoutTrailingSeparator(path, true)
	idx := strings.LastIndex(trimmed, PathSeparator)
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// GetBaseName returns GetName with the suffix from the final '.' onward removed.
func GetBaseName(path string) string {
	if isRootDir(path) {
		return path
	}
	name := GetName(path)
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	return name[:idx]
}

// GetExtension returns the suffix of GetName after the final '.', or the empty string if name has none.
func GetExtension(path string) string {
	if isRootDir(path) {
		return ""
	}
	name := GetName(path)
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

// Join concatenates path segments using the platform independent separator, collapsing duplicate separators at
// each seam. The result is absolute iff the first non-empty part is.
func Join(parts ...string) string {
	sb := strings.Builder{}
	absolute := false
	seenFirst := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !seenFirst {
			absolute = IsAbsolute(part)
			seenFirst = true
		}
		trimmed := strings.Trim(part, PathSeparator)
		if trimmed == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(PathSeparator)
		}
		sb.WriteString(trimmed)
	}
	out := sb.String()
	if absolute && !strings.HasPrefix(out, PathSeparator) {
		return PathSeparator + out
	}
	return out
}

// Normalize returns the canonical comparison form of path: lower-cased, without a trailing separator (unless it
// is a root directory, which has none to strip).
func Normalize(path string) string {
	return ToLower(WithoutTrailingSeparator(path, false))
}

// splitPoints returns every separator index in path that is a legal archive-prefix split candidate: every slash
// except position 0 (the absolute-path marker) and, when path begins with a drive letter pattern, position 2
// (the "X:/" marker), per spec §4.6.
func splitPoints(path string) []int {
	var points []int
	skipDriveSlash := len(path) >= 3 && isDriveLetter(path[0]) && path[1] == ':' && path[2] == '/'
	for i := 0; i < len(path); i++ {
		if path[i] != '/' {
			continue
		}
		if i == 0 {
			continue
		}
		if skipDriveSlash && i == 2 {
			continue
		}
		points = append(points, i)
	}
	return points
}
