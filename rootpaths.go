package vfs

import "sync"

// A RootPathList is the ordered search path of host directories described in spec §4.3. Insertion order is
// preserved and matters: the first root is the write root, the target of every Create and MkDirs call (spec
// §4.6).
type RootPathList struct {
	mu    sync.Mutex
	roots []string // lower-cased, without trailing separator
}

// NewRootPathList allocates an empty root path list.
func NewRootPathList() *RootPathList {
	return &RootPathList{}
}

// Add appends path to the list. path must be absolute (spec §4.1 IsAbsolute) and must not already be present
// (case-insensitively); it is stored lower-cased and without a trailing separator.
func (l *RootPathList) Add(path string) error {
	if !IsAbsolute(path) {
		return newErr(KindInvalidParameter, "root path must be absolute: "+path)
	}
	normalized := Normalize(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.roots {
		if r == normalized {
			return newErr(KindAlreadyExists, "root path already added: "+path)
		}
	}
	l.roots = append(l.roots, normalized)
	return nil
}

// RemoveByValue removes path (case-insensitively) from the list, or reports KindNotFound if it is absent.
func (l *RootPathList) RemoveByValue(path string) error {
	normalized := Normalize(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.roots {
		if r == normalized {
			l.roots = append(l.roots[:i], l.roots[i+1:]...)
			return nil
		}
	}
	return newErr(KindNotFound, "root path not found: "+path)
}

// RemoveByIndex removes the root at position idx, or reports KindInvalidParameter if idx is out of range.
func (l *RootPathList) RemoveByIndex(idx int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if idx < 0 || idx >= len(l.roots) {
		return newErr(KindInvalidParameter, "root path index out of range")
	}
	l.roots = append(l.roots[:idx], l.roots[idx+1:]...)
	return nil
}

// List returns a snapshot of the configured roots, in search order.
func (l *RootPathList) List() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.roots))
	copy(out, l.roots)
	return out
}

// Count returns the number of configured roots.
func (l *RootPathList) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.roots)
}

// WriteRoot returns the first configured root - the target for Create and MkDirs (spec §4.6) - and false if no
// root has been added yet (spec's KindNoRootPathsDefined).
func (l *RootPathList) WriteRoot() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.roots) == 0 {
		return "", false
	}
	return l.roots[0], true
}
