package vfs

import "sync"

// handleEntry is one row of the file handle table (spec §3 "Open file", §4.7). refs starts at 1 on creation; a
// repeated open/create of the same key bumps it, and close decrements it, removing the entry once it reaches 0.
type handleEntry struct {
	path    string // absolute, lower-cased
	backend Backend
	refs    int
}

// HandleTable is the name-indexed map of absolute path -> open file described in spec §4.7 (C7). It is not
// itself archive-aware; both hostFile and archiveFile backends are stored behind the same Backend interface.
type HandleTable struct {
	mu      sync.Mutex
	entries map[string]*handleEntry
}

// NewHandleTable allocates an empty handle table.
func NewHandleTable() *HandleTable {
	return &HandleTable{entries: make(map[string]*handleEntry)}
}

// Lookup returns the entry for path (already lower-cased by the caller) and bumps its refcount, or ok=false if
// no entry is present - spec §4.6 step 1 "if the same absolute lower-cased key is already present ... bump
// refcount and return that handle".
func (t *HandleTable) Lookup(path string) (*handleEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[path]
	if !ok {
		return nil, false
	}
	e.refs++
	return e, true
}

// Put registers a freshly constructed backend under path with refs=1 and returns its entry.
func (t *HandleTable) Put(path string, backend Backend) *handleEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := &handleEntry{path: path, backend: backend, refs: 1}
	t.entries[path] = e
	return e
}

// Release decrements path's refcount. When it reaches 0 the entry is removed and its backend closed. Returns
// whether the entry was evicted and any error from closing the backend.
func (t *HandleTable) Release(path string) (evicted bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[path]
	if !ok {
		return false, newErr(KindInvalidParameter, "no open handle for: "+path)
	}
	e.refs--
	if e.refs > 0 {
		return false, nil
	}
	delete(t.entries, path)
	return true, e.backend.Close()
}

// Refs reports the current refcount for path, or 0 if no entry exists.
func (t *HandleTable) Refs(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[path]; ok {
		return e.refs
	}
	return 0
}

// Remove forcibly drops path's entry without decrementing - used by delete/rename, which require refs <= 1
// (no holder besides the caller) before the caller may proceed (spec §4.7). Returns the backend so the caller can close it.
func (t *HandleTable) Remove(path string) (Backend, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[path]
	if !ok {
		return nil, false
	}
	delete(t.entries, path)
	return e.backend, true
}

// Count returns the number of live entries.
func (t *HandleTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Leaked returns the paths of every entry still open - used by Shutdown to build its leak report (spec §5).
func (t *HandleTable) Leaked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var leaked []string
	for path := range t.entries {
		leaked = append(leaked, path)
	}
	return leaked
}

// CloseAll force-closes every open handle regardless of refcount, used by Shutdown after the leak report (spec
// §5: "shutdown ... force-releases them").
func (t *HandleTable) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, e := range t.entries {
		_ = e.backend.Close()
		delete(t.entries, path)
	}
}
