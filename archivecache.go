package vfs

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// archiveCacheEntry pairs a parsed Archive with the number of currently-open archive-file handles referencing
// it. This "derived refcount" (spec §3 "Open archive") is changed only through Acquire and Release, which each
// archive-file backend calls once on construction and once on Close (archivefile.go); eviction only ever removes
// entries whose refs have reached zero.
type archiveCacheEntry struct {
	archive *Archive
	refs    int
}

// ArchiveCache is the process-wide (here: per-State) map of absolute archive host path to open Archive described
// in spec §4.5/C5. It is backed by an LRU of bounded size (github.com/hashicorp/golang-lru/v2, as used by
// mholt/archiver and containerd/nydus-snapshotter in the retrieval pack) so that, beyond the reference
// implementation's pure refcount-driven flush, there is also a real eviction policy bounding how many archive
// tables are parsed in memory at once. An archive with a non-zero derived refcount is never evicted - capacity
// pressure is enforced after each insert by evictOverCapacity, not via the LRU's own eviction callback: that
// callback runs while the library's internal lock is already held, and re-inserting a still-live entry from
// inside it would self-deadlock, so this cache evicts manually instead.
type ArchiveCache struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *archiveCacheEntry]
	capacity int
}

// NewArchiveCache allocates a cache that keeps at most capacity parsed archives resident, evicting the least
// recently used zero-refcount entry first when capacity is exceeded. capacity <= 0 means unbounded.
func NewArchiveCache(capacity int) *ArchiveCache {
	c := &ArchiveCache{capacity: capacity}
	size := capacity
	if size <= 0 {
		size = 1 << 20 // effectively unbounded; lru.Cache requires a positive size
	}
	cache, err := lru.New[string, *archiveCacheEntry](size)
	if err != nil {
		// only returns an error for size <= 0, which is excluded above.
		panic(err)
	}
	c.cache = cache
	return c
}

// evictOverCapacity drops least-recently-used, zero-refcount entries other than keep until the cache is back at
// or under capacity, or no more evictable entries remain. Must be called with mu held.
func (c *ArchiveCache) evictOverCapacity(keep string) {
	if c.capacity <= 0 {
		return
	}
	for c.cache.Len() > c.capacity {
		evictedAny := false
		for _, key := range c.cache.Keys() {
			if key == keep {
				continue
			}
			entry, ok := c.cache.Peek(key)
			if !ok || entry.refs > 0 {
				continue
			}
			c.cache.Remove(key)
			_ = entry.archive.Close()
			evictedAny = true
			break
		}
		if !evictedAny {
			return // every resident archive is still referenced; let the cache grow past capacity
		}
	}
}

// GetOrOpen returns the cached Archive for hostPath, or parses and caches a new one via open if absent.
func (c *ArchiveCache) GetOrOpen(hostPath string, open func() (*Archive, error)) (*Archive, error) {
	key := Normalize(hostPath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache.Get(key); ok {
		return entry.archive, nil
	}

	archive, err := open()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, &archiveCacheEntry{archive: archive})
	c.evictOverCapacity(key)
	return archive, nil
}

// Acquire increments the derived refcount for the archive at hostPath. Must only be called for a path already
// present in the cache (i.e. right after GetOrOpen succeeded for it).
func (c *ArchiveCache) Acquire(hostPath string) {
	key := Normalize(hostPath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache.Get(key); ok {
		entry.refs++
	}
}

// Release decrements the derived refcount for the archive at hostPath. It does not itself evict - eviction of a
// zero-refcount archive only happens via Flush or LRU capacity pressure, matching spec §5's "flush is an
// opportunistic collector".
func (c *ArchiveCache) Release(hostPath string) {
	key := Normalize(hostPath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache.Get(key); ok && entry.refs > 0 {
		entry.refs--
	}
}

// Flush evicts every cached archive whose derived refcount is zero and returns how many were evicted (spec §5,
// §8 scenario 6).
func (c *ArchiveCache) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for _, key := range c.cache.Keys() {
		entry, ok := c.cache.Peek(key)
		if !ok || entry.refs > 0 {
			continue
		}
		c.cache.Remove(key)
		_ = entry.archive.Close()
		evicted++
	}
	return evicted
}

// Leaked returns the host paths of every archive still resident with a non-zero derived refcount - used by
// Shutdown to build its leak report (spec §5).
func (c *ArchiveCache) Leaked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var leaked []string
	for _, key := range c.cache.Keys() {
		if entry, ok := c.cache.Peek(key); ok && entry.refs > 0 {
			leaked = append(leaked, key)
		}
	}
	return leaked
}

// Len returns the number of archives currently resident in the cache, live or not.
func (c *ArchiveCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// CloseAll force-closes every archive regardless of refcount, used by Shutdown after Flush and the leak report
// (spec §5: "shutdown invokes flush then ... force-releases them").
func (c *ArchiveCache) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.cache.Keys() {
		if entry, ok := c.cache.Peek(key); ok {
			_ = entry.archive.Close()
		}
	}
	c.cache.Purge()
}
