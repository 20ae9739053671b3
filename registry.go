package vfs

import "sync"

// A FilterRegistry is the name-indexed registry of codec plug-ins described in spec §4.2. It owns no memory for
// the registered Filter itself - the caller's Filter value must outlive registration, exactly as in the teacher's
// own registries (see RootProvider.mountPoints for the same "registry holds a reference, not an owner" shape).
type FilterRegistry struct {
	mu     sync.Mutex
	byName map[string]Filter
	order  []Filter
}

// NewFilterRegistry allocates an empty registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{byName: make(map[string]Filter)}
}

// Register adds filter under its lower-cased Name(). Fails with KindAlreadyExists if the (lower-cased) name is
// already taken, or KindInvalidParameter if the name exceeds MaxNameLength UTF-8 bytes.
func (r *FilterRegistry) Register(filter Filter) error {
	if filter == nil {
		return newErr(KindInvalidParameter, "filter must not be nil")
	}
	name := filter.Name()
	if len(name) > MaxNameLength {
		return newErr(KindInvalidParameter, "filter name exceeds MaxNameLength: "+name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := ToLower(name)
	if _, ok := r.byName[key]; ok {
		return newErr(KindAlreadyExists, "filter already registered: "+name)
	}
	r.byName[key] = filter
	r.order = append(r.order, filter)
	return nil
}

// UnregisterByName removes the filter registered under name (case-insensitive), matching both the lookup and the
// deletion to the same lower-cased key - the reference implementation's Unregister-by-name used the un-lowercased
// key for removal while register stored lower-cased, a mismatch spec §9 calls out explicitly as a bug to fix.
func (r *FilterRegistry) UnregisterByName(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ToLower(name)
	filter, ok := r.byName[key]
	if !ok {
		return false
	}
	delete(r.byName, key)
	r.removeFromOrder(filter)
	return true
}

// UnregisterByIndex removes the filter at position idx in List()'s order.
func (r *FilterRegistry) UnregisterByIndex(idx int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.order) {
		return false
	}
	filter := r.order[idx]
	delete(r.byName, ToLower(filter.Name()))
	r.order = append(r.order[:idx], r.order[idx+1:]...)
	return true
}

// Unregister removes filter if it equals (interface value equality) the filter registered under its name.
func (r *FilterRegistry) Unregister(filter Filter) bool {
	if filter == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ToLower(filter.Name())
	if existing, ok := r.byName[key]; !ok || existing != filter {
		return false
	}
	delete(r.byName, key)
	r.removeFromOrder(filter)
	return true
}

// removeFromOrder must be called with mu held.
func (r *FilterRegistry) removeFromOrder(filter Filter) {
	for i, f := range r.order {
		if f == filter {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Exists reports whether name (case-insensitive) is registered.
func (r *FilterRegistry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byName[ToLower(name)]
	return ok
}

// Get returns the filter registered under name (case-insensitive), or nil, ok=false.
func (r *FilterRegistry) Get(name string) (Filter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byName[ToLower(name)]
	return f, ok
}

// GetAt returns the filter at position idx in registration order, or nil, ok=false.
func (r *FilterRegistry) GetAt(idx int) (Filter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < 0 || idx >= len(r.order) {
		return nil, false
	}
	return r.order[idx], true
}

// Count returns the number of registered filters.
func (r *FilterRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// List returns a snapshot of the registered filters in registration order.
func (r *FilterRegistry) List() []Filter {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Filter, len(r.order))
	copy(out, r.order)
	return out
}

// ListNames returns the registered filter names in registration order.
func (r *FilterRegistry) ListNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	for i, f := range r.order {
		out[i] = f.Name()
	}
	return out
}
