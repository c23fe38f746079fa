package registry

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Registry maps names to values. It is guarded by a sync.RWMutex and suited
// to read-heavy use.
type Registry[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// New creates an empty registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{entries: make(map[string]V)}
}

// Set adds or replaces the value stored under name. It reports whether a
// previous value was replaced.
func (r *Registry[V]) Set(name string, value V) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced = r.entries[name]
	r.entries[name] = value
	return replaced
}

// Get returns the value stored under name.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[name]
	return v, ok
}

// Has reports whether name is registered.
func (r *Registry[V]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Delete removes name. It reports whether the name was registered.
func (r *Registry[V]) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Len returns the number of entries.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All iterates over a snapshot of the registry in name order.
func (r *Registry[V]) All() iter.Seq2[string, V] {
	r.mu.RLock()
	snapshot := maps.Clone(r.entries)
	r.mu.RUnlock()

	return func(yield func(string, V) bool) {
		for _, name := range slices.Sorted(maps.Keys(snapshot)) {
			if !yield(name, snapshot[name]) {
				return
			}
		}
	}
}

// GetOrCreate returns the value stored under name, calling create and
// storing its result when the name is absent. If create fails nothing is
// stored and the error is returned.
func (r *Registry[V]) GetOrCreate(name string, create func() (V, error)) (V, error) {
	r.mu.RLock()
	v, ok := r.entries[name]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[name]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	r.entries[name] = v
	return v, nil
}

// Clear removes all entries.
func (r *Registry[V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}
