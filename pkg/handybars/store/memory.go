package store

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory.
// Data is lost when the process exits.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryNamespace
	closed     bool
}

type memoryNamespace struct {
	lastSeq int
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]*memoryNamespace)}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, namespace, name string, data []byte) error {
	if err := validateKey(namespace, name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = &memoryNamespace{entries: make(map[string]memoryEntry)}
		m.namespaces[namespace] = ns
	}
	ns.lastSeq++
	ns.entries[name] = memoryEntry{
		data:      bytes.Clone(data),
		sequence:  ns.lastSeq,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, namespace, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	ns, ok := m.namespaces[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	entry, ok := ns.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := bytes.Clone(entry.data)
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, namespace string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	ns, ok := m.namespaces[namespace]
	if !ok {
		return []Info{}, nil
	}
	infos := make([]Info, 0, len(ns.entries))
	for name, entry := range ns.entries {
		infos = append(infos, Info{
			Namespace: namespace,
			Name:      name,
			Sequence:  entry.sequence,
			Timestamp: entry.timestamp,
			Size:      int64(len(entry.data)),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, namespace, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	if ns, ok := m.namespaces[namespace]; ok {
		delete(ns.entries, name)
	}
	return nil
}

// DeleteNamespace implements Store.
func (m *MemoryStore) DeleteNamespace(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	delete(m.namespaces, namespace)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.namespaces = nil
	return nil
}

// Len returns the number of entries across all namespaces.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, ns := range m.namespaces {
		count += len(ns.entries)
	}
	return count
}
