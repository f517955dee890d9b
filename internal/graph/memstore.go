package graph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	snaps map[string]*DependencyGraph
	order []string
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		snaps: make(map[string]*DependencyGraph),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// SaveSnapshot stores a snapshot keyed by revision.
func (m *MemStore) SaveSnapshot(_ context.Context, rev string, g *DependencyGraph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.snaps[rev]; !exists {
		m.order = append(m.order, rev)
	}
	m.snaps[rev] = g
	return nil
}

// LoadSnapshot returns the snapshot for rev, or nil if not found.
func (m *MemStore) LoadSnapshot(_ context.Context, rev string) (*DependencyGraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snaps[rev], nil
}

// ListSnapshots returns stored revisions in save order.
func (m *MemStore) ListSnapshots(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
