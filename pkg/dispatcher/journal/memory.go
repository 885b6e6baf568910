package journal

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory journal for tests and single-process use.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry        // append order
	index   map[string]int // cycleID -> position in entries
	closed  bool
}

// NewMemoryStore creates a new in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// Record implements Store.
func (m *MemoryStore) Record(_ context.Context, entry Entry) error {
	if entry.CycleID == "" {
		return ErrMissingCycleID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	entry = entry.normalized()
	if i, ok := m.index[entry.CycleID]; ok {
		m.entries[i] = entry
		return nil
	}
	m.index[entry.CycleID] = len(m.entries)
	m.entries = append(m.entries, entry)
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, cycleID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	i, ok := m.index[cycleID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return m.entries[i], nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, filter Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	result := make([]Entry, 0)
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !filter.match(m.entries[i]) {
			continue
		}
		result = append(result, m.entries[i])
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

// Len returns the number of recorded cycles.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	m.index = nil
	return nil
}
