package blobstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates a new in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Put writes a blob atomically.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	m.blobs[name] = copied
	return nil
}

// Get reads a whole blob.
func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Delete removes a blob.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, name)
	return nil
}

// List returns all blobs matching the prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

// MemoryCommitStore is an in-memory CommitStore implementation for testing.
type MemoryCommitStore struct {
	mu   sync.Mutex
	seq  uint64
	name string
}

// NewMemoryCommitStore creates a new in-memory commit store.
func NewMemoryCommitStore() *MemoryCommitStore {
	return &MemoryCommitStore{}
}

// SetLatest records the latest checkpoint; seq must be monotone.
func (m *MemoryCommitStore) SetLatest(_ context.Context, seq uint64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq <= m.seq {
		return ErrStaleCommit
	}
	m.seq = seq
	m.name = name
	return nil
}

// Latest returns the most recently committed sequence and name.
func (m *MemoryCommitStore) Latest(_ context.Context) (uint64, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq == 0 {
		return 0, "", ErrNotFound
	}
	return m.seq, m.name, nil
}
