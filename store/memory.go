package store

import (
	"sync"

	"github.com/yourusername/eprbridge/core"
)

// MemoryStore provides thread-safe in-memory storage for pool snapshots
type MemoryStore struct {
	snapshots sync.Map // map[string]*core.PoolSnapshot
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get retrieves a copy of the snapshot for a given key
func (s *MemoryStore) Get(key string) *core.PoolSnapshot {
	val, ok := s.snapshots.Load(key)
	if !ok {
		return nil
	}
	snapshot := *val.(*core.PoolSnapshot)
	return &snapshot
}

// Set stores a copy of the snapshot for a given key
func (s *MemoryStore) Set(key string, snapshot *core.PoolSnapshot) {
	if snapshot == nil {
		return
	}
	stored := *snapshot
	s.snapshots.Store(key, &stored)
}

// Delete removes the snapshot for a given key
func (s *MemoryStore) Delete(key string) {
	s.snapshots.Delete(key)
}

// Clear removes all snapshots
func (s *MemoryStore) Clear() {
	s.snapshots.Range(func(key, value interface{}) bool {
		s.snapshots.Delete(key)
		return true
	})
}
