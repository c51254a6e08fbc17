package sessionstore

import (
	"context"
	"maps"
	"sync"
)

// MemoryBackend is a process-local SlotBackend. It does not survive restarts and is
// intended for tests and for the "memory" storage backend.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.slots, k)
	}
	return nil
}

// Snapshot returns a copy of the stored slots.
func (m *MemoryBackend) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.slots)
}
