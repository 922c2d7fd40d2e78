package counter

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and single-instance deployments.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   int64
	expires time.Time // zero means no expiry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ Store = (*Memory)(nil)

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.entries[key]
	if !ok {
		return 0, nil
	}
	if !ent.expires.IsZero() && m.now().After(ent.expires) {
		delete(m.entries, key)
		return 0, nil
	}
	return ent.value, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key string, value int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent := memoryEntry{value: value}
	if ttl > 0 {
		ent.expires = m.now().Add(ttl)
	}
	m.entries[key] = ent
	return nil
}

// SetClock overrides the time source, letting tests roll windows and
// periods forward.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
