package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the ephemeral cache backend: a mutex-guarded map whose
// entries live for the process lifetime. Growth is unbounded; only
// time-based invalidation is applied, lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	// Clock is overridable for expiry tests.
	Clock func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*Entry)}
}

// Get returns the stored entry if present and not expired. Expired
// entries are dropped on read.
func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.Valid(m.now()) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// replaced the entry with a fresh one.
		if current, ok := m.entries[key]; ok && !current.Valid(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, nil
	}
	return entry, nil
}

// Set stores or overwrites the entry under key. Last write wins.
func (m *Memory) Set(_ context.Context, key string, value map[string]any, ttl time.Duration) error {
	now := m.now()
	entry := &Entry{Key: key, Value: value, StoredAt: now}
	// ttl == 0 means no expiry; a negative ttl is already elapsed and
	// must read back as absent.
	if ttl != 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]*Entry)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now().UTC()
}
