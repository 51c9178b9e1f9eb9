package storage

import (
	"context"
	"sync"
	"time"
)

// MemorySlot is an in-process slot, mainly a test double for the cookie jar.
type MemorySlot struct {
	mu        sync.Mutex
	data      []byte
	expiresAt time.Time
	now       func() time.Time
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{now: time.Now}
}

func (m *MemorySlot) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil || m.now().After(m.expiresAt) {
		return nil, ErrNoRecord
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySlot) Write(_ context.Context, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.expiresAt = m.now().Add(ttl)
	return nil
}

func (m *MemorySlot) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.expiresAt = time.Time{}
	return nil
}
