package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in-process with a sliding TTL.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[int64]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: make(map[int64]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (Session, error) {
	m.mu.RLock()
	entry, ok := m.items[userID]
	m.mu.RUnlock()
	if !ok {
		return Session{UserID: userID}, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.items, userID)
		m.mu.Unlock()
		return Session{UserID: userID}, nil
	}
	return entry.value, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	s.UpdatedAt = m.now()
	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = s.UpdatedAt.Add(m.ttl)
	}
	m.mu.Lock()
	m.items[s.UserID] = memoryEntry{value: s, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.items, userID)
	m.mu.Unlock()
	return nil
}
