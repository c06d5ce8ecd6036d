package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored token.
func (m *MemoryStore) Token(ctx context.Context) (string, error) {
	s, err := m.Load(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// Load returns a copy of the stored session.
func (m *MemoryStore) Load(context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	cp.Roles = append([]string(nil), m.session.Roles...)
	return &cp, nil
}

// Save replaces the stored session.
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	if s.Token == "" {
		return ErrSessionCorrupt
	}
	s.Roles = append([]string(nil), s.Roles...)

	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

// SetToken stores a session that carries only a token. An empty token
// clears the store.
func (m *MemoryStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" {
		m.session = nil
		return
	}
	m.session = &Session{Token: token}
}

// Delete drops the stored session. Deleting an empty store is not an error.
func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}
