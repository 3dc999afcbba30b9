package memory

import (
	"context"
	"sync"
	"time"
)

type session struct {
	tokenID   string
	expiresAt time.Time
}

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[int64]session
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock is test-only for deterministic expiry.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		clock:    now,
		sessions: make(map[int64]session),
	}
}

func (s *SessionStore) Put(_ context.Context, userID int64, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := session{tokenID: tokenID}
	if ttl > 0 {
		entry.expiresAt = s.clock().Add(ttl)
	}
	s.sessions[userID] = entry
	return nil
}

func (s *SessionStore) Current(_ context.Context, userID int64) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(s.clock()) {
		s.mu.Lock()
		// only drop it if it was not replaced meanwhile
		if cur, ok := s.sessions[userID]; ok && cur == entry {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.tokenID, true, nil
}
