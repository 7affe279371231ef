package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

type sessionRecord struct {
	turns     []chat.Turn
	expiresAt time.Time
}

// MemoryStore keeps conversation history in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionRecord
	now      func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionRecord),
		now:      time.Now,
	}
}

// Load implements chat.SessionStore.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]chat.Turn, bool, error) {
	s.mu.RLock()
	record, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]chat.Turn(nil), record.turns...), true, nil
}

// Save replaces the stored turns and refreshes the TTL.
func (s *MemoryStore) Save(_ context.Context, sessionID string, turns []chat.Turn, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.sessions[sessionID] = sessionRecord{turns: append([]chat.Turn(nil), turns...), expiresAt: exp}
	s.evictExpiredLocked()
	return nil
}

// Delete implements chat.SessionStore.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) evictExpiredLocked() {
	for id, record := range s.sessions {
		if s.hasExpired(record.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) hasExpired(exp time.Time) bool {
	return !exp.IsZero() && s.now().After(exp)
}

var _ chat.SessionStore = (*MemoryStore)(nil)
