package memory

import (
	"context"
	"sync"

	"github.com/brightcart/support-chat/backend/internal/model/chat"
)

// TurnStore keeps turns in process memory, suitable for dev mode and tests.
// Slice order is insertion order, which doubles as the CreatedAt tiebreaker.
type TurnStore struct {
	mu    sync.RWMutex
	turns map[string][]chat.Turn
}

// NewTurnStore bootstraps an empty in-memory store.
func NewTurnStore() *TurnStore {
	return &TurnStore{turns: make(map[string][]chat.Turn)}
}

// Append adds a turn to the session log.
func (s *TurnStore) Append(_ context.Context, turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// RecentDesc returns up to limit turns for the session, newest first.
func (s *TurnStore) RecentDesc(_ context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	if limit > len(stored) {
		limit = len(stored)
	}

	recent := make([]chat.Turn, 0, limit)
	for i := len(stored) - 1; i >= len(stored)-limit; i-- {
		recent = append(recent, stored[i])
	}
	return recent, nil
}

// BySession returns every turn for the session, oldest first.
func (s *TurnStore) BySession(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	copied := make([]chat.Turn, len(stored))
	copy(copied, stored)
	return copied, nil
}
