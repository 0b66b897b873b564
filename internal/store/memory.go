package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
)

// entry pairs a conversation state with its last-touched time for pruning.
type entry struct {
	state     *dialog.State
	updatedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory conversation store. States are
// handed out and accepted as deep copies so a read-modify-write cycle never
// races with another reader.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*entry),
	}
}

// Get returns a copy of the conversation state, or a fresh empty state for
// an unknown id.
func (s *MemoryStore) Get(_ context.Context, conversationID string) (*dialog.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[conversationID]
	if !ok {
		return dialog.NewState(), nil
	}
	return e.state.Clone(), nil
}

// Put writes the conversation state back.
func (s *MemoryStore) Put(_ context.Context, conversationID string, st *dialog.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[conversationID] = &entry{
		state:     st.Clone(),
		updatedAt: time.Now(),
	}
	return nil
}

// Prune drops conversations idle longer than maxAge and reports how many
// were removed. A maxAge of zero disables pruning.
func (s *MemoryStore) Prune(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.data {
		if e.updatedAt.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}
