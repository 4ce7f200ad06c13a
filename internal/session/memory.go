package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ericogr/arcane-clash/internal/game"
)

type memoryStore struct {
	mu    sync.RWMutex
	games map[string]*game.State
}

// NewMemoryStore returns a process-local store. Snapshots never expire.
func NewMemoryStore() Store {
	return &memoryStore{games: make(map[string]*game.State)}
}

var _ Store = (*memoryStore)(nil)

func (m *memoryStore) Get(_ context.Context, gameID string) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, s *game.State) error {
	if s == nil || s.ID == "" {
		return errors.New("game state with an id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.ID] = s.Clone()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	return nil
}
