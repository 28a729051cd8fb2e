package service

import (
	"context"
	"fmt"
	"sync"

	"mygrid/domain"
	"mygrid/interfaces"
)

// localSessionMap implements interfaces.SessionMap in process memory. Used when no Redis address is configured.
type localSessionMap struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewLocalSessionMap creates an empty in-memory session map.
func NewLocalSessionMap() interfaces.SessionMap {
	return &localSessionMap{sessions: make(map[string]domain.Session)}
}

func (m *localSessionMap) Add(_ context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *localSessionMap) Get(_ context.Context, id string) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, NewInvalidSessionIDError(fmt.Sprintf("no such session %s", id), ErrUnknownSession)
	}
	return s, nil
}

func (m *localSessionMap) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
