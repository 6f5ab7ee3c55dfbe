package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

// SessionStorage provides in-memory storage for quiz attempts by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.ChatSession
	now      func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.ChatSession),
		now:      time.Now,
	}
}

// Create stores a new attempt for the chat, replacing any previous one.
func (s *SessionStorage) Create(_ context.Context, cs *entities.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs.Version = 1
	cs.UpdatedAt = s.now()
	s.sessions[cs.ChatID] = cs.Clone()
	return nil
}

// Get retrieves the attempt of a chat.
func (s *SessionStorage) Get(_ context.Context, chatID int64) (*entities.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.sessions[chatID]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return cs.Clone(), nil
}

// Update saves the attempt if nobody changed it since it was read.
func (s *SessionStorage) Update(_ context.Context, cs *entities.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[cs.ChatID]
	if !ok {
		return entities.ErrSessionNotFound
	}
	if stored.Version != cs.Version {
		return entities.ErrOptimisticLock
	}

	cs.Version++
	cs.UpdatedAt = s.now()
	s.sessions[cs.ChatID] = cs.Clone()
	return nil
}

// Delete removes the attempt of a chat. Deleting a missing attempt is not an error.
func (s *SessionStorage) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// DeleteIdle removes attempts last updated before the given time.
func (s *SessionStorage) DeleteIdle(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, cs := range s.sessions {
		if cs.UpdatedAt.Before(before) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed, nil
}
