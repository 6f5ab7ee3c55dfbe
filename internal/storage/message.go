package storage

import (
	"sync"
	"time"
)

// AttemptMessage is the chat message a quiz attempt is rendered into.
type AttemptMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the attempt message of each chat so that a
// superseded attempt can have its buttons removed.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]AttemptMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]AttemptMessage),
	}
}

// Store records messageID as the attempt message of the chat and returns
// the message it replaces, if any.
func (s *MessageStorage) Store(chatID int64, messageID int) (AttemptMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.messages[chatID]
	s.messages[chatID] = AttemptMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
	if ok && prev.MessageID == messageID {
		return AttemptMessage{}, false
	}
	return prev, ok
}

func (s *MessageStorage) Get(chatID int64) (AttemptMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}
