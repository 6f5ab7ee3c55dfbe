package entities

import (
	"errors"
	"maps"
	"time"
)

// Errors shared by every quiz session store.
var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrOptimisticLock  = errors.New("quiz session was modified by another process")
)

// SessionState is the persisted form of a quiz session's mutable state.
type SessionState struct {
	CurrentIndex int            `json:"current_index"`
	Selections   map[int]string `json:"selections"` // question index -> chosen option text
	Submitted    bool           `json:"submitted"`
	Score        *int           `json:"score,omitempty"` // set only when submitted
}

// Clone returns a deep copy of the state.
func (s SessionState) Clone() SessionState {
	out := s
	out.Selections = maps.Clone(s.Selections)
	if out.Selections == nil {
		out.Selections = make(map[int]string)
	}
	if s.Score != nil {
		score := *s.Score
		out.Score = &score
	}
	return out
}

// ChatSession is a quiz attempt bound to a chat.
// A chat has at most one attempt at a time.
type ChatSession struct {
	ChatID    int64        // chat the attempt belongs to
	AttemptID string       // changes on every new attempt, including retries
	Quiz      Quiz         // quiz being played
	State     SessionState // engine state
	Version   int64        // optimistic locking counter
	UpdatedAt time.Time    // last modification, used to sweep idle attempts
}

// NewChatSession creates an attempt record for a chat.
func NewChatSession(chatID int64, attemptID string, quiz Quiz, state SessionState) *ChatSession {
	return &ChatSession{
		ChatID:    chatID,
		AttemptID: attemptID,
		Quiz:      quiz,
		State:     state,
		Version:   1,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy safe to hand out of a store.
func (cs *ChatSession) Clone() *ChatSession {
	out := *cs
	out.State = cs.State.Clone()
	return &out
}
