package redis

import (
	"testing"
	"time"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

// TestKeyLayout pins the key naming shared with other deployments.
func TestKeyLayout(t *testing.T) {
	s := NewSessionStore(nil, Config{KeyPrefix: "quizbot"})
	if got := s.key(12345); got != "quizbot:session:12345" {
		t.Fatalf("unexpected key %q", got)
	}

	s = NewSessionStore(nil, Config{})
	if got := s.key(-100); got != "wikiquiz:session:-100" {
		t.Fatalf("unexpected default key %q", got)
	}
}

// TestRecordRoundTrip encodes and decodes an attempt.
func TestRecordRoundTrip(t *testing.T) {
	updated := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	cs := &entities.ChatSession{
		ChatID:    7,
		AttemptID: "att",
		Quiz:      entities.Quiz{ID: 2, Title: "T", Questions: []entities.Question{{Text: "q", Options: []string{"a"}, Answer: "a"}}},
		State:     entities.SessionState{CurrentIndex: 0, Selections: map[int]string{0: "a"}},
		Version:   4,
		UpdatedAt: updated,
	}

	raw, err := encodeRecord(cs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeRecord(7, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ChatID != 7 || got.AttemptID != "att" || got.Version != 4 || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.State.Selections[0] != "a" || got.Quiz.Questions[0].Answer != "a" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

// TestDecodeRejectsGarbage reports corrupt values.
func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodeRecord(1, []byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
