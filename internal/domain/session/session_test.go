package session

import (
	"errors"
	"testing"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

func sampleDocument() entities.Document {
	return entities.Document{
		Title: "Capitals and chemistry",
		Questions: []entities.Question{
			{Text: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice", "Lille"}, Answer: "Paris", Difficulty: entities.DifficultyEasy},
			{Text: "End of WWII?", Options: []string{"1939", "1945", "1918", "1950"}, Answer: "1945", Difficulty: entities.DifficultyMedium, Explanation: "Germany surrendered in May 1945."},
			{Text: "Formula of water?", Options: []string{"CO2", "H2O", "NaCl", "O2"}, Answer: "H2O", Difficulty: entities.DifficultyHard},
		},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(sampleDocument())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func answerAll(t *testing.T, s *Session, answers ...string) {
	t.Helper()
	for i, a := range answers {
		if err := s.SelectOption(i, a); err != nil {
			t.Fatalf("select %q for %d: %v", a, i, err)
		}
	}
}

// TestNewRejectsEmptyDocument ensures a document without questions cannot start a session.
func TestNewRejectsEmptyDocument(t *testing.T) {
	_, err := New(entities.Document{Title: "empty"})
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

// TestNewIsFresh verifies the initial state of a session.
func TestNewIsFresh(t *testing.T) {
	s := newSession(t)
	if s.CurrentIndex() != 0 {
		t.Fatalf("expected index 0, got %d", s.CurrentIndex())
	}
	if s.Submitted() {
		t.Fatalf("expected not submitted")
	}
	if _, ok := s.Score(); ok {
		t.Fatalf("expected no score before submit")
	}
	if got := s.View().Progress.Answered; got != 0 {
		t.Fatalf("expected no answers, got %d", got)
	}
}

// TestSelectOptionLastWriteWins ensures reselecting overwrites the previous answer.
func TestSelectOptionLastWriteWins(t *testing.T) {
	s := newSession(t)
	if err := s.SelectOption(0, "Lyon"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.SelectOption(0, "Paris"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got, _ := s.Selection(0); got != "Paris" {
		t.Fatalf("expected Paris, got %q", got)
	}
}

// TestSelectOptionRejectsBadInput covers out-of-range indices and foreign options.
func TestSelectOptionRejectsBadInput(t *testing.T) {
	s := newSession(t)
	if err := s.SelectOption(3, "Paris"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.SelectOption(-1, "Paris"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.SelectOption(0, "Berlin"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, ok := s.Selection(0); ok {
		t.Fatalf("rejected select must not record a selection")
	}
}

// TestNavigationStaysInBounds checks that next and previous clamp at the edges.
func TestNavigationStaysInBounds(t *testing.T) {
	s := newSession(t)
	s.Previous()
	if s.CurrentIndex() != 0 {
		t.Fatalf("previous at start moved to %d", s.CurrentIndex())
	}
	for range 5 {
		s.Next()
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected last index 2, got %d", s.CurrentIndex())
	}
	s.Previous()
	if s.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", s.CurrentIndex())
	}
}

// TestGoTo covers jumps inside and outside the document.
func TestGoTo(t *testing.T) {
	s := newSession(t)
	if err := s.GoTo(2); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected index 2, got %d", s.CurrentIndex())
	}
	if err := s.GoTo(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("failed goto moved to %d", s.CurrentIndex())
	}
}

// TestSubmitRequiresAllAnswers ensures a partial attempt cannot be scored.
func TestSubmitRequiresAllAnswers(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1945")
	if err := s.Submit(); !errors.Is(err, ErrIncompleteSubmission) {
		t.Fatalf("expected ErrIncompleteSubmission, got %v", err)
	}
	if s.Submitted() {
		t.Fatalf("refused submit must leave the session open")
	}
}

// TestSubmitScoresAndResetsIndex verifies scoring and the review position.
func TestSubmitScoresAndResetsIndex(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1945", "CO2")
	s.Next()
	s.Next()
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	score, ok := s.Score()
	if !ok || score != 2 {
		t.Fatalf("expected score 2, got %d (ok=%v)", score, ok)
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("expected review to start at 0, got %d", s.CurrentIndex())
	}
}

// TestSubmitIsIdempotent ensures a second submit changes nothing.
func TestSubmitIsIdempotent(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1945", "H2O")
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.GoTo(2); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if score, _ := s.Score(); score != 3 {
		t.Fatalf("expected score 3, got %d", score)
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("second submit must not move the index, got %d", s.CurrentIndex())
	}
}

// TestSelectAfterSubmitIsIgnored ensures selections freeze once submitted.
func TestSelectAfterSubmitIsIgnored(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1945", "H2O")
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.SelectOption(0, "Lyon"); err != nil {
		t.Fatalf("select after submit: %v", err)
	}
	if got, _ := s.Selection(0); got != "Paris" {
		t.Fatalf("selection changed to %q", got)
	}
}

// TestRetryMatchesFreshSession compares a retried session with a new one.
func TestRetryMatchesFreshSession(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1939", "H2O")
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Retry()

	fresh := newSession(t)
	got, want := s.Snapshot(), fresh.Snapshot()
	if got.CurrentIndex != want.CurrentIndex || got.Submitted != want.Submitted || len(got.Selections) != 0 || got.Score != nil {
		t.Fatalf("retry state %+v differs from fresh %+v", got, want)
	}
}

// TestRestoreRoundTrip rebuilds a session from its snapshot.
func TestRestoreRoundTrip(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris", "1945", "CO2")
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := s.Snapshot()
	bogus := 99
	snap.Score = &bogus

	restored, err := Restore(sampleDocument(), snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if score, ok := restored.Score(); !ok || score != 2 {
		t.Fatalf("expected recomputed score 2, got %d (ok=%v)", score, ok)
	}
}

// TestRestoreRejectsImpossibleState covers persisted state the engine could never produce.
func TestRestoreRejectsImpossibleState(t *testing.T) {
	doc := sampleDocument()
	if _, err := Restore(doc, entities.SessionState{CurrentIndex: 3}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for index, got %v", err)
	}
	if _, err := Restore(doc, entities.SessionState{Selections: map[int]string{7: "x"}}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for selection, got %v", err)
	}
	if _, err := Restore(doc, entities.SessionState{Submitted: true, Selections: map[int]string{0: "Paris"}}); !errors.Is(err, ErrIncompleteSubmission) {
		t.Fatalf("expected ErrIncompleteSubmission, got %v", err)
	}
}

// TestSnapshotIsDetached ensures mutating a snapshot does not leak into the session.
func TestSnapshotIsDetached(t *testing.T) {
	s := newSession(t)
	answerAll(t, s, "Paris")
	snap := s.Snapshot()
	snap.Selections[0] = "Lyon"
	if got, _ := s.Selection(0); got != "Paris" {
		t.Fatalf("snapshot mutation leaked: %q", got)
	}
}
