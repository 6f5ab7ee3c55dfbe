// Package session implements the quiz-taking state machine: answer tracking,
// navigation, submission, scoring and retry over one immutable quiz document.
package session

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

var (
	ErrInvalidDocument      = errors.New("quiz document has no questions")
	ErrOutOfRange           = errors.New("question index out of range")
	ErrIncompleteSubmission = errors.New("not all questions are answered")
	ErrUnknownOption        = errors.New("option does not belong to the question")
)

// Session is one attempt at a quiz document.
// It is not safe for concurrent use; each attempt owns its Session.
type Session struct {
	doc        entities.Document
	current    int
	selections map[int]string
	submitted  bool
	score      int
}

// New starts a fresh attempt over doc.
func New(doc entities.Document) (*Session, error) {
	if len(doc.Questions) == 0 {
		return nil, ErrInvalidDocument
	}

	return &Session{
		doc:        doc,
		selections: make(map[int]string),
	}, nil
}

// Restore rebuilds a session from persisted state.
// State that could not have been produced by the session itself is rejected.
func Restore(doc entities.Document, st entities.SessionState) (*Session, error) {
	s, err := New(doc)
	if err != nil {
		return nil, err
	}

	n := len(doc.Questions)
	if st.CurrentIndex < 0 || st.CurrentIndex >= n {
		return nil, fmt.Errorf("restore current index %d: %w", st.CurrentIndex, ErrOutOfRange)
	}
	for i := range st.Selections {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("restore selection %d: %w", i, ErrOutOfRange)
		}
	}
	if st.Submitted && len(st.Selections) != n {
		return nil, fmt.Errorf("restore submitted session: %w", ErrIncompleteSubmission)
	}

	s.current = st.CurrentIndex
	s.selections = maps.Clone(st.Selections)
	if s.selections == nil {
		s.selections = make(map[int]string)
	}
	s.submitted = st.Submitted
	if s.submitted {
		// The score is derived from selections, a stored value is never trusted.
		s.score = s.countCorrect()
	}

	return s, nil
}

// Document returns the quiz document the session plays over.
func (s *Session) Document() entities.Document {
	return s.doc
}

// Len returns the number of questions.
func (s *Session) Len() int {
	return len(s.doc.Questions)
}

// CurrentIndex returns the zero-based index of the displayed question.
func (s *Session) CurrentIndex() int {
	return s.current
}

// Selection returns the option chosen for question i, if any.
func (s *Session) Selection(i int) (string, bool) {
	option, ok := s.selections[i]
	return option, ok
}

// Submitted reports whether the attempt has been submitted.
func (s *Session) Submitted() bool {
	return s.submitted
}

// Score returns the score; ok is false until the attempt is submitted.
func (s *Session) Score() (score int, ok bool) {
	if !s.submitted {
		return 0, false
	}
	return s.score, true
}

// SelectOption records option as the answer to question questionIndex,
// overwriting a previous choice. After submission it does nothing.
func (s *Session) SelectOption(questionIndex int, option string) error {
	if s.submitted {
		return nil
	}
	if err := s.checkIndex(questionIndex); err != nil {
		return err
	}
	if !slices.Contains(s.doc.Questions[questionIndex].Options, option) {
		return fmt.Errorf("select %q for question %d: %w", option, questionIndex+1, ErrUnknownOption)
	}

	s.selections[questionIndex] = option
	return nil
}

// Next moves to the following question. It does nothing on the last question.
func (s *Session) Next() {
	if s.current < len(s.doc.Questions)-1 {
		s.current++
	}
}

// Previous moves to the preceding question. It does nothing on the first question.
func (s *Session) Previous() {
	if s.current > 0 {
		s.current--
	}
}

// GoTo jumps to question index, before or after submission.
func (s *Session) GoTo(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.current = index
	return nil
}

// Submit scores the attempt and freezes the selections.
// Review starts again from the first question. Submitting twice does nothing.
func (s *Session) Submit() error {
	if s.submitted {
		return nil
	}
	if len(s.selections) < len(s.doc.Questions) {
		return ErrIncompleteSubmission
	}

	s.score = s.countCorrect()
	s.submitted = true
	s.current = 0
	return nil
}

// Retry discards the attempt and starts over on the same document.
func (s *Session) Retry() {
	s.current = 0
	s.selections = make(map[int]string)
	s.submitted = false
	s.score = 0
}

// Snapshot returns the session state in its persisted form.
func (s *Session) Snapshot() entities.SessionState {
	st := entities.SessionState{
		CurrentIndex: s.current,
		Selections:   maps.Clone(s.selections),
		Submitted:    s.submitted,
	}
	if s.submitted {
		score := s.score
		st.Score = &score
	}
	return st
}

func (s *Session) countCorrect() int {
	correct := 0
	for i, q := range s.doc.Questions {
		if option, ok := s.selections[i]; ok && q.IsCorrect(option) {
			correct++
		}
	}
	return correct
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.doc.Questions) {
		return fmt.Errorf("question %d of %d: %w", i+1, len(s.doc.Questions), ErrOutOfRange)
	}
	return nil
}
