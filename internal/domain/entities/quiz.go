// Package entities contains domain entities used across the application.
package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrNoQuestions        = errors.New("quiz has no questions")
	ErrAnswerNotInOptions = errors.New("correct answer is not one of the options")
	ErrUnknownDifficulty  = errors.New("unknown difficulty")
)

// KeyEntities holds the named entities the backend extracted from the article.
type KeyEntities struct {
	People        []string `json:"people" yaml:"people"`
	Organizations []string `json:"organizations" yaml:"organizations"`
	Locations     []string `json:"locations" yaml:"locations"`
}

// IsEmpty reports whether no entities were extracted.
func (k *KeyEntities) IsEmpty() bool {
	return k == nil || len(k.People)+len(k.Organizations)+len(k.Locations) == 0
}

// Quiz is a generated quiz as returned by the quiz backend.
// Field names follow the backend wire format.
type Quiz struct {
	ID            int64        `json:"id" yaml:"id"`
	URL           string       `json:"url" yaml:"url"`
	Title         string       `json:"title" yaml:"title"`
	Summary       string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	KeyEntities   *KeyEntities `json:"key_entities,omitempty" yaml:"key_entities,omitempty"`
	Sections      []string     `json:"sections,omitempty" yaml:"sections,omitempty"`
	Questions     []Question   `json:"quiz" yaml:"quiz"`
	RelatedTopics []string     `json:"related_topics,omitempty" yaml:"related_topics,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Document returns the part of the quiz a quiz session is played over.
func (q *Quiz) Document() Document {
	return Document{
		Title:     q.Title,
		Questions: q.Questions,
	}
}

// DifficultyMix counts questions per difficulty.
func (q *Quiz) DifficultyMix() map[Difficulty]int {
	mix := make(map[Difficulty]int, 3)
	for _, question := range q.Questions {
		mix[question.Difficulty]++
	}
	return mix
}

// QuizSummary is a single row of the quiz history.
type QuizSummary struct {
	ID            int64      `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	QuestionCount int        `json:"question_count"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Document is the immutable input of a quiz session: a title and an ordered list of questions.
type Document struct {
	Title     string
	Questions []Question
}

// Validate checks the invariants a document received from outside must hold.
// It reports the first violation found.
func (d Document) Validate() error {
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}

	for i, q := range d.Questions {
		if !slices.Contains(q.Options, q.Answer) {
			return fmt.Errorf("question %d: %w", i+1, ErrAnswerNotInOptions)
		}
		if q.Difficulty != "" && !q.Difficulty.IsValid() {
			return fmt.Errorf("question %d: %w: %q", i+1, ErrUnknownDifficulty, q.Difficulty)
		}
	}

	return nil
}
