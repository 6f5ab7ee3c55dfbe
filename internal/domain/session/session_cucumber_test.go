//go:build cucumber

package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

// TestQuizSessionFeatures runs the quiz session scenarios via godog.
func TestQuizSessionFeatures(t *testing.T) {
	featurePath := filepath.Join("..", "..", "..", "spec", "features", "quiz-session", "testing.feature")
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScenario wires step definitions for the quiz session feature.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &sessionScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = sessionScenarioState{}
		return ctx, nil
	})

	ctx.Step(`^a quiz with correct answers "([^"]+)"$`, state.givenQuiz)
	ctx.Step(`^I answer "([^"]+)"$`, state.answer)
	ctx.Step(`^I submit$`, state.submit)
	ctx.Step(`^I retry$`, state.retry)
	ctx.Step(`^I go to the previous question$`, state.previous)
	ctx.Step(`^I jump to question (\d+)$`, state.jump)
	ctx.Step(`^the score is (\d+)$`, state.scoreIs)
	ctx.Step(`^the percentage is (\d+)$`, state.percentageIs)
	ctx.Step(`^the band is "([^"]+)"$`, state.bandIs)
	ctx.Step(`^the submission is refused as incomplete$`, state.refusedIncomplete)
	ctx.Step(`^the session is not submitted$`, state.notSubmitted)
	ctx.Step(`^the current question is (\d+)$`, state.currentIs)
	ctx.Step(`^no question is answered$`, state.noneAnswered)
	ctx.Step(`^the jump is rejected as out of range$`, state.rejectedOutOfRange)
}

// sessionScenarioState holds the session under test and the last operation error.
type sessionScenarioState struct {
	session *Session
	lastErr error
}

// givenQuiz builds a document whose questions have the listed correct answers
// plus one distractor each.
func (s *sessionScenarioState) givenQuiz(answers string) error {
	doc := entities.Document{Title: "Scenario quiz"}
	for i, answer := range strings.Split(answers, ",") {
		doc.Questions = append(doc.Questions, entities.Question{
			Text:    fmt.Sprintf("Question %d", i+1),
			Options: distractorsFor(answer),
			Answer:  answer,
		})
	}
	session, err := New(doc)
	if err != nil {
		return err
	}
	s.session = session
	return nil
}

func distractorsFor(answer string) []string {
	switch answer {
	case "Paris":
		return []string{"Paris", "Lyon"}
	case "1945":
		return []string{"1939", "1945"}
	case "H2O":
		return []string{"CO2", "H2O"}
	default:
		return []string{answer, "none of these"}
	}
}

func (s *sessionScenarioState) answer(answers string) error {
	for i, a := range strings.Split(answers, ",") {
		if err := s.session.Apply(Select(i, a)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionScenarioState) submit() error {
	s.lastErr = s.session.Apply(Submit())
	return nil
}

func (s *sessionScenarioState) retry() error {
	return s.session.Apply(Retry())
}

func (s *sessionScenarioState) previous() error {
	return s.session.Apply(Previous())
}

func (s *sessionScenarioState) jump(question int) error {
	s.lastErr = s.session.Apply(GoTo(question - 1))
	return nil
}

func (s *sessionScenarioState) summary() (*ScoreSummary, error) {
	if s.lastErr != nil {
		return nil, fmt.Errorf("submit failed: %w", s.lastErr)
	}
	summary := s.session.View().Summary
	if summary == nil {
		return nil, errors.New("session has no score")
	}
	return summary, nil
}

func (s *sessionScenarioState) scoreIs(want int) error {
	summary, err := s.summary()
	if err != nil {
		return err
	}
	if summary.Score != want {
		return fmt.Errorf("expected score %d, got %d", want, summary.Score)
	}
	return nil
}

func (s *sessionScenarioState) percentageIs(want int) error {
	summary, err := s.summary()
	if err != nil {
		return err
	}
	if summary.Percentage != want {
		return fmt.Errorf("expected percentage %d, got %d", want, summary.Percentage)
	}
	return nil
}

func (s *sessionScenarioState) bandIs(want string) error {
	summary, err := s.summary()
	if err != nil {
		return err
	}
	if string(summary.Band) != want {
		return fmt.Errorf("expected band %s, got %s", want, summary.Band)
	}
	return nil
}

func (s *sessionScenarioState) refusedIncomplete() error {
	if !errors.Is(s.lastErr, ErrIncompleteSubmission) {
		return fmt.Errorf("expected ErrIncompleteSubmission, got %v", s.lastErr)
	}
	return nil
}

func (s *sessionScenarioState) notSubmitted() error {
	if s.session.Submitted() {
		return errors.New("session is submitted")
	}
	return nil
}

func (s *sessionScenarioState) currentIs(want int) error {
	if got := s.session.CurrentIndex() + 1; got != want {
		return fmt.Errorf("expected question %d, got %d", want, got)
	}
	return nil
}

func (s *sessionScenarioState) noneAnswered() error {
	if got := s.session.View().Progress.Answered; got != 0 {
		return fmt.Errorf("expected no answers, got %d", got)
	}
	return nil
}

func (s *sessionScenarioState) rejectedOutOfRange() error {
	if !errors.Is(s.lastErr, ErrOutOfRange) {
		return fmt.Errorf("expected ErrOutOfRange, got %v", s.lastErr)
	}
	return nil
}
