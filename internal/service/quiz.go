package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
)

var (
	ErrNoActiveAttempt = errors.New("no quiz attempt in progress")
	ErrStaleAttempt    = errors.New("quiz attempt has expired")
)

// Attempt is a stored attempt together with its live engine session.
type Attempt struct {
	Record  *entities.ChatSession
	Session *session.Session
}

// QuizService ties the quiz backend to per-chat quiz attempts.
type QuizService struct {
	api      QuizAPI
	sessions SessionRepository
	logger   *zap.Logger
	newID    func() string
}

func NewQuizService(api QuizAPI, sessions SessionRepository, logger *zap.Logger) *QuizService {
	return &QuizService{
		api:      api,
		sessions: sessions,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// GenerateQuiz asks the backend for a quiz built from articleURL.
func (s *QuizService) GenerateQuiz(ctx context.Context, articleURL string) (*entities.Quiz, error) {
	quiz, err := s.api.Generate(ctx, articleURL)
	if err != nil {
		s.logger.Warn("quiz generation failed", zap.String("url", articleURL), zap.Error(err))
		return nil, err
	}
	return quiz, nil
}

// History lists previously generated quizzes.
func (s *QuizService) History(ctx context.Context) ([]entities.QuizSummary, error) {
	return s.api.History(ctx)
}

// GetQuiz fetches a stored quiz.
func (s *QuizService) GetQuiz(ctx context.Context, id int64) (*entities.Quiz, error) {
	return s.api.Get(ctx, id)
}

// DeleteQuiz removes a stored quiz.
func (s *QuizService) DeleteQuiz(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, id)
}

// StartAttempt begins a fresh attempt at quiz in the chat, replacing any attempt in progress.
func (s *QuizService) StartAttempt(ctx context.Context, chatID int64, quiz *entities.Quiz) (*Attempt, error) {
	doc := quiz.Document()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate quiz %d: %w", quiz.ID, err)
	}

	sess, err := session.New(doc)
	if err != nil {
		return nil, err
	}

	record := entities.NewChatSession(chatID, s.newID(), *quiz, sess.Snapshot())
	if err := s.sessions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}

	s.logger.Info("quiz attempt started",
		zap.Int64("chat_id", chatID),
		zap.Int64("quiz_id", quiz.ID),
		zap.String("attempt_id", record.AttemptID),
	)

	return &Attempt{Record: record, Session: sess}, nil
}

// CurrentAttempt loads the attempt in progress in the chat.
func (s *QuizService) CurrentAttempt(ctx context.Context, chatID int64) (*Attempt, error) {
	record, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, ErrNoActiveAttempt
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	sess, err := session.Restore(record.Quiz.Document(), record.State)
	if err != nil {
		return nil, fmt.Errorf("restore attempt %s: %w", record.AttemptID, err)
	}

	return &Attempt{Record: record, Session: sess}, nil
}

// Apply routes a user action into the chat's attempt and saves the result.
// Actions aimed at an attempt other than the current one fail with ErrStaleAttempt.
// When the engine rejects the action, the unchanged attempt is returned with the engine error.
func (s *QuizService) Apply(ctx context.Context, chatID int64, attemptID string, in session.Intent) (*Attempt, error) {
	attempt, err := s.CurrentAttempt(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrNoActiveAttempt) {
			return nil, ErrStaleAttempt
		}
		return nil, err
	}
	if attempt.Record.AttemptID != attemptID {
		return nil, ErrStaleAttempt
	}

	if err := attempt.Session.Apply(in); err != nil {
		return attempt, err
	}

	attempt.Record.State = attempt.Session.Snapshot()
	if in.Kind == session.IntentRetry {
		attempt.Record.AttemptID = s.newID()
	}

	if err := s.sessions.Update(ctx, attempt.Record); err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, ErrStaleAttempt
		}
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	if in.Kind == session.IntentSubmit {
		score, _ := attempt.Session.Score()
		s.logger.Info("quiz attempt submitted",
			zap.Int64("chat_id", chatID),
			zap.Int64("quiz_id", attempt.Record.Quiz.ID),
			zap.Int("score", score),
			zap.Int("total", attempt.Session.Len()),
		)
	}

	return attempt, nil
}

// EndAttempt discards the chat's attempt.
func (s *QuizService) EndAttempt(ctx context.Context, chatID int64) error {
	if err := s.sessions.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("end attempt: %w", err)
	}
	return nil
}
