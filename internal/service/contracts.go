package service

import (
	"context"
	"time"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

// QuizAPI is the quiz generation backend.
type QuizAPI interface {
	Generate(ctx context.Context, articleURL string) (*entities.Quiz, error)
	History(ctx context.Context) ([]entities.QuizSummary, error)
	Get(ctx context.Context, id int64) (*entities.Quiz, error)
	Delete(ctx context.Context, id int64) error
}

// SessionRepository persists one quiz attempt per chat.
type SessionRepository interface {
	Create(ctx context.Context, cs *entities.ChatSession) error
	Get(ctx context.Context, chatID int64) (*entities.ChatSession, error)
	Update(ctx context.Context, cs *entities.ChatSession) error
	Delete(ctx context.Context, chatID int64) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}
