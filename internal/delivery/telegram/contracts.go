package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
	"github.com/aliskhannn/wikiquiz-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	StopReceivingUpdates()
}

type QuizService interface {
	GenerateQuiz(ctx context.Context, articleURL string) (*entities.Quiz, error)
	History(ctx context.Context) ([]entities.QuizSummary, error)
	GetQuiz(ctx context.Context, id int64) (*entities.Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error
	StartAttempt(ctx context.Context, chatID int64, quiz *entities.Quiz) (*service.Attempt, error)
	CurrentAttempt(ctx context.Context, chatID int64) (*service.Attempt, error)
	Apply(ctx context.Context, chatID int64, attemptID string, in session.Intent) (*service.Attempt, error)
	EndAttempt(ctx context.Context, chatID int64) error
}

// MessageStorage tracks the message each chat's attempt is rendered into.
type MessageStorage interface {
	Store(chatID int64, messageID int) (storage.AttemptMessage, bool)
	Get(chatID int64) (storage.AttemptMessage, bool)
	Delete(chatID int64)
}
