package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Commands is the command menu registered with Telegram.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "history", Description: "Browse generated quizzes"},
	{Command: "quiz", Description: "Open a quiz by id (usage: /quiz 12)"},
	{Command: "cancel", Description: "Stop the current quiz attempt"},
	{Command: "help", Description: "Help"},
}

type Handler struct {
	bot         BotAPI
	logger      *zap.Logger
	quizService QuizService
	messages    MessageStorage

	wg sync.WaitGroup
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	messages MessageStorage,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		quizService: quizService,
		messages:    messages,
	}
}

// Run consumes updates until ctx is cancelled.
// Quiz generation takes up to a minute, so every update is handled in its own goroutine.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update", zap.Int("update_id", update.UpdateID), zap.Any("panic", r))
		}
	}()

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.handleStart())(ctx, chatID)

		case "help":
			_ = h.withErrorHandling(h.handleHelp())(ctx, chatID)

		case "history":
			_ = h.withErrorHandling(h.handleHistory(0, 0))(ctx, chatID)

		case "quiz":
			_ = h.withErrorHandling(h.handleOpen(update.Message.CommandArguments()))(ctx, chatID)

		case "cancel":
			_ = h.withErrorHandling(h.handleCancel())(ctx, chatID)

		default:
			_ = h.send(newMessage(chatID, msgUnknownCommand()))
		}

		return
	}

	_ = h.withErrorHandling(h.handleText(update.Message.Text))(ctx, chatID)
}
