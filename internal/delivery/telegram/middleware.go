package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// CallbackFunc handles a button press and returns the toast to show, if any.
type CallbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

// withCallbackAnswer always answers the callback so the button stops spinning.
func (h *Handler) withCallbackAnswer(fn CallbackFunc) CallbackFunc {
	return func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
		toast, err := fn(ctx, cb, data)
		if err != nil {
			h.logger.Error("callback error",
				zap.Int64("user_id", cb.From.ID),
				zap.String("data", cb.Data),
				zap.Error(err),
			)
			toast = msgInternalError
		}
		h.answerCallback(cb.ID, toast)
		return toast, nil
	}
}
