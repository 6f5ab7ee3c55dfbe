package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/service"
)

// renderAttempt renders an attempt message with its keyboard.
func renderAttempt(a *service.Attempt) (string, tgbotapi.InlineKeyboardMarkup) {
	v := a.Session.View()
	return formatAttempt(v), buildAttemptKeyboard(a.Record.AttemptID, v)
}

// RenderHistory renders one page of the quiz history.
// The keyboard is nil when there is nothing to show.
func (h *Handler) RenderHistory(ctx context.Context, page int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	rows, err := h.quizService.History(ctx)
	if err != nil {
		return "", nil, err
	}

	pageRows, page, totalPages := historyPage(rows, page)
	if totalPages == 0 {
		return md(msgHistoryEmpty), nil, nil
	}

	return formatHistoryPage(pageRows, page, totalPages), buildHistoryKeyboard(pageRows, page, totalPages), nil
}

// sendAttempt posts a fresh attempt message and strips the buttons of the one it supersedes.
func (h *Handler) sendAttempt(chatID int64, a *service.Attempt) error {
	text, kb := renderAttempt(a)

	msg := newMessage(chatID, text)
	msg.ReplyMarkup = kb

	msgID, err := h.sendMessage(msg)
	if err != nil {
		return err
	}

	if prev, replaced := h.messages.Store(chatID, msgID); replaced {
		h.retireMessage(chatID, prev.MessageID)
	}
	return nil
}

// editAttempt redraws an attempt inside the message the button was pressed in.
func (h *Handler) editAttempt(chatID int64, msgID int, a *service.Attempt) error {
	text, kb := renderAttempt(a)
	if err := h.send(newEdit(chatID, msgID, text, &kb)); err != nil {
		return fmt.Errorf("edit attempt message: %w", err)
	}
	h.messages.Store(chatID, msgID)
	return nil
}

// retireMessage removes the keyboard of an attempt message that is no longer live.
func (h *Handler) retireMessage(chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil && !isNotModified(err) {
		h.logger.Debug("failed to retire attempt message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}

// sendQuiz posts the full static quiz, split across as many messages as needed.
func (h *Handler) sendQuiz(chatID int64, blocks []string, kb tgbotapi.InlineKeyboardMarkup) error {
	parts := splitMessage(blocks, maxMessageLen)
	for i, part := range parts {
		msg := newMessage(chatID, part)
		if i == len(parts)-1 {
			msg.ReplyMarkup = kb
		}
		if err := h.send(msg); err != nil {
			return err
		}
	}
	return nil
}
