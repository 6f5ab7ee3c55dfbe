package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
)

// handleStart greets the user and suggests a few articles to try.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, msgWelcome()))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, msgHelp()))
	}
}

// handleText generates a quiz when the message is a Wikipedia link.
// The placeholder message is edited into the quiz card once the backend answers.
func (h *Handler) handleText(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !quizapi.LooksLikeURL(text) {
			return h.send(newPlainMessage(chatID, msgNotAURL))
		}

		articleURL, err := quizapi.ValidateArticleURL(text)
		if err != nil {
			return h.send(newPlainMessage(chatID, quizapi.Detail(err, quizapi.MsgGenerateFailed)))
		}

		placeholderID, err := h.sendMessage(newPlainMessage(chatID, msgGenerating))
		if err != nil {
			return err
		}

		quiz, err := h.quizService.GenerateQuiz(ctx, articleURL)
		if err != nil {
			detail := quizapi.Detail(err, quizapi.MsgGenerateFailed)
			return h.send(newEdit(chatID, placeholderID, md("❌ "+detail), nil))
		}

		kb := buildQuizCardKeyboard(quiz.ID)
		return h.send(newEdit(chatID, placeholderID, formatQuizCard(quiz), &kb))
	}
}

// handleOpen shows the card of a stored quiz: /quiz <id>.
func (h *Handler) handleOpen(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(args), "#"), 10, 64)
		if err != nil || id <= 0 {
			return h.send(newPlainMessage(chatID, msgQuizUsage))
		}

		quiz, err := h.quizService.GetQuiz(ctx, id)
		if err != nil {
			if errors.Is(err, quizapi.ErrQuizNotFound) {
				return h.send(newPlainMessage(chatID, fmt.Sprintf("Quiz #%d not found.", id)))
			}
			return h.send(newPlainMessage(chatID, quizapi.Detail(err, quizapi.MsgDetailsFailed)))
		}

		msg := newMessage(chatID, formatQuizCard(quiz))
		msg.ReplyMarkup = buildQuizCardKeyboard(quiz.ID)
		return h.send(msg)
	}
}

// handleHistory shows a page of the quiz history.
// A non-zero messageID edits that message in place.
func (h *Handler) handleHistory(page, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.RenderHistory(ctx, page)
		if err != nil {
			h.logger.Warn("failed to load quiz history", zap.Int64("chat_id", chatID), zap.Error(err))
			return h.send(newPlainMessage(chatID, quizapi.Detail(err, quizapi.MsgHistoryFailed)))
		}

		if messageID != 0 {
			return h.send(newEdit(chatID, messageID, text, kb))
		}

		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.send(msg)
	}
}

// handleCancel discards the attempt in progress.
func (h *Handler) handleCancel() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.quizService.CurrentAttempt(ctx, chatID); err != nil {
			if errors.Is(err, service.ErrNoActiveAttempt) {
				return h.send(newPlainMessage(chatID, msgNoAttempt))
			}
			return err
		}

		if err := h.quizService.EndAttempt(ctx, chatID); err != nil {
			return err
		}

		if prev, ok := h.messages.Get(chatID); ok {
			h.retireMessage(chatID, prev.MessageID)
			h.messages.Delete(chatID)
		}

		return h.send(newPlainMessage(chatID, msgAttemptCanceled))
	}
}
