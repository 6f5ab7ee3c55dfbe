package telegram

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

var linkURLEscaper = strings.NewReplacer(`\`, `\\`, `)`, `\)`)

// link builds a MarkdownV2 inline link.
func link(text, url string) string {
	return "[" + md(text) + "](" + linkURLEscaper.Replace(url) + ")"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = kb
	return edit
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		if isNotModified(err) {
			return nil
		}
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendMessage sends msg and returns the id of the created message.
func (h *Handler) sendMessage(msg tgbotapi.MessageConfig) (int, error) {
	sent, err := h.bot.Send(msg)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err),
		)
		return 0, err
	}
	return sent.MessageID, nil
}

func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

// isNotModified reports Telegram's refusal of an edit that changes nothing.
func isNotModified(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strings.Contains(tgErr.Message, "message is not modified")
	}
	return strings.Contains(err.Error(), "message is not modified")
}
