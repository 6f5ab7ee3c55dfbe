package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
)

const (
	historyPageSize = 5
	dotsPerRow      = 8
)

// buildQuizCardKeyboard offers the two ways of using a quiz.
func buildQuizCardKeyboard(quizID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 View quiz", buildViewCallback(quizID)),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Take quiz", buildTakeCallback(quizID)),
		),
	)
}

// buildTakeKeyboard follows the full quiz view.
func buildTakeKeyboard(quizID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Take quiz", buildTakeCallback(quizID)),
		),
	)
}

// buildAttemptKeyboard renders the controls of an attempt from its view.
func buildAttemptKeyboard(attemptID string, v session.View) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	q := v.Current
	for i, o := range q.Options {
		label := o.Label + ". " + o.Text
		switch {
		case o.State == session.OptionCorrect:
			label = "✓ " + label
		case o.State == session.OptionSelectedIncorrect:
			label = "✗ " + label
		case o.Selected:
			label = "● " + label
		}
		data := buildAnswerCallback(attemptID, q.Index, i)
		if v.Submitted {
			data = buildNoopCallback()
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	rows = append(rows, buildDotRows(attemptID, v)...)

	var nav []tgbotapi.InlineKeyboardButton
	if !v.IsFirst {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Previous", buildNavCallback(attemptID, navPrev)))
	}
	switch {
	case !v.IsLast:
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildNavCallback(attemptID, navNext)))
	case !v.Submitted:
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("✅ Submit", buildSubmitCallback(attemptID)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if v.Submitted {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildRetryCallback(attemptID)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildDotRows renders one jump button per question, marking the current and answered ones.
func buildDotRows(attemptID string, v session.View) [][]tgbotapi.InlineKeyboardButton {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for i, answered := range v.Answered {
		label := fmt.Sprintf("%d", i+1)
		switch {
		case i == v.Current.Index:
			label = "[" + label + "]"
		case answered:
			label = label + "•"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildJumpCallback(attemptID, i)))
		if len(row) == dotsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// buildHistoryKeyboard renders open/delete buttons for one history page plus pagination.
func buildHistoryKeyboard(rows []entities.QuizSummary, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	var kb [][]tgbotapi.InlineKeyboardButton
	for _, r := range rows {
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📂 Open #%d", r.ID), buildViewCallback(r.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Take", buildTakeCallback(r.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", buildDeleteCallback(deleteAsk, r.ID, page)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Newer", buildHistoryCallback(page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Older ▶️", buildHistoryCallback(page+1)))
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}

	if len(kb) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(kb...)
	return &markup
}

// buildDeleteConfirmKeyboard asks before a quiz is deleted.
func buildDeleteConfirmKeyboard(quizID int64, page int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, delete", buildDeleteCallback(deleteConfirm, quizID, page)),
			tgbotapi.NewInlineKeyboardButtonData("« Cancel", buildDeleteCallback(deleteCancel, quizID, page)),
		),
	)
}
