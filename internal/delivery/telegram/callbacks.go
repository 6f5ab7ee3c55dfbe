package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)

	var fn CallbackFunc
	switch data.Action {
	case actionView:
		fn = h.handleViewCallback
	case actionTake:
		fn = h.handleTakeCallback
	case actionAnswer:
		fn = h.handleAnswerCallback
	case actionNav:
		fn = h.handleNavCallback
	case actionJump:
		fn = h.handleJumpCallback
	case actionSubmit:
		fn = h.handleSubmitCallback
	case actionRetry:
		fn = h.handleRetryCallback
	case actionHistory:
		fn = h.handleHistoryCallback
	case actionDelete:
		fn = h.handleDeleteCallback
	case actionNoop:
		fn = func(context.Context, *tgbotapi.CallbackQuery, callbackData) (string, error) {
			return msgReviewLocked, nil
		}
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	_, _ = h.withCallbackAnswer(fn)(ctx, cb, data)
}

// handleViewCallback posts the full quiz: summary, entities, sections, questions with answers and related topics.
func (h *Handler) handleViewCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	quiz, toast, err := h.loadQuiz(ctx, data)
	if quiz == nil {
		return toast, err
	}

	return "", h.sendQuiz(cb.Message.Chat.ID, formatQuizBlocks(quiz), buildTakeKeyboard(quiz.ID))
}

// handleTakeCallback starts a new attempt, replacing the one in progress.
func (h *Handler) handleTakeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	quiz, toast, err := h.loadQuiz(ctx, data)
	if quiz == nil {
		return toast, err
	}

	chatID := cb.Message.Chat.ID
	attempt, err := h.quizService.StartAttempt(ctx, chatID, quiz)
	if err != nil {
		if errors.Is(err, entities.ErrNoQuestions) || errors.Is(err, entities.ErrAnswerNotInOptions) ||
			errors.Is(err, entities.ErrUnknownDifficulty) {
			h.logger.Warn("quiz cannot be played", zap.Int64("quiz_id", quiz.ID), zap.Error(err))
			return "This quiz cannot be played", nil
		}
		return "", err
	}

	return "", h.sendAttempt(chatID, attempt)
}

// loadQuiz fetches the quiz named by the first callback parameter.
// A nil quiz with a nil error means the toast explains the failure.
func (h *Handler) loadQuiz(ctx context.Context, data callbackData) (*entities.Quiz, string, error) {
	id, err := data.int64Param(0)
	if err != nil {
		return nil, "", err
	}

	quiz, err := h.quizService.GetQuiz(ctx, id)
	if err != nil {
		if errors.Is(err, quizapi.ErrQuizNotFound) {
			return nil, fmt.Sprintf("Quiz #%d no longer exists", id), nil
		}
		return nil, quizapi.Detail(err, quizapi.MsgDetailsFailed), nil
	}
	return quiz, "", nil
}

// handleAnswerCallback records an answer. The option travels by index and is resolved against the stored quiz.
func (h *Handler) handleAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	attemptID, err := data.param(0)
	if err != nil {
		return "", err
	}
	question, err := data.intParam(1)
	if err != nil {
		return "", err
	}
	option, err := data.intParam(2)
	if err != nil {
		return "", err
	}

	chatID := cb.Message.Chat.ID
	attempt, err := h.quizService.CurrentAttempt(ctx, chatID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) {
			h.retireMessage(chatID, cb.Message.MessageID)
			return msgAttemptExpired, nil
		}
		return "", err
	}
	if attempt.Record.AttemptID != attemptID {
		h.retireMessage(chatID, cb.Message.MessageID)
		return msgAttemptExpired, nil
	}

	questions := attempt.Record.Quiz.Questions
	if question >= len(questions) || option >= len(questions[question].Options) {
		return msgAttemptExpired, nil
	}

	return h.applyIntent(ctx, cb, attemptID, session.Select(question, questions[question].Options[option]))
}

func (h *Handler) handleNavCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	attemptID, err := data.param(0)
	if err != nil {
		return "", err
	}
	direction, err := data.param(1)
	if err != nil {
		return "", err
	}

	switch direction {
	case navPrev:
		return h.applyIntent(ctx, cb, attemptID, session.Previous())
	case navNext:
		return h.applyIntent(ctx, cb, attemptID, session.Next())
	default:
		return "", errMalformedCallback
	}
}

func (h *Handler) handleJumpCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	attemptID, err := data.param(0)
	if err != nil {
		return "", err
	}
	question, err := data.intParam(1)
	if err != nil {
		return "", err
	}

	return h.applyIntent(ctx, cb, attemptID, session.GoTo(question))
}

func (h *Handler) handleSubmitCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	attemptID, err := data.param(0)
	if err != nil {
		return "", err
	}

	toast, err := h.applyIntent(ctx, cb, attemptID, session.Submit())
	if err != nil || toast != "" {
		return toast, err
	}
	return "🎉 Quiz Complete!", nil
}

func (h *Handler) handleRetryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	attemptID, err := data.param(0)
	if err != nil {
		return "", err
	}

	return h.applyIntent(ctx, cb, attemptID, session.Retry())
}

// applyIntent runs in against the chat's attempt and redraws the pressed message.
// Refusals the user can act on come back as a toast.
func (h *Handler) applyIntent(ctx context.Context, cb *tgbotapi.CallbackQuery, attemptID string, in session.Intent) (string, error) {
	chatID := cb.Message.Chat.ID

	attempt, err := h.quizService.Apply(ctx, chatID, attemptID, in)
	if err != nil {
		toast, ok := engineToast(err)
		if !ok {
			return "", fmt.Errorf("apply %s: %w", in.Kind, err)
		}
		if errors.Is(err, service.ErrStaleAttempt) {
			h.retireMessage(chatID, cb.Message.MessageID)
		}
		return toast, nil
	}

	return "", h.editAttempt(chatID, cb.Message.MessageID, attempt)
}

func (h *Handler) handleHistoryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	page, err := data.intParam(0)
	if err != nil {
		return "", err
	}

	return "", h.handleHistory(page, cb.Message.MessageID)(ctx, cb.Message.Chat.ID)
}

// handleDeleteCallback walks through ask, confirm and cancel of a quiz deletion.
func (h *Handler) handleDeleteCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	sub, err := data.param(0)
	if err != nil {
		return "", err
	}
	quizID, err := data.int64Param(1)
	if err != nil {
		return "", err
	}
	page, err := data.intParam(2)
	if err != nil {
		return "", err
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	switch sub {
	case deleteAsk:
		quiz, err := h.quizService.GetQuiz(ctx, quizID)
		if err != nil {
			if errors.Is(err, quizapi.ErrQuizNotFound) {
				return fmt.Sprintf("Quiz #%d no longer exists", quizID), h.handleHistory(page, msgID)(ctx, chatID)
			}
			return quizapi.Detail(err, quizapi.MsgDetailsFailed), nil
		}

		kb := buildDeleteConfirmKeyboard(quizID, page)
		row := entities.QuizSummary{ID: quiz.ID, Title: quiz.Title}
		return "", h.send(newEdit(chatID, msgID, formatDeleteConfirm(row), &kb))

	case deleteConfirm:
		if err := h.quizService.DeleteQuiz(ctx, quizID); err != nil && !errors.Is(err, quizapi.ErrQuizNotFound) {
			return quizapi.Detail(err, quizapi.MsgDeleteFailed), nil
		}
		h.logger.Info("quiz deleted", zap.Int64("chat_id", chatID), zap.Int64("quiz_id", quizID))
		return msgQuizDeleted, h.handleHistory(page, msgID)(ctx, chatID)

	case deleteCancel:
		return msgDeleteCanceled, h.handleHistory(page, msgID)(ctx, chatID)

	default:
		return "", errMalformedCallback
	}
}
