package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
	"github.com/aliskhannn/wikiquiz-bot/internal/storage"
)

const testChatID = 100

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) lastSent() tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

// lastToast returns the text of the last callback answer.
func (b *fakeBot) lastToast() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if cb, ok := b.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb.Text, true
		}
	}
	return "", false
}

type fakeAPI struct {
	quizzes map[int64]*entities.Quiz
}

func (f *fakeAPI) Generate(_ context.Context, articleURL string) (*entities.Quiz, error) {
	q := testQuiz()
	q.URL = articleURL
	return q, nil
}

func (f *fakeAPI) History(context.Context) ([]entities.QuizSummary, error) {
	var rows []entities.QuizSummary
	for id, q := range f.quizzes {
		rows = append(rows, entities.QuizSummary{ID: id, Title: q.Title, QuestionCount: len(q.Questions)})
	}
	return rows, nil
}

func (f *fakeAPI) Get(_ context.Context, id int64) (*entities.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, &quizapi.APIError{StatusCode: 404, Detail: "Quiz not found"}
	}
	return q, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	delete(f.quizzes, id)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeBot, *service.QuizService) {
	t.Helper()
	bot := &fakeBot{}
	svc := service.NewQuizService(
		&fakeAPI{quizzes: map[int64]*entities.Quiz{1: testQuiz()}},
		storage.NewSessionStorage(),
		zap.NewNop(),
	)
	return NewHandler(bot, zap.NewNop(), svc, storage.NewMessageStorage()), bot, svc
}

func press(h *Handler, messageID int, data string) {
	h.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      fmt.Sprintf("cb-%d", messageID),
		From:    &tgbotapi.User{ID: 5},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: testChatID}},
		Data:    data,
	})
}

func currentAttemptID(t *testing.T, svc *service.QuizService) string {
	t.Helper()
	attempt, err := svc.CurrentAttempt(context.Background(), testChatID)
	if err != nil {
		t.Fatalf("current attempt: %v", err)
	}
	return attempt.Record.AttemptID
}

// TestTakeAnswerSubmitFlow plays a quiz through callbacks.
func TestTakeAnswerSubmitFlow(t *testing.T) {
	h, bot, svc := newTestHandler(t)

	press(h, 1, buildTakeCallback(1))
	msg, ok := bot.lastSent().(tgbotapi.MessageConfig)
	if !ok || !strings.Contains(msg.Text, "Question 1 of 2") {
		t.Fatalf("attempt message not sent: %#v", bot.lastSent())
	}
	attemptID := currentAttemptID(t, svc)

	press(h, 2, buildAnswerCallback(attemptID, 0, 0))
	if _, ok := bot.lastSent().(tgbotapi.EditMessageTextConfig); !ok {
		t.Fatalf("answer did not edit the attempt message: %#v", bot.lastSent())
	}

	press(h, 2, buildSubmitCallback(attemptID))
	if toast, _ := bot.lastToast(); toast != msgAnswerAll {
		t.Fatalf("toast = %q, want %q", toast, msgAnswerAll)
	}

	press(h, 2, buildAnswerCallback(attemptID, 1, 1))
	press(h, 2, buildSubmitCallback(attemptID))

	edit, ok := bot.lastSent().(tgbotapi.EditMessageTextConfig)
	if !ok || !strings.Contains(edit.Text, "2/2 \\(100%\\)") {
		t.Fatalf("results not rendered: %#v", bot.lastSent())
	}

	attempt, err := svc.CurrentAttempt(context.Background(), testChatID)
	if err != nil {
		t.Fatalf("current attempt: %v", err)
	}
	if score, ok := attempt.Session.Score(); !ok || score != 2 {
		t.Fatalf("score = %d, %v", score, ok)
	}
}

// TestStaleButtonsAreRejected checks that buttons of a replaced attempt do nothing.
func TestStaleButtonsAreRejected(t *testing.T) {
	h, bot, svc := newTestHandler(t)

	press(h, 1, buildTakeCallback(1))
	oldID := currentAttemptID(t, svc)

	press(h, 1, buildRetryCallback(oldID))
	if currentAttemptID(t, svc) == oldID {
		t.Fatalf("retry kept the attempt id")
	}

	press(h, 1, buildAnswerCallback(oldID, 0, 0))
	if toast, _ := bot.lastToast(); toast != msgAttemptExpired {
		t.Fatalf("toast = %q, want %q", toast, msgAttemptExpired)
	}

	attempt, err := svc.CurrentAttempt(context.Background(), testChatID)
	if err != nil {
		t.Fatalf("current attempt: %v", err)
	}
	if _, ok := attempt.Session.Selection(0); ok {
		t.Fatalf("stale answer was recorded")
	}
}

// TestLinkGeneratesQuizCard checks that a Wikipedia link turns the placeholder into a quiz card.
func TestLinkGeneratesQuizCard(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	h.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: testChatID},
			Text: "https://en.wikipedia.org/wiki/Basics",
		},
	})

	edit, ok := bot.lastSent().(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("placeholder not edited: %#v", bot.lastSent())
	}
	if edit.MessageID != 1 || !strings.Contains(edit.Text, "Basics") || edit.ReplyMarkup == nil {
		t.Fatalf("unexpected card: %+v", edit)
	}
}

// TestMissingQuizAnswersWithToast checks callbacks naming a deleted quiz.
func TestMissingQuizAnswersWithToast(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	press(h, 1, buildTakeCallback(42))
	if toast, _ := bot.lastToast(); toast != "Quiz #42 no longer exists" {
		t.Fatalf("toast = %q", toast)
	}
}

// TestCancelWithoutAttempt checks /cancel when nothing is in progress.
func TestCancelWithoutAttempt(t *testing.T) {
	h, bot, _ := newTestHandler(t)

	h.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat:     &tgbotapi.Chat{ID: testChatID},
			Text:     "/cancel",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 7}},
		},
	})

	msg, ok := bot.lastSent().(tgbotapi.MessageConfig)
	if !ok || msg.Text != msgNoAttempt {
		t.Fatalf("unexpected reply: %#v", bot.lastSent())
	}
}
