package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/domain/session"
	"github.com/aliskhannn/wikiquiz-bot/internal/storage"
)

type fakeAPI struct {
	quizzes map[int64]*entities.Quiz
}

func (f *fakeAPI) Generate(_ context.Context, articleURL string) (*entities.Quiz, error) {
	q := sampleQuiz()
	q.URL = articleURL
	return q, nil
}

func (f *fakeAPI) History(context.Context) ([]entities.QuizSummary, error) {
	rows := make([]entities.QuizSummary, 0, len(f.quizzes))
	for id, q := range f.quizzes {
		rows = append(rows, entities.QuizSummary{ID: id, Title: q.Title, QuestionCount: len(q.Questions)})
	}
	return rows, nil
}

func (f *fakeAPI) Get(_ context.Context, id int64) (*entities.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("quiz %d: not found", id)
	}
	return q, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	delete(f.quizzes, id)
	return nil
}

func sampleQuiz() *entities.Quiz {
	return &entities.Quiz{
		ID:    1,
		Title: "Basics",
		Questions: []entities.Question{
			{Text: "Capital of France?", Options: []string{"Paris", "Lyon"}, Answer: "Paris"},
			{Text: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
		},
	}
}

func newTestService(t *testing.T) (*QuizService, *storage.SessionStorage) {
	t.Helper()
	store := storage.NewSessionStorage()
	svc := NewQuizService(&fakeAPI{quizzes: map[int64]*entities.Quiz{1: sampleQuiz()}}, store, zap.NewNop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("attempt-%d", n)
	}
	return svc, store
}

// TestStartAttemptStoresFreshSession checks the stored record of a new attempt.
func TestStartAttemptStoresFreshSession(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	attempt, err := svc.StartAttempt(ctx, 100, sampleQuiz())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.Record.AttemptID != "attempt-1" || attempt.Session.CurrentIndex() != 0 {
		t.Fatalf("unexpected attempt %+v", attempt.Record)
	}

	stored, err := store.Get(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Quiz.ID != 1 || len(stored.State.Selections) != 0 {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

// TestStartAttemptRejectsInvalidQuiz never stores a quiz the engine cannot play.
func TestStartAttemptRejectsInvalidQuiz(t *testing.T) {
	svc, _ := newTestService(t)
	bad := sampleQuiz()
	bad.Questions[1].Answer = "5"

	if _, err := svc.StartAttempt(context.Background(), 1, bad); !errors.Is(err, entities.ErrAnswerNotInOptions) {
		t.Fatalf("expected ErrAnswerNotInOptions, got %v", err)
	}
}

// TestApplyPersistsProgress plays a full attempt through the service.
func TestApplyPersistsProgress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	attempt, err := svc.StartAttempt(ctx, 100, sampleQuiz())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := attempt.Record.AttemptID

	for _, in := range []session.Intent{session.Select(0, "Paris"), session.Next(), session.Select(1, "3"), session.Submit()} {
		if _, err := svc.Apply(ctx, 100, id, in); err != nil {
			t.Fatalf("apply %s: %v", in.Kind, err)
		}
	}

	current, err := svc.CurrentAttempt(ctx, 100)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	score, ok := current.Session.Score()
	if !ok || score != 1 {
		t.Fatalf("expected score 1, got %d (ok=%v)", score, ok)
	}
	if current.Record.Version != 5 {
		t.Fatalf("expected version 5, got %d", current.Record.Version)
	}
}

// TestApplyReturnsEngineError keeps the attempt unchanged on a refused action.
func TestApplyReturnsEngineError(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	attempt, _ := svc.StartAttempt(ctx, 100, sampleQuiz())

	got, err := svc.Apply(ctx, 100, attempt.Record.AttemptID, session.Submit())
	if !errors.Is(err, session.ErrIncompleteSubmission) {
		t.Fatalf("expected ErrIncompleteSubmission, got %v", err)
	}
	if got == nil || got.Session.Submitted() {
		t.Fatalf("expected the unchanged attempt back")
	}
	if got.Record.Version != 1 {
		t.Fatalf("refused action must not be stored, version %d", got.Record.Version)
	}
}

// TestRetryRotatesAttemptID makes buttons of the previous attempt stale.
func TestRetryRotatesAttemptID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	attempt, _ := svc.StartAttempt(ctx, 100, sampleQuiz())
	oldID := attempt.Record.AttemptID

	retried, err := svc.Apply(ctx, 100, oldID, session.Retry())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Record.AttemptID == oldID {
		t.Fatalf("retry kept attempt id %s", oldID)
	}

	if _, err := svc.Apply(ctx, 100, oldID, session.Next()); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}
	if _, err := svc.Apply(ctx, 100, retried.Record.AttemptID, session.Next()); err != nil {
		t.Fatalf("apply on new attempt: %v", err)
	}
}

// TestNewAttemptSupersedesOld rejects actions aimed at a replaced attempt.
func TestNewAttemptSupersedesOld(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	first, _ := svc.StartAttempt(ctx, 100, sampleQuiz())
	if _, err := svc.StartAttempt(ctx, 100, sampleQuiz()); err != nil {
		t.Fatalf("second start: %v", err)
	}

	if _, err := svc.Apply(ctx, 100, first.Record.AttemptID, session.Next()); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}
}

// TestEndAttempt clears the chat.
func TestEndAttempt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	attempt, _ := svc.StartAttempt(ctx, 100, sampleQuiz())

	if err := svc.EndAttempt(ctx, 100); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := svc.CurrentAttempt(ctx, 100); !errors.Is(err, ErrNoActiveAttempt) {
		t.Fatalf("expected ErrNoActiveAttempt, got %v", err)
	}
	if _, err := svc.Apply(ctx, 100, attempt.Record.AttemptID, session.Next()); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("expected ErrStaleAttempt, got %v", err)
	}
}

// TestJanitorSweep removes only idle attempts.
func TestJanitorSweep(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	if _, err := svc.StartAttempt(ctx, 1, sampleQuiz()); err != nil {
		t.Fatalf("start: %v", err)
	}

	j := NewJanitor(store, time.Hour, "@every 1m", zap.NewNop())
	removed, err := j.Sweep(ctx)
	if err != nil || removed != 0 {
		t.Fatalf("fresh attempt swept: removed=%d err=%v", removed, err)
	}

	j.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = j.Sweep(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("expected 1 removed, got %d (err=%v)", removed, err)
	}
}

// TestJanitorStartRejectsBadSchedule fails before blocking.
func TestJanitorStartRejectsBadSchedule(t *testing.T) {
	j := NewJanitor(storage.NewSessionStorage(), time.Hour, "not a schedule", zap.NewNop())
	if err := j.Start(context.Background()); err == nil {
		t.Fatalf("expected schedule error")
	}
}

// blockingSweepStore holds DeleteIdle until released.
type blockingSweepStore struct {
	*storage.SessionStorage
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSweepStore) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
	return s.SessionStorage.DeleteIdle(ctx, before)
}

// TestJanitorStartWaitsForRunningSweep checks that Start returns only after an in-flight sweep.
func TestJanitorStartWaitsForRunningSweep(t *testing.T) {
	store := &blockingSweepStore{
		SessionStorage: storage.NewSessionStorage(),
		entered:        make(chan struct{}, 1),
		release:        make(chan struct{}),
	}
	j := NewJanitor(store, time.Hour, "@every 1s", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Start(ctx) }()

	select {
	case <-store.entered:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatalf("sweep did not run")
	}
	cancel()

	select {
	case <-done:
		t.Fatalf("Start returned while a sweep was running")
	case <-time.After(100 * time.Millisecond):
	}

	close(store.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Start did not return after the sweep finished")
	}
}
