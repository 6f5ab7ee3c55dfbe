package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
	"github.com/aliskhannn/wikiquiz-bot/internal/infra/postgres"
)

// SessionRepository provides access to quiz attempts in the database.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository with the provided database handle.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new attempt for the chat, replacing any previous one.
func (r *SessionRepository) Create(ctx context.Context, cs *entities.ChatSession) error {
	query := `
		INSERT INTO quiz_sessions (chat_id, attempt_id, quiz, state, version, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (chat_id) DO UPDATE
		SET attempt_id = EXCLUDED.attempt_id,
		    quiz = EXCLUDED.quiz,
		    state = EXCLUDED.state,
		    version = 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING version, updated_at
	`

	quiz, state, err := encodeSession(cs)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, query, cs.ChatID, cs.AttemptID, quiz, state).Scan(&cs.Version, &cs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create quiz session: %w", err)
	}

	return nil
}

// Get retrieves the attempt of a chat.
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*entities.ChatSession, error) {
	query := `
		SELECT chat_id, attempt_id, quiz, state, version, updated_at
		FROM quiz_sessions
		WHERE chat_id = $1
	`

	var (
		row         entities.ChatSession
		quiz, state []byte
	)
	err := r.db.QueryRow(ctx, query, chatID).Scan(
		&row.ChatID,
		&row.AttemptID,
		&quiz,
		&state,
		&row.Version,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	if err := decodeSession(&row, quiz, state); err != nil {
		return nil, err
	}

	return &row, nil
}

// Update updates an attempt using optimistic locking.
func (r *SessionRepository) Update(ctx context.Context, cs *entities.ChatSession) error {
	query := `
		UPDATE quiz_sessions
		SET attempt_id = $1,
		    state = $2,
		    version = version + 1,
		    updated_at = now()
		WHERE chat_id = $3 AND version = $4
		RETURNING updated_at
	`

	_, state, err := encodeSession(cs)
	if err != nil {
		return err
	}

	var updatedAt time.Time
	err = r.db.QueryRow(ctx, query, cs.AttemptID, state, cs.ChatID, cs.Version).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, cs.ChatID)
		}
		return fmt.Errorf("update quiz session: %w", err)
	}

	// Increment version locally
	cs.Version++
	cs.UpdatedAt = updatedAt

	return nil
}

// missOrConflict tells a deleted attempt from a concurrent modification.
func (r *SessionRepository) missOrConflict(ctx context.Context, chatID int64) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quiz_sessions WHERE chat_id = $1)`, chatID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check quiz session: %w", err)
	}
	if !exists {
		return entities.ErrSessionNotFound
	}
	return entities.ErrOptimisticLock
}

// Delete removes the attempt of a chat.
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM quiz_sessions WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

// DeleteIdle removes attempts last updated before the given time.
func (r *SessionRepository) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM quiz_sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete idle quiz sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func encodeSession(cs *entities.ChatSession) (quiz, state []byte, err error) {
	quiz, err = json.Marshal(cs.Quiz)
	if err != nil {
		return nil, nil, fmt.Errorf("encode quiz: %w", err)
	}
	state, err = json.Marshal(cs.State)
	if err != nil {
		return nil, nil, fmt.Errorf("encode session state: %w", err)
	}
	return quiz, state, nil
}

func decodeSession(cs *entities.ChatSession, quiz, state []byte) error {
	if err := json.Unmarshal(quiz, &cs.Quiz); err != nil {
		return fmt.Errorf("decode quiz: %w", err)
	}
	if err := json.Unmarshal(state, &cs.State); err != nil {
		return fmt.Errorf("decode session state: %w", err)
	}
	if cs.State.Selections == nil {
		cs.State.Selections = make(map[int]string)
	}
	return nil
}
