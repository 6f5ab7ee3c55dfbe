// Package redis stores quiz attempts in Redis with a sliding TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration // attempts expire after this long without an update
}

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// SessionStore keeps one JSON document per chat.
type SessionStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(rdb goredis.UniversalClient, cfg Config) *SessionStore {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = "wikiquiz"
	}
	return &SessionStore{
		rdb:    rdb,
		prefix: prefix,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// record is the stored form of an attempt.
type record struct {
	AttemptID string                `json:"attempt_id"`
	Quiz      entities.Quiz         `json:"quiz"`
	State     entities.SessionState `json:"state"`
	Version   int64                 `json:"version"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (s *SessionStore) key(chatID int64) string {
	return s.prefix + ":session:" + strconv.FormatInt(chatID, 10)
}

// Create stores a new attempt for the chat, replacing any previous one.
func (s *SessionStore) Create(ctx context.Context, cs *entities.ChatSession) error {
	cs.Version = 1
	cs.UpdatedAt = s.now()

	raw, err := encodeRecord(cs)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(cs.ChatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("create quiz session: %w", err)
	}
	return nil
}

// Get retrieves the attempt of a chat.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (*entities.ChatSession, error) {
	raw, err := s.rdb.Get(ctx, s.key(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}
	return decodeRecord(chatID, raw)
}

// Update saves the attempt if its version still matches, refreshing the TTL.
func (s *SessionStore) Update(ctx context.Context, cs *entities.ChatSession) error {
	key := s.key(cs.ChatID)
	next := *cs
	next.Version = cs.Version + 1
	next.UpdatedAt = s.now()

	raw, err := encodeRecord(&next)
	if err != nil {
		return err
	}

	err = s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return entities.ErrSessionNotFound
			}
			return err
		}
		stored, err := decodeRecord(cs.ChatID, current)
		if err != nil {
			return err
		}
		if stored.Version != cs.Version {
			return entities.ErrOptimisticLock
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
	case errors.Is(err, goredis.TxFailedErr):
		return entities.ErrOptimisticLock
	case errors.Is(err, entities.ErrSessionNotFound), errors.Is(err, entities.ErrOptimisticLock):
		return err
	default:
		return fmt.Errorf("update quiz session: %w", err)
	}

	cs.Version = next.Version
	cs.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes the attempt of a chat.
func (s *SessionStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.rdb.Del(ctx, s.key(chatID)).Err(); err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

// DeleteIdle does nothing: keys expire on their own after the TTL.
func (s *SessionStore) DeleteIdle(context.Context, time.Time) (int, error) {
	return 0, nil
}

func encodeRecord(cs *entities.ChatSession) ([]byte, error) {
	raw, err := json.Marshal(record{
		AttemptID: cs.AttemptID,
		Quiz:      cs.Quiz,
		State:     cs.State,
		Version:   cs.Version,
		UpdatedAt: cs.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode quiz session: %w", err)
	}
	return raw, nil
}

func decodeRecord(chatID int64, raw []byte) (*entities.ChatSession, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode quiz session: %w", err)
	}
	if rec.State.Selections == nil {
		rec.State.Selections = make(map[int]string)
	}
	return &entities.ChatSession{
		ChatID:    chatID,
		AttemptID: rec.AttemptID,
		Quiz:      rec.Quiz,
		State:     rec.State,
		Version:   rec.Version,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
