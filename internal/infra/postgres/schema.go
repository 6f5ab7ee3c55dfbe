package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS quiz_sessions (
		chat_id    BIGINT PRIMARY KEY,
		attempt_id TEXT        NOT NULL,
		quiz       JSONB       NOT NULL,
		state      JSONB       NOT NULL,
		version    BIGINT      NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_sessions_updated_at_idx ON quiz_sessions (updated_at)`,
}

// EnsureSchema creates the tables the session store needs.
func EnsureSchema(ctx context.Context, t *Transactor) error {
	return t.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}
