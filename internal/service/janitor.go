package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor removes quiz attempts nobody touched for a while.
type Janitor struct {
	sessions SessionRepository
	idleTTL  time.Duration
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

// NewJanitor creates a janitor sweeping on the given cron schedule.
func NewJanitor(sessions SessionRepository, idleTTL time.Duration, schedule string, logger *zap.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		idleTTL:  idleTTL,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the sweep on schedule until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() {
		if _, err := j.Sweep(ctx); err != nil {
			j.logger.Error("failed to sweep idle quiz attempts", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add sweep job %q: %w", j.schedule, err)
	}

	c.Start()
	j.logger.Info("session janitor started", zap.String("schedule", j.schedule), zap.Duration("idle_ttl", j.idleTTL))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
	return nil
}

// Sweep runs a single pass and returns how many attempts were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.idleTTL)
	removed, err := j.sessions.DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	if removed > 0 {
		j.logger.Info("idle quiz attempts removed", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
