package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/config"
)

// New builds the application logger for the configured environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// NewQuiet returns a no-op logger unless debug is set, in which case logs go to path.
// The terminal client owns stdout while a quiz is on screen.
func NewQuiet(debug bool, path string) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
