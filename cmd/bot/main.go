package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/client/quizapi"
	"github.com/aliskhannn/wikiquiz-bot/internal/config"
	"github.com/aliskhannn/wikiquiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/wikiquiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/wikiquiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/wikiquiz-bot/internal/infra/redis"
	"github.com/aliskhannn/wikiquiz-bot/internal/logger"
	"github.com/aliskhannn/wikiquiz-bot/internal/service"
	"github.com/aliskhannn/wikiquiz-bot/internal/storage"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to init telegram bot", zap.Error(err))
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	api, err := quizapi.New(quizapi.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, lg)
	if err != nil {
		lg.Fatal("failed to init quiz api client", zap.Error(err))
	}

	sessions, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open session store", zap.String("store", cfg.Sessions.Store), zap.Error(err))
	}
	defer closeStore()
	lg.Info("session store ready", zap.String("store", cfg.Sessions.Store))

	quizService := service.NewQuizService(api, sessions, lg)

	janitor := service.NewJanitor(sessions, cfg.Sessions.IdleTTL, cfg.Sessions.SweepSchedule, lg)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		if err := janitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("session janitor stopped", zap.Error(err))
		}
	}()

	handler := telegram.NewHandler(
		bot,
		lg,
		quizService,
		storage.NewMessageStorage(),
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
	// The store is closed by a deferred call, so a running sweep must finish first.
	stop()
	<-janitorDone
}

// openSessionStore builds the attempt store selected by configuration.
func openSessionStore(ctx context.Context, cfg *config.Config) (service.SessionRepository, func(), error) {
	switch cfg.Sessions.Store {
	case config.StorePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, postgres.NewTransactor(pool)); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewSessionRepository(pool), pool.Close, nil

	case config.StoreRedis:
		redisCfg := redis.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Sessions.IdleTTL,
		}
		rdb, err := redis.NewClient(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionStore(rdb, redisCfg), func() { _ = rdb.Close() }, nil

	default:
		return storage.NewSessionStorage(), func() {}, nil
	}
}
