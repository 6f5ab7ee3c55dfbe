package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownSessionStore         = errors.New("unknown session store")
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`      // current application environment (local, dev, production)
	TelegramAPIToken string   `mapstructure:"-"`        // Telegram API token loaded from environment
	Backend          Backend  `mapstructure:"backend"`  // quiz backend section
	Sessions         Sessions `mapstructure:"sessions"` // quiz attempt storage section
	DB               DB       `mapstructure:"database"` // database configuration section
	Redis            Redis    `mapstructure:"redis"`    // redis configuration section
}

// Backend configures the quiz generation API client.
type Backend struct {
	BaseURL string        `mapstructure:"base_url"` // scheme and host of the quiz API
	Timeout time.Duration `mapstructure:"timeout"`  // per-request timeout, generation is slow
}

// Sessions configures where quiz attempts live and how long they survive.
type Sessions struct {
	Store         string        `mapstructure:"store"`          // memory, postgres or redis
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`       // attempts untouched for longer are removed
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron spec of the idle sweep
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains redis connection parameters.
type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"-"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load reads configuration from config files and environment variables.
// Nothing is required, so it serves the terminal client as is.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "60s")
	v.SetDefault("sessions.store", StoreMemory)
	v.SetDefault("sessions.idle_ttl", "24h")
	v.SetDefault("sessions.sweep_schedule", "*/15 * * * *")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "wikiquiz")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("backend.base_url", "QUIZ_API_URL")
	_ = v.BindEnv("sessions.store", "SESSION_STORE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	switch cfg.Sessions.Store {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSessionStore, cfg.Sessions.Store)
	}

	return &cfg, nil
}

// LoadBot loads configuration and checks the secrets the Telegram bot cannot run without.
func LoadBot() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	var missing []string
	if cfg.TelegramAPIToken == "" {
		missing = append(missing, "TELEGRAM_API_TOKEN")
	}
	if cfg.Sessions.Store == StorePostgres && cfg.DB.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Sessions.Store == StoreRedis && cfg.Redis.Addr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnvironmentVariables, strings.Join(missing, ", "))
	}

	return cfg, nil
}
