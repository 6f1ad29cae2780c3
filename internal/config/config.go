package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int    `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Users, notes and the activity log live in separate SQLite files.
	UsersDatabasePath  string `env:"USERS_DATABASE_PATH" envDefault:"./users.db"`
	NotesDatabasePath  string `env:"NOTES_DATABASE_PATH" envDefault:"./notes.db"`
	EventsDatabasePath string `env:"EVENTS_DATABASE_PATH" envDefault:"./events.db"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	EventRetentionDays int           `env:"EVENT_RETENTION_DAYS" envDefault:"30"`
	EventPruneCron     string        `env:"EVENT_PRUNE_CRON" envDefault:"0 3 * * *"`
	UserCacheTTL       time.Duration `env:"USER_CACHE_TTL" envDefault:"10m"`
}

// Load loads configuration from environment variables, reading a .env file first if one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.ServerPort)
	}
	if cfg.EventRetentionDays <= 0 {
		return nil, fmt.Errorf("EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}
	if _, err := cron.ParseStandard(cfg.EventPruneCron); err != nil {
		return nil, fmt.Errorf("invalid EVENT_PRUNE_CRON %q: %w", cfg.EventPruneCron, err)
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// EventRetention returns the retention window for the activity log.
func (c *Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}
