package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	HostKeySalt  string

	LogLevel  string
	LogFormat string

	NotifyWebhookURL string
	NotifyQueueSize  int
	VoteRatePerMin   int
}

// ParseFlags validates flags and fills the rest from the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// A missing .env is fine; real env vars always win over it.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("quickly-plan", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.HostKeySalt, "host-salt", "", "Host key salt (prefer env)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.NotifyWebhookURL, "notify-url", "", "Webhook URL for vote notifications")
	fs.IntVar(&cfg.NotifyQueueSize, "notify-queue", 0, "Notification queue size")
	fs.IntVar(&cfg.VoteRatePerMin, "vote-rate", 0, "Ballot submissions allowed per client per minute")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Port, err = intFromEnv(cfg.Port, "PORT", 3318); err != nil {
		return Config{}, err
	}
	if cfg.NotifyQueueSize, err = intFromEnv(cfg.NotifyQueueSize, "NOTIFY_QUEUE_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.VoteRatePerMin, err = intFromEnv(cfg.VoteRatePerMin, "VOTE_RATE_PER_MIN", 30); err != nil {
		return Config{}, err
	}

	cfg.DatabaseType = stringFromEnv(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	switch cfg.DatabaseType {
	case "sqlite":
		cfg.DatabaseURL = stringFromEnv(cfg.DatabaseURL, "DATABASE_URL", "quickly-plan.db")
	case "postgres":
		cfg.DatabaseURL = stringFromEnv(cfg.DatabaseURL, "DATABASE_URL", "")
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	cfg.HostKeySalt = stringFromEnv(cfg.HostKeySalt, "HOST_KEY_SALT", "")
	if cfg.HostKeySalt == "" {
		return Config{}, errors.New("HOST_KEY_SALT required")
	}

	cfg.LogLevel = strings.ToLower(stringFromEnv(cfg.LogLevel, "LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(stringFromEnv(cfg.LogFormat, "LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	cfg.NotifyWebhookURL = stringFromEnv(cfg.NotifyWebhookURL, "NOTIFY_WEBHOOK_URL", "")

	return cfg, nil
}

// Logger builds the slog logger described by LogLevel and LogFormat.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func stringFromEnv(current, key, fallback string) string {
	if current != "" {
		return current
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(current int, key string, fallback int) (int, error) {
	if current != 0 {
		return current, nil
	}
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
