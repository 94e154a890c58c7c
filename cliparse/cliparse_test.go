// cliparse/cliparse_test.go
package cliparse

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "HOST_KEY_SALT", "LOG_LEVEL",
		"LOG_FORMAT", "NOTIFY_WEBHOOK_URL", "NOTIFY_QUEUE_SIZE", "VOTE_RATE_PER_MIN",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("HOST_KEY_SALT", "test-salt")
	t.Setenv("VOTE_RATE_PER_MIN", "12")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database settings: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.VoteRatePerMin != 12 {
		t.Errorf("expected vote rate 12, got %d", cfg.VoteRatePerMin)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format, got %s", cfg.LogFormat)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-host-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected file:test.db, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST_KEY_SALT", "s1")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != "quickly-plan.db" {
		t.Errorf("unexpected database defaults: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.NotifyQueueSize != 100 || cfg.VoteRatePerMin != 30 {
		t.Errorf("unexpected queue/rate defaults: %d %d", cfg.NotifyQueueSize, cfg.VoteRatePerMin)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing salt", nil, nil},
		{"postgres without url", map[string]string{"HOST_KEY_SALT": "s", "DATABASE_TYPE": "postgres"}, nil},
		{"unknown database type", map[string]string{"HOST_KEY_SALT": "s"}, []string{"-t", "mysql"}},
		{"bad port", map[string]string{"HOST_KEY_SALT": "s", "PORT": "abc"}, nil},
		{"bad log format", map[string]string{"HOST_KEY_SALT": "s"}, []string{"-log-format", "xml"}},
		{"unknown flag", map[string]string{"HOST_KEY_SALT": "s"}, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn", LogFormat: "json"}.Logger(&buf)

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	logger.Warn("hello", "k", "v")
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)) {
		t.Errorf("expected JSON output, got %s", buf.String())
	}
}
