package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rendis/papergraph/internal/logging"
	"github.com/rendis/papergraph/internal/validation"
	"github.com/rendis/papergraph/pkg/cpapers"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

// Config holds all papergraph CLI configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	APIKey    string `json:"api_key"`
	S2APIKey  string `json:"s2_api_key"`
	BaseURL   string `json:"base_url"`
	S2BaseURL string `json:"s2_base_url"`
	Timeout   string `json:"timeout"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	PoolSize  int    `json:"pool_size"`
}

func defaultConfig() Config {
	return Config{
		// The service's public demo token covers the free-access papers,
		// so the CLI works out of the box.
		APIKey:    cpapers.TestToken,
		LogLevel:  "info",
		LogFormat: "text",
		PoolSize:  4,
	}
}

func papergraphDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".papergraph"
	}
	return filepath.Join(home, ".papergraph")
}

func settingsPath() string {
	return filepath.Join(papergraphDir(), "settings.json")
}

func loadConfig() (Config, error) {
	cfg := defaultConfig()

	// A .env file in the working directory feeds the env layer; it
	// never overrides variables already set.
	_ = godotenv.Load()

	// Layer 2: settings.json (ignore if missing, reject if invalid).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		v, verr := validation.NewSettingsValidator()
		if verr != nil {
			return cfg, verr
		}
		if verr := v.Validate(data); verr != nil {
			return cfg, schema.NewErrorf(schema.ErrCodeValidation,
				"%s: %v", settingsPath(), verr)
		}
		if uerr := json.Unmarshal(data, &cfg); uerr != nil {
			return cfg, schema.NewError(schema.ErrCodeValidation,
				"failed to decode settings").WithCause(uerr)
		}
	}

	// Layer 3: env vars override. The service-native key variables are
	// honored first, the PAPERGRAPH_* ones win.
	if v := os.Getenv(cpapers.EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(s2.EnvAPIKey); v != "" {
		cfg.S2APIKey = v
	}
	if v := os.Getenv("PAPERGRAPH_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PAPERGRAPH_S2_API_KEY"); v != "" {
		cfg.S2APIKey = v
	}
	if v := os.Getenv("PAPERGRAPH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PAPERGRAPH_S2_BASE_URL"); v != "" {
		cfg.S2BaseURL = v
	}
	if v := os.Getenv("PAPERGRAPH_TIMEOUT"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = v
		}
	}
	if v := os.Getenv("PAPERGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PAPERGRAPH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("PAPERGRAPH_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PoolSize = n
		}
	}

	return cfg, nil
}

// timeout returns the configured request timeout, or zero so the
// clients apply their own defaults.
func (c Config) timeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// newLogger builds the stderr logger with correlation IDs injected
// from the context.
func newLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(logging.NewCorrelationHandler(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
