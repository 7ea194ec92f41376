package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Storage
	DatabasePath string

	// Auth
	SecretsDir string
	APIKey     string

	// Pages
	LatestPosts      int
	IndexPreviewOnly bool
	UnsafeHTML       bool
	GFM              bool

	// HTTP limits
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Observability
	LogLevel       slog.Level
	MetricsEnabled bool
}

// Load reads configuration from the environment. Values in a .env file in
// the working directory are applied first without overriding real
// environment variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8080"),

		DatabasePath: envOr("DATABASE_PATH", "blogd.db"),

		SecretsDir: envOr("SECRETS_DIR", "/etc/secrets"),
		APIKey:     os.Getenv("API_KEY"),

		LatestPosts:      envInt("LATEST_POSTS", 10),
		IndexPreviewOnly: envBool("INDEX_PREVIEW_ONLY", true),
		UnsafeHTML:       envBool("UNSAFE_HTML", false),
		GFM:              envBool("GFM", true),

		MaxBodyBytes:    envInt64("MAX_BODY_BYTES", 1<<20), // 1MB
		ReadTimeout:     envDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    envDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:       envLevel("LOG_LEVEL", slog.LevelInfo),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	if cfg.APIKey == "" {
		if key, err := ReadSecret(cfg.SecretsDir, "blogd-api", "token"); err == nil {
			cfg.APIKey = key
		}
	}

	if cfg.LatestPosts <= 0 {
		cfg.LatestPosts = 10
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required (or a blogd-api/token secret under %s)", c.SecretsDir)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// ReadSecret reads a mounted secret file at dir/name/file and trims
// surrounding whitespace.
func ReadSecret(dir, name, file string) (string, error) {
	path := filepath.Join(dir, name, file)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("secret %s/%s not found: %w", name, file, err)
		}
		return "", fmt.Errorf("read secret %s/%s: %w", name, file, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
