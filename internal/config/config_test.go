package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the caller's environment and any .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_PATH", "SECRETS_DIR", "API_KEY", "LATEST_POSTS",
		"INDEX_PREVIEW_ONLY", "UNSAFE_HTML", "GFM", "MAX_BODY_BYTES", "READ_TIMEOUT",
		"WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "METRICS_ENABLED",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "blogd.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.LatestPosts)
	assert.True(t, cfg.IndexPreviewOnly)
	assert.False(t, cfg.UnsafeHTML)
	assert.True(t, cfg.GFM)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.APIKey)
	assert.Error(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_KEY", "secret")
	t.Setenv("LATEST_POSTS", "25")
	t.Setenv("INDEX_PREVIEW_ONLY", "false")
	t.Setenv("READ_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("GFM", "false")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 25, cfg.LatestPosts)
	assert.False(t, cfg.IndexPreviewOnly)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.GFM)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LATEST_POSTS", "-3")
	t.Setenv("MAX_BODY_BYTES", "lots")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg := Load()

	assert.Equal(t, 10, cfg.LatestPosts)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_APIKeyFromSecret(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blogd-api"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogd-api", "token"), []byte("from-file\n"), 0o600))
	t.Setenv("SECRETS_DIR", dir)

	cfg := Load()

	assert.Equal(t, "from-file", cfg.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("API_KEY=dotenv-key\nPORT=7070\n"), 0o600))
	// godotenv never overrides variables that are set, even to "".
	require.NoError(t, os.Unsetenv("PORT"))
	require.NoError(t, os.Unsetenv("API_KEY"))

	cfg := Load()

	assert.Equal(t, "dotenv-key", cfg.APIKey)
	assert.Equal(t, "7070", cfg.Port)
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8080", DatabasePath: "x.db", APIKey: "k"}
	assert.NoError(t, base.Validate())

	noKey := base
	noKey.APIKey = ""
	assert.Error(t, noKey.Validate())

	badPort := base
	badPort.Port = "http"
	assert.Error(t, badPort.Validate())
}

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "db"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db", "password"), []byte("  hunter2 \n"), 0o600))

	got, err := ReadSecret(dir, "db", "password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = ReadSecret(dir, "db", "missing")
	assert.Error(t, err)
}
