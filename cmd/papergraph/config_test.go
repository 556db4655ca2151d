package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rendis/papergraph/pkg/cpapers"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points HOME at a fresh directory and clears every
// variable loadConfig consults, so ambient shell state cannot leak
// into the assertions.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		cpapers.EnvAPIKey,
		s2.EnvAPIKey,
		"PAPERGRAPH_API_KEY",
		"PAPERGRAPH_S2_API_KEY",
		"PAPERGRAPH_BASE_URL",
		"PAPERGRAPH_S2_BASE_URL",
		"PAPERGRAPH_TIMEOUT",
		"PAPERGRAPH_LOG_LEVEL",
		"PAPERGRAPH_LOG_FORMAT",
		"PAPERGRAPH_POOL_SIZE",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeSettings(t *testing.T, home, doc string) {
	t.Helper()
	dir := filepath.Join(home, ".papergraph")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(doc), 0o600))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, cpapers.TestToken, cfg.APIKey)
	assert.Empty(t, cfg.S2APIKey)
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Zero(t, cfg.timeout())
}

func TestLoadConfig_SettingsFile(t *testing.T) {
	home := isolateEnv(t)
	writeSettings(t, home, `{
		"api_key": "file-key",
		"timeout": "45s",
		"log_format": "json",
		"pool_size": 8
	}`)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.timeout())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.PoolSize)
	assert.Equal(t, "info", cfg.LogLevel, "untouched fields keep their defaults")
}

func TestLoadConfig_EnvOverridesSettings(t *testing.T) {
	home := isolateEnv(t)
	writeSettings(t, home, `{"api_key": "file-key", "base_url": "https://settings.example.com"}`)

	t.Setenv(cpapers.EnvAPIKey, "native-key")
	t.Setenv("PAPERGRAPH_BASE_URL", "https://env.example.com")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "native-key", cfg.APIKey)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestLoadConfig_ToolVariableBeatsNative(t *testing.T) {
	isolateEnv(t)
	t.Setenv(cpapers.EnvAPIKey, "native-key")
	t.Setenv("PAPERGRAPH_API_KEY", "tool-key")
	t.Setenv(s2.EnvAPIKey, "s2-native")
	t.Setenv("PAPERGRAPH_S2_API_KEY", "s2-tool")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "tool-key", cfg.APIKey)
	assert.Equal(t, "s2-tool", cfg.S2APIKey)
}

func TestLoadConfig_RejectsInvalidSettings(t *testing.T) {
	home := isolateEnv(t)
	writeSettings(t, home, `{"api_keyy": "oops"}`)

	_, err := loadConfig()
	require.Error(t, err)

	var perr *schema.PapergraphError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, schema.ErrCodeValidation, perr.Code)
	assert.Contains(t, err.Error(), "settings.json")
}

func TestLoadConfig_IgnoresMalformedEnvValues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PAPERGRAPH_TIMEOUT", "soonish")
	t.Setenv("PAPERGRAPH_POOL_SIZE", "lots")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.Timeout)
	assert.Equal(t, 4, cfg.PoolSize)
}

func TestConfigTimeout(t *testing.T) {
	assert.Zero(t, Config{}.timeout())
	assert.Equal(t, 90*time.Second, Config{Timeout: "90s"}.timeout())
	assert.Zero(t, Config{Timeout: "whenever"}.timeout())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}
