package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.7, cfg.Gemini.Temperature)
	assert.Equal(t, 5000, cfg.Gemini.AnalyzeMaxTokens)
	assert.Equal(t, 2000, cfg.Gemini.DefaultMaxTokens)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"gemini:\n  model: gemini-exp\n  temperature: 0.2\nserver:\n  addr: \":9999\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-exp", cfg.Gemini.Model)
	assert.Equal(t, 0.2, cfg.Gemini.Temperature)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	// Untouched sections keep their defaults.
	assert.Equal(t, 5000, cfg.Gemini.AnalyzeMaxTokens)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  model: from-file\n"), 0644))

	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_MODEL", "from-env")
	t.Setenv("SMARTCOMMERCE_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "from-env", cfg.Gemini.Model)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestTimeoutDefaults(t *testing.T) {
	assert.Equal(t, 60*time.Second, GeminiConfig{}.TimeoutDuration())
	assert.Equal(t, 30*time.Second, GeminiConfig{Timeout: "30s"}.TimeoutDuration())
	assert.Equal(t, 60*time.Second, GeminiConfig{Timeout: "bogus"}.TimeoutDuration())

	assert.Equal(t, 10*time.Second, ServerConfig{}.ShutdownDuration())
	assert.Equal(t, 5*time.Second, ServerConfig{ShutdownTimeout: "5s"}.ShutdownDuration())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Gemini.Model = "gemini-custom"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-custom", loaded.Gemini.Model)
}
