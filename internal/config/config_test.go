package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CHRONOS_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CHRONOS_AI_PROVIDER", "")
	t.Setenv("CHRONOS_SIMULATION", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 30, cfg.Weather.CacheTTLMinutes)
	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, "chronos.db", cfg.Storage.Path)
	assert.False(t, cfg.Weather.Simulation)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	t.Setenv("CHRONOS_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CHRONOS_AI_PROVIDER", "")
	t.Setenv("CHRONOS_SIMULATION", "")

	path := filepath.Join(t.TempDir(), "chronos.yaml")
	content := `
ai:
  provider: openai
  model: gpt-4o-mini
  base_url: http://localhost:11434
weather:
  simulation: true
  cache_ttl_minutes: 5
server:
  addr: ":9000"
storage:
  path: /tmp/plans.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "http://localhost:11434", cfg.AI.BaseURL)
	assert.True(t, cfg.Weather.Simulation)
	assert.Equal(t, 5, cfg.Weather.CacheTTLMinutes)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/plans.db", cfg.Storage.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHRONOS_API_KEY", "env-key")
	t.Setenv("CHRONOS_AI_PROVIDER", "openai")
	t.Setenv("CHRONOS_SIMULATION", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.True(t, cfg.Weather.Simulation)
}

func TestLoadConfig_GeminiKeyFallback(t *testing.T) {
	t.Setenv("CHRONOS_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("CHRONOS_AI_PROVIDER", "")
	t.Setenv("CHRONOS_SIMULATION", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
