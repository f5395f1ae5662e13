package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story-analyzer/internal/transform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORY_API_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("FRONTEND_URL", "")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultGraphQLPath, cfg.API.GraphQLPath)
	assert.Equal(t, 0, cfg.API.TimeoutSeconds)
	assert.Equal(t, transform.PolicyDashList, cfg.Policy())
	assert.Equal(t, BackendFile, cfg.Settings.Backend)
	assert.NotEmpty(t, cfg.Settings.Path)
	assert.Equal(t, DefaultOutputDir, cfg.Processing.OutputDir)
	assert.Equal(t, DefaultOutputPrefix, cfg.Processing.OutputPrefix)
	assert.Equal(t, DefaultSessionIdle, cfg.Server.SessionIdleMinutes)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://analysis.example.com/
  timeout_seconds: 30
analysis:
  suggestion_policy: additional
settings:
  backend: memory
server:
  addr: ":9000"
  session_idle_minutes: 15
processing:
  output_prefix: sprint-12
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://analysis.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, transform.PolicyAdditional, cfg.Policy())
	assert.Equal(t, BackendMemory, cfg.Settings.Backend)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 15, cfg.Server.SessionIdleMinutes)
	assert.Equal(t, "sprint-12", cfg.Processing.OutputPrefix)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORY_API_URL", "http://api.internal:8080")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FRONTEND_URL", "http://ui.internal")
	path := writeConfig(t, `
api:
  base_url: http://ignored:8000
settings:
  backend: redis
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Settings.RedisURL)
	assert.Equal(t, []string{"http://ui.internal"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "api: [unclosed"},
		{"bad scheme", "api:\n  base_url: ftp://host\n"},
		{"negative timeout", "api:\n  timeout_seconds: -1\n"},
		{"bad policy", "analysis:\n  suggestion_policy: blob\n"},
		{"redis without url", "settings:\n  backend: redis\n"},
		{"unknown backend", "settings:\n  backend: etcd\n"},
		{"negative session idle", "server:\n  session_idle_minutes: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}
