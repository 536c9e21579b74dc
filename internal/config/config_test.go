package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://whimsical.com", cfg.BaseURL)
	assert.Equal(t, "export", cfg.OutputDir)
	assert.Equal(t, "svg", cfg.Formats)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1*time.Second, cfg.PaginationWait)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Headful)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, ".whimsical-exporter/history.db", cfg.History.DBPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "missing config file should fall back to defaults")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	content := `
output_dir: /data/boards
formats: svg,png
timeout: 45s
pagination_wait: 1500ms
log_level: debug
headful: true
history:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/boards", cfg.OutputDir)
	assert.Equal(t, "svg,png", cfg.Formats)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.PaginationWait)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Headful)
	assert.False(t, cfg.History.Enabled)

	// Unset fields keep their defaults.
	assert.Equal(t, "https://whimsical.com", cfg.BaseURL)
	assert.Equal(t, ".whimsical-exporter/history.db", cfg.History.DBPath)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formats: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad timeout", content: "timeout: soon"},
		{name: "bad pagination wait", content: "pagination_wait: 1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvFormats, "pdf")
	t.Setenv(EnvOutputDir, "/env/out")
	t.Setenv(EnvBaseURL, "https://staging.whimsical.test")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "pdf", cfg.Formats)
	assert.Equal(t, "/env/out", cfg.OutputDir)
	assert.Equal(t, "https://staging.whimsical.test", cfg.BaseURL)
}

func TestApplyEnvEmptyValuesIgnored(t *testing.T) {
	t.Setenv(EnvFormats, "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "svg", cfg.Formats)
}
