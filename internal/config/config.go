// Package config loads exporter configuration from a YAML file, merging it
// over built-in defaults. Environment variables and CLI flags are applied
// on top by the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where configuration is looked up unless overridden.
const DefaultConfigPath = ".whimsical-exporter/config.yaml"

// HistoryConfig represents run-history store configuration
type HistoryConfig struct {
	// Enabled enables recording finished runs to the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents exporter configuration options
type Config struct {
	// BaseURL is the remote service base URL all identifiers are rooted at
	BaseURL string `yaml:"base_url"`

	// OutputDir is the local directory the remote tree is mirrored into
	OutputDir string `yaml:"output_dir"`

	// Formats is the comma-separated export format set (svg, png, pdf)
	Formats string `yaml:"formats"`

	// Timeout bounds each remote navigation or element wait
	Timeout time.Duration `yaml:"timeout"`

	// PaginationWait bounds each lazy-pagination round
	PaginationWait time.Duration `yaml:"pagination_wait"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// Headful makes the underlying browser visible for diagnosis
	Headful bool `yaml:"headful"`

	// History contains run-history store configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://whimsical.com",
		OutputDir:      "export",
		Formats:        "svg",
		Timeout:        30 * time.Second,
		PaginationWait: 1 * time.Second,
		LogLevel:       "info",
		LogDir:         ".whimsical-exporter/logs",
		Headful:        false,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  ".whimsical-exporter/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML through a temporary struct so duration fields accept
	// human-readable strings ("30s", "1500ms").
	type yamlHistory struct {
		Enabled *bool  `yaml:"enabled"`
		DBPath  string `yaml:"db_path"`
	}
	type yamlConfig struct {
		BaseURL        string      `yaml:"base_url"`
		OutputDir      string      `yaml:"output_dir"`
		Formats        string      `yaml:"formats"`
		Timeout        string      `yaml:"timeout"`
		PaginationWait string      `yaml:"pagination_wait"`
		LogLevel       string      `yaml:"log_level"`
		LogDir         string      `yaml:"log_dir"`
		Headful        bool        `yaml:"headful"`
		History        yamlHistory `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.BaseURL != "" {
		cfg.BaseURL = yamlCfg.BaseURL
	}
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.Formats != "" {
		cfg.Formats = yamlCfg.Formats
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.PaginationWait != "" {
		wait, err := time.ParseDuration(yamlCfg.PaginationWait)
		if err != nil {
			return nil, fmt.Errorf("invalid pagination_wait format %q: %w", yamlCfg.PaginationWait, err)
		}
		cfg.PaginationWait = wait
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	// Headful is explicitly set if present in YAML
	if yamlCfg.Headful {
		cfg.Headful = yamlCfg.Headful
	}
	if yamlCfg.History.Enabled != nil {
		cfg.History.Enabled = *yamlCfg.History.Enabled
	}
	if yamlCfg.History.DBPath != "" {
		cfg.History.DBPath = yamlCfg.History.DBPath
	}

	return cfg, nil
}

// Environment variable names the exporter honors. Each overrides the
// corresponding config file value; CLI flags override both.
const (
	EnvEmail     = "WHIMSICAL_EMAIL"
	EnvPassword  = "WHIMSICAL_PASSWORD"
	EnvFolderURL = "WHIMSICAL_FOLDER_URL"
	EnvFormats   = "WHIMSICAL_FORMATS"
	EnvOutputDir = "WHIMSICAL_OUTPUT_DIR"
	EnvBaseURL   = "WHIMSICAL_BASE_URL"
)

// ApplyEnv overlays environment variables onto the config. Credentials and
// the starting folder live outside Config (they are per-run inputs, not
// configuration) and are read by the command layer directly.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFormats); v != "" {
		c.Formats = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}
