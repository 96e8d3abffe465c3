// Package config loads service configuration from a YAML file with
// environment overrides. Missing file falls back to defaults so the
// binary runs with nothing but GEMINI_API_KEY set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all smartcommerce configuration.
type Config struct {
	Name string `yaml:"name"`

	Gemini  GeminiConfig  `yaml:"gemini"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures the inference client. Temperature and token
// limits are injected here rather than embedded at call sites so the
// pipeline is testable without network access.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`

	Temperature      float64 `yaml:"temperature"`
	AnalyzeMaxTokens int     `yaml:"analyze_max_tokens"`
	DefaultMaxTokens int     `yaml:"default_max_tokens"`
}

// TimeoutDuration parses the configured timeout, defaulting to 60s.
func (g GeminiConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// ShutdownDuration parses the shutdown timeout, defaulting to 10s.
func (s ServerConfig) ShutdownDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ImportConfig configures the CSV drop-directory watcher.
type ImportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	WatchDir string `yaml:"watch_dir"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "smartcommerce",

		Gemini: GeminiConfig{
			BaseURL:          "https://generativelanguage.googleapis.com/v1beta",
			Model:            "gemini-2.5-flash",
			Timeout:          "60s",
			Temperature:      0.7,
			AnalyzeMaxTokens: 5000,
			DefaultMaxTokens: 2000,
		},

		Store: StoreConfig{
			DatabasePath: "data/smartcommerce.db",
		},

		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},

		Import: ImportConfig{
			Enabled:  false,
			WatchDir: "data/import",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file returns the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save persists the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if url := os.Getenv("GEMINI_BASE_URL"); url != "" {
		c.Gemini.BaseURL = url
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if path := os.Getenv("SMARTCOMMERCE_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if addr := os.Getenv("SMARTCOMMERCE_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("SMARTCOMMERCE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
