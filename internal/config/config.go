// Package config loads YAML-based harness configuration with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hubenschmidt/pceh/internal/logging"
)

// Config holds all harness configuration.
type Config struct {
	LLM               LLMConfig     `yaml:"llm"`
	Logging           LoggingConfig `yaml:"logging"`
	ProblemsDir       string        `yaml:"problems_dir"`
	HistoryDBPath     string        `yaml:"history_db_path"`
	DefaultWarmupRuns int           `yaml:"default_warmup_runs"`
	DefaultTemperature float64      `yaml:"default_temperature"`
}

// LLMConfig configures the Ollama-compatible structured-output client.
type LLMConfig struct {
	Host    string `yaml:"host"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses Timeout, defaulting to 30s on empty/invalid values.
func (c LLMConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds the logging section of pceh.yaml. The categorized
// file logger in internal/logging does not read it; that logger reads
// its settings from <workspace>/.pceh/config.json.
type LoggingConfig struct {
	Level      string          `yaml:"level"`
	DebugMode  bool            `yaml:"debug_mode"`
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration, grounded on the
// original's DefaultsConfig/OllamaConfig (warmup_runs: 2, temperature:
// 0.0, host: http://localhost:11434).
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Host:    "http://localhost:11434",
			Model:   "qwen2.5-coder:7b",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
		ProblemsDir:        "problems",
		HistoryDBPath:      "history.db",
		DefaultWarmupRuns:  2,
		DefaultTemperature: 0.0,
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("config loaded: host=%s model=%s", cfg.LLM.Host, cfg.LLM.Model)
	return cfg, nil
}

// Save writes configuration to a YAML file.
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

// applyEnvOverrides applies environment variable overrides for the LLM
// host (PCEH_OLLAMA_HOST) and model (PCEH_MODEL).
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("PCEH_OLLAMA_HOST"); host != "" {
		c.LLM.Host = host
	}
	if model := os.Getenv("PCEH_MODEL"); model != "" {
		c.LLM.Model = model
	}
}
