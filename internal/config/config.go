// Package config loads digestsim configuration from the workspace dot-dir
// (.digestsim/config.yaml), applying defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all digestsim configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// AI assistant configuration
	AI AIConfig `yaml:"ai"`

	// Reactor modeling conventions
	Reactor ReactorConfig `yaml:"reactor"`

	// Run-history store
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AIConfig configures the recommendation service client.
type AIConfig struct {
	Provider     string `yaml:"provider"` // gemini
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	Timeout      string `yaml:"timeout"`
	EnableSearch bool   `yaml:"enable_search"`
}

// ReactorConfig holds modeling conventions that are deliberate choices, not
// physical law. GasHeadspaceFraction sizes the gas phase as a fraction of
// liquid volume.
type ReactorConfig struct {
	GasHeadspaceFraction float64 `yaml:"gas_headspace_fraction"`
}

// StoreConfig configures run-history persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "digestsim",
		Version: "1.0.0",

		AI: AIConfig{
			Provider:     "gemini",
			Model:        "gemini-2.0-pro-exp-02-05",
			BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
			Timeout:      "120s",
			EnableSearch: true,
		},

		Reactor: ReactorConfig{
			GasHeadspaceFraction: 0.10,
		},

		Store: StoreConfig{
			DatabasePath: filepath.Join(".digestsim", "runs.db"),
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
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

// LoadWorkspace loads the config for a workspace directory.
func LoadWorkspace(workspace string) (*Config, error) {
	return Load(filepath.Join(workspace, ".digestsim", "config.yaml"))
}

// Save writes the configuration to a YAML file.
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

// applyEnvOverrides applies environment variable overrides. The API key from
// the environment wins over the file so the secret never has to live on disk.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
		if c.AI.Provider == "" {
			c.AI.Provider = "gemini"
		}
	}
	if model := os.Getenv("DIGESTSIM_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if url := os.Getenv("DIGESTSIM_AI_BASE_URL"); url != "" {
		c.AI.BaseURL = url
	}
}

// AIEnabled reports whether AI assistance can run. A missing credential
// disables the feature; manual and default-parameter simulation are
// unaffected.
func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}

// AITimeout parses the configured AI call timeout, falling back to two
// minutes on a bad or missing value.
func (c *Config) AITimeout() time.Duration {
	d, err := time.ParseDuration(c.AI.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
