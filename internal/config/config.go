/*
Package config handles loading and saving devscout configuration.

Settings live in ~/.devscout.json:

	{
	  "resultsDir": "results",
	  "provider": "openai",
	  "model": "gpt-4o-mini",
	  "concurrency": 3,
	  "retentionDays": 90
	}

API keys (OPENAI_API_KEY, ANTHROPIC_API_KEY, FIRECRAWL_API_KEY) come from
the environment; LoadEnv picks up a local .env file when present.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultResultsDir    = "results"
	DefaultProvider      = "openai"
	DefaultConcurrency   = 3
	DefaultRetentionDays = 90
)

// Config is the root configuration structure.
type Config struct {
	// ResultsDir is where exports are written.
	ResultsDir string `json:"resultsDir,omitempty"`

	// Provider selects the LLM provider (openai or anthropic).
	Provider string `json:"provider,omitempty"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// Concurrency bounds parallel candidate research.
	Concurrency int `json:"concurrency,omitempty"`

	// HistoryDB overrides the history database path.
	HistoryDB string `json:"historyDb,omitempty"`

	// RetentionDays is how long saved sessions are kept before cleanup.
	// Negative keeps them forever.
	RetentionDays int `json:"retentionDays,omitempty"`
}

// LoadEnv loads a .env file from the working directory if one exists.
// A missing file is not an error; explicit environment wins either way.
func LoadEnv() {
	_ = godotenv.Load()
}

// Path returns the config file location (~/.devscout.json).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".devscout.json"), nil
}

// Load reads the config file, applying defaults for anything unset.
// A missing file yields pure defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	path, err := Path()
	if err == nil {
		data, readErr := os.ReadFile(path)
		switch {
		case readErr == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config %s: %w", path, err)
			}
		case !os.IsNotExist(readErr):
			return nil, fmt.Errorf("failed to read config: %w", readErr)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file with restrictive permissions.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ResultsDir == "" {
		c.ResultsDir = DefaultResultsDir
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = DefaultRetentionDays
	}
}
