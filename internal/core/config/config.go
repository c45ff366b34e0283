// Package config handles configuration loading and validation for quarry.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Language maps a project language to the file suffix it is discovered by
// and the comment dialect used to scan it.
type Language struct {
	Suffix  string `yaml:"suffix"`
	Dialect string `yaml:"dialect"`
}

// Database holds settings for the metrics database.
type Database struct {
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// Config holds the application configuration.
type Config struct {
	Workers   int                 `yaml:"workers"`
	CacheDir  string              `yaml:"cache_dir"`
	Ignore    []string            `yaml:"ignore"`
	Languages map[string]Language `yaml:"languages"`
	Database  Database            `yaml:"database"`
	DataDir   string              `yaml:"-"` // set by caller, not from config file
}

// defaultLanguages covers the dialects that ship with quarry. Languages not
// listed here are skipped at extraction time with a warning.
var defaultLanguages = map[string]Language{
	"Java":       {Suffix: ".java", Dialect: "clike"},
	"JavaScript": {Suffix: ".js", Dialect: "clike"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:   8,
		Languages: map[string]Language{},
		Database: Database{
			BusyTimeoutMS: 5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user languages into defaults (user config overrides defaults)
	cfg.Languages = mergeLanguages(defaultLanguages, cfg.Languages)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = defaults.Database.BusyTimeoutMS
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(c.DataDir, "comment_data")
	}
}

// mergeLanguages merges user language entries into defaults.
// User entries override defaults for the same language name.
func mergeLanguages(defaults, user map[string]Language) map[string]Language {
	result := make(map[string]Language, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}

// DatabasePath returns the metrics database location inside the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "quarry.db")
}

// BusyTimeout returns the database busy timeout as a duration.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeoutMS) * time.Millisecond
}
