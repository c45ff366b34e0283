package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/quarry/internal/core/scan"
	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("database.busy_timeout_ms cannot be negative")
	}

	for name, lang := range c.Languages {
		if !strings.HasPrefix(lang.Suffix, ".") {
			return fmt.Errorf("languages[%s].suffix must start with '.', got %q", name, lang.Suffix)
		}
		if lang.Dialect == "" {
			return fmt.Errorf("languages[%s].dialect cannot be empty", name)
		}
	}

	return nil
}

// ValidateDeep performs comprehensive validation including dialect
// registration, glob syntax, and directory accessibility. This calls
// Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep() error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateDialects(),
		c.validateIgnoreGlobs(),
		criterio.Run("cache_dir", c.CacheDir, isDirectoryOrNotExist),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// validateDialects checks every configured language maps to a registered
// scan dialect.
func (c *Config) validateDialects() error {
	var errs criterio.FieldErrorsBuilder
	for name, lang := range c.Languages {
		if _, err := scan.ForName(lang.Dialect); err != nil {
			errs = errs.Append(fmt.Sprintf("languages[%s].dialect", name), err)
		}
	}
	return errs.ToError()
}

// validateIgnoreGlobs checks ignore patterns are valid doublestar globs.
func (c *Config) validateIgnoreGlobs() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("ignore[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
