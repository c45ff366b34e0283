package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults when config missing", func(t *testing.T) {
		dataDir := t.TempDir()

		cfg, err := Load(filepath.Join(dataDir, "missing.yaml"), dataDir)
		require.NoError(t, err)

		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, filepath.Join(dataDir, "comment_data"), cfg.CacheDir)
		assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
		assert.Equal(t, ".java", cfg.Languages["Java"].Suffix)
		assert.Equal(t, "clike", cfg.Languages["JavaScript"].Dialect)
	})

	t.Run("file overrides defaults and merges languages", func(t *testing.T) {
		dataDir := t.TempDir()
		configPath := filepath.Join(dataDir, "config.yaml")
		content := `
workers: 2
ignore:
  - "vendor/**"
languages:
  Groovy:
    suffix: .groovy
    dialect: clike
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

		cfg, err := Load(configPath, dataDir)
		require.NoError(t, err)

		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)
		assert.Equal(t, ".groovy", cfg.Languages["Groovy"].Suffix)
		// Defaults survive the merge.
		assert.Equal(t, ".java", cfg.Languages["Java"].Suffix)
	})

	t.Run("invalid workers rejected", func(t *testing.T) {
		dataDir := t.TempDir()
		configPath := filepath.Join(dataDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("workers: -3\n"), 0o644))

		_, err := Load(configPath, dataDir)
		assert.ErrorContains(t, err, "workers")
	})

	t.Run("bad suffix rejected", func(t *testing.T) {
		dataDir := t.TempDir()
		configPath := filepath.Join(dataDir, "config.yaml")
		content := "languages:\n  Bad:\n    suffix: java\n    dialect: clike\n"
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

		_, err := Load(configPath, dataDir)
		assert.ErrorContains(t, err, "suffix")
	})
}

func TestValidateDeep(t *testing.T) {
	t.Run("unknown dialect flagged", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Languages = map[string]Language{
			"Fortran": {Suffix: ".f90", Dialect: "fixedform"},
		}
		cfg.applyDefaults()

		err := cfg.ValidateDeep()
		require.Error(t, err)
		assert.ErrorContains(t, err, "fixedform")
	})

	t.Run("bad ignore glob flagged", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Languages = defaultLanguages
		cfg.Ignore = []string{"[unclosed"}
		cfg.applyDefaults()

		err := cfg.ValidateDeep()
		require.Error(t, err)
		assert.ErrorContains(t, err, "ignore[0]")
	})

	t.Run("valid config passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Languages = defaultLanguages
		cfg.Ignore = []string{"vendor/**", "**/test/**"}
		cfg.applyDefaults()

		assert.NoError(t, cfg.ValidateDeep())
	})
}
