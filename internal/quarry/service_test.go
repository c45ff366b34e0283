package quarry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quarry/internal/core/config"
	"github.com/colonyops/quarry/internal/core/metrics"
	"github.com/colonyops/quarry/internal/core/projects"
	"github.com/colonyops/quarry/internal/store/jsonfile"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)
	return cfg
}

func writeProject(t *testing.T, corpusDir, name string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(corpusDir, name, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func loadTable(t *testing.T, csv string) *projects.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	table, err := projects.Load(path)
	require.NoError(t, err)
	return table
}

func TestExtractService(t *testing.T) {
	ctx := context.Background()

	t.Run("pipeline walks dedupes scans and persists", func(t *testing.T) {
		cfg := testConfig(t)
		corpusDir := t.TempDir()
		writeProject(t, corpusDir, "demo", map[string]string{
			"Main.java":          "/**doc*/\nclass Main {} // impl\n",
			"copy/DupMain.java":  "/**doc*/\nclass Main {} // impl\n",
			"Other.java":         "/* block */ class Other {}\n",
			"README.md":          "not source",
			"scripts/build.ding": "also not source",
		})

		store := jsonfile.NewArtifactStore(cfg.CacheDir)
		svc := NewExtractService(cfg, store, zerolog.Nop(), &bytes.Buffer{})
		table := loadTable(t, "name,language\ndemo,Java\n")

		results, err := svc.Run(ctx, table, corpusDir, 2)
		require.NoError(t, err)
		require.Len(t, results, 1)

		res := results[0]
		assert.Equal(t, StatusProcessed, res.Status)
		assert.Equal(t, 3, res.FilesRead)
		assert.Equal(t, 2, res.FilesUnique)

		m, err := store.Load("demo")
		require.NoError(t, err)
		require.Len(t, m, 2)

		agg := metrics.Aggregate(m)
		assert.Equal(t, 2, agg.SourceFiles)
		assert.Equal(t, 1, agg.DocComments)
		assert.Equal(t, 2, agg.ImplComments)
	})

	t.Run("resume skips cached projects and leaves artifact unchanged", func(t *testing.T) {
		cfg := testConfig(t)
		corpusDir := t.TempDir()
		writeProject(t, corpusDir, "demo", map[string]string{
			"Main.java": "// only comment\n",
		})

		store := jsonfile.NewArtifactStore(cfg.CacheDir)
		svc := NewExtractService(cfg, store, zerolog.Nop(), &bytes.Buffer{})
		table := loadTable(t, "name,language\ndemo,Java\n")

		first, err := svc.Run(ctx, table, corpusDir, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, first[0].Status)

		before, err := os.ReadFile(store.Path("demo"))
		require.NoError(t, err)

		// Remove the corpus entirely: a true skip performs no file reads,
		// so extraction must still succeed.
		require.NoError(t, os.RemoveAll(filepath.Join(corpusDir, "demo")))

		second, err := svc.Run(ctx, table, corpusDir, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusSkippedCached, second[0].Status)

		after, err := os.ReadFile(store.Path("demo"))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown language is skipped with warning", func(t *testing.T) {
		cfg := testConfig(t)
		store := jsonfile.NewArtifactStore(cfg.CacheDir)

		var out bytes.Buffer
		svc := NewExtractService(cfg, store, zerolog.Nop(), &out)
		table := loadTable(t, "name,language\nlegacy,COBOL\n")

		results, err := svc.Run(ctx, table, t.TempDir(), 1)
		require.NoError(t, err)
		assert.Equal(t, StatusSkippedLanguage, results[0].Status)
		assert.False(t, store.Has("legacy"))
		assert.Contains(t, out.String(), "COBOL")
	})

	t.Run("projects run independently across workers", func(t *testing.T) {
		cfg := testConfig(t)
		corpusDir := t.TempDir()
		for _, name := range []string{"alpha", "beta", "gamma"} {
			writeProject(t, corpusDir, name, map[string]string{
				"Main.java": "// " + name + "\n",
			})
		}

		store := jsonfile.NewArtifactStore(cfg.CacheDir)
		svc := NewExtractService(cfg, store, zerolog.Nop(), &bytes.Buffer{})
		table := loadTable(t, "name,language\nalpha,Java\nbeta,Java\ngamma,Java\n")

		results, err := svc.Run(ctx, table, corpusDir, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		for i, name := range []string{"alpha", "beta", "gamma"} {
			assert.Equal(t, name, results[i].Project)
			assert.Equal(t, StatusProcessed, results[i].Status)
			assert.True(t, store.Has(name))
		}
	})

	t.Run("cancelled context fails remaining projects", func(t *testing.T) {
		cfg := testConfig(t)
		store := jsonfile.NewArtifactStore(cfg.CacheDir)
		svc := NewExtractService(cfg, store, zerolog.Nop(), &bytes.Buffer{})
		table := loadTable(t, "name,language\ndemo,Java\n")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// An already-cancelled slot acquisition may still race the
		// semaphore, but the run itself must report the cancellation.
		results, err := svc.Run(cancelled, table, t.TempDir(), 1)
		require.Len(t, results, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWorkerPool(t *testing.T) {
	t.Run("bounds concurrency", func(t *testing.T) {
		pool := NewWorkerPool(2)

		var mu sync.Mutex
		active, peak := 0, 0

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pool.Run(func() {
					mu.Lock()
					active++
					if active > peak {
						peak = active
					}
					mu.Unlock()

					time.Sleep(5 * time.Millisecond)

					mu.Lock()
					active--
					mu.Unlock()
				})
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, peak, 2)
		assert.Greater(t, peak, 0)
	})

	t.Run("run context honours cancellation", func(t *testing.T) {
		pool := NewWorkerPool(1)
		pool.Acquire()
		defer pool.Release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := pool.RunContext(ctx, func() { t.Fatal("must not run") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
