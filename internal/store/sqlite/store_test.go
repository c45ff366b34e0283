package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/quarry/internal/core/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *MetricsStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "quarry.db"), 5*time.Second)
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMetricsStore(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert and get", func(t *testing.T) {
		store := openTestStore(t)

		rec := Record{
			Name:     "guava",
			Language: "Java",
			Metrics: metrics.ProjectMetrics{
				SourceFiles:  10,
				SourceBytes:  5000,
				CommentBytes: 1200,
				DocComments:  4,
				ImplComments: 9,
			},
		}
		require.NoError(t, store.Upsert(ctx, rec), "Upsert")

		got, err := store.Get(ctx, "guava")
		require.NoError(t, err, "Get")
		assert.Equal(t, rec.Name, got.Name)
		assert.Equal(t, rec.Language, got.Language)
		assert.Equal(t, rec.Metrics, got.Metrics)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("get not found", func(t *testing.T) {
		store := openTestStore(t)

		_, err := store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert overwrites prior metrics", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, store.Upsert(ctx, Record{
			Name: "guava", Language: "Java",
			Metrics: metrics.ProjectMetrics{SourceFiles: 1},
		}))
		require.NoError(t, store.Upsert(ctx, Record{
			Name: "guava", Language: "Java",
			Metrics: metrics.ProjectMetrics{SourceFiles: 7, DocComments: 2},
		}))

		got, err := store.Get(ctx, "guava")
		require.NoError(t, err)
		assert.Equal(t, 7, got.Metrics.SourceFiles)
		assert.Equal(t, 2, got.Metrics.DocComments)

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("list ordered by name", func(t *testing.T) {
		store := openTestStore(t)

		for _, name := range []string{"lodash", "guava", "moment"} {
			require.NoError(t, store.Upsert(ctx, Record{Name: name, Language: "Java"}))
		}

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "guava", records[0].Name)
		assert.Equal(t, "lodash", records[1].Name)
		assert.Equal(t, "moment", records[2].Name)
	})
}
