// Package quarry wires the extraction pipeline together.
package quarry

import (
	"github.com/colonyops/quarry/internal/core/config"
	"github.com/colonyops/quarry/internal/store/jsonfile"
	"github.com/colonyops/quarry/internal/store/sqlite"
)

// App bundles the shared dependencies commands operate on.
type App struct {
	Config    *config.Config
	Artifacts *jsonfile.ArtifactStore
	Metrics   *sqlite.MetricsStore
	Extractor *ExtractService
}

// NewApp creates a new application container.
func NewApp(cfg *config.Config, artifacts *jsonfile.ArtifactStore, metricsStore *sqlite.MetricsStore, extractor *ExtractService) *App {
	return &App{
		Config:    cfg,
		Artifacts: artifacts,
		Metrics:   metricsStore,
		Extractor: extractor,
	}
}
