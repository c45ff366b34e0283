package quarry

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/quarry/internal/core/config"
	"github.com/colonyops/quarry/internal/core/corpus"
	"github.com/colonyops/quarry/internal/core/projects"
	"github.com/colonyops/quarry/internal/core/scan"
	"github.com/colonyops/quarry/internal/core/styles"
	"github.com/colonyops/quarry/internal/store/jsonfile"
)

// Status classifies the outcome of one project's extraction.
type Status string

const (
	StatusProcessed       Status = "processed"
	StatusSkippedCached   Status = "skipped-cached"
	StatusSkippedLanguage Status = "skipped-language"
	StatusFailed          Status = "failed"
)

// Result is the outcome of processing one project.
type Result struct {
	Project     string
	Language    string
	Status      Status
	FilesRead   int
	FilesUnique int
	Err         error
}

// ExtractService runs the per-project extraction pipeline:
// walk -> dedupe -> scan -> persist cache artifact.
type ExtractService struct {
	cfg       *config.Config
	artifacts *jsonfile.ArtifactStore
	logger    zerolog.Logger
	out       io.Writer
}

// NewExtractService creates an extraction service. Status lines are
// written to out; structured logs go to the logger.
func NewExtractService(cfg *config.Config, artifacts *jsonfile.ArtifactStore, logger zerolog.Logger, out io.Writer) *ExtractService {
	return &ExtractService{
		cfg:       cfg,
		artifacts: artifacts,
		logger:    logger,
		out:       out,
	}
}

// Run processes every project in the table against corpusDir, each in its
// own worker bounded by the pool. Workers share no mutable state: each
// owns its comment map and writes its own artifact, so results are safe
// to collect positionally. Returns one Result per project in table order.
func (s *ExtractService) Run(ctx context.Context, table *projects.Table, corpusDir string, workers int) ([]Result, error) {
	list := table.Projects()
	results := make([]Result, len(list))

	pool := NewWorkerPool(workers)
	var wg sync.WaitGroup

	for i, project := range list {
		wg.Add(1)
		go func(i int, project projects.Project) {
			defer wg.Done()

			err := pool.RunContext(ctx, func() {
				results[i] = s.processProject(project, corpusDir)
			})
			if err != nil {
				results[i] = Result{
					Project:  project.Name,
					Language: project.Language,
					Status:   StatusFailed,
					Err:      err,
				}
			}
		}(i, project)
	}

	wg.Wait()
	return results, ctx.Err()
}

// processProject is the unit of work for one worker. An existing cache
// artifact means the project is already done and all work is skipped, so
// a crashed run resumes where it left off.
func (s *ExtractService) processProject(project projects.Project, corpusDir string) Result {
	result := Result{Project: project.Name, Language: project.Language}

	if s.artifacts.Has(project.Name) {
		result.Status = StatusSkippedCached
		s.statusf(styles.Warning, "Skipping %s because the data already exists...", project.Name)
		return result
	}

	lang, ok := s.cfg.Languages[project.Language]
	var dialect scan.Dialect
	if ok {
		var err error
		dialect, err = scan.ForName(lang.Dialect)
		if err != nil {
			ok = false
		}
	}
	if !ok {
		result.Status = StatusSkippedLanguage
		s.statusf(styles.Error, "Warning: no dialect for language %s, skipping %s...", project.Language, project.Name)
		return result
	}

	s.statusf(styles.Success, "%d: Processing %s...", project.Index, project.Name)

	root := filepath.Join(corpusDir, project.Name)
	files := corpus.Walk(root, lang.Suffix, s.cfg.Ignore)
	unique := corpus.Dedupe(files)

	result.FilesRead = len(files)
	result.FilesUnique = len(unique)
	fmt.Fprintf(s.out, "Read %d source files in which %d files are unique...\n", len(files), len(unique))

	scanner := scan.NewScanner(dialect, s.logger.With().Str("project", project.Name).Logger())
	comments := scanner.ScanFiles(unique)

	if err := s.artifacts.Save(project.Name, comments); err != nil {
		result.Status = StatusFailed
		result.Err = err
		s.logger.Error().Err(err).Str("project", project.Name).Msg("failed to save artifact")
		return result
	}

	result.Status = StatusProcessed
	s.logger.Info().
		Str("project", project.Name).
		Int("files_read", result.FilesRead).
		Int("files_unique", result.FilesUnique).
		Msg("project extracted")
	return result
}

func (s *ExtractService) statusf(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(s.out, style.Render(fmt.Sprintf(format, args...)))
}
