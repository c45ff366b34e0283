package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/core/projects"
	"github.com/colonyops/quarry/internal/core/styles"
	"github.com/colonyops/quarry/internal/quarry"
)

type ExtractCmd struct {
	flags *Flags
	app   *quarry.App

	// flags
	workers int
}

// NewExtractCmd creates a new extract command
func NewExtractCmd(flags *Flags, app *quarry.App) *ExtractCmd {
	return &ExtractCmd{flags: flags, app: app}
}

// Register adds the extract command to the application
func (cmd *ExtractCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "extract",
		Usage:     "Extract comment data for every project in the corpus",
		UsageText: "quarry extract [--workers N] <projects.csv> <corpus-dir>",
		Description: `Reads the project list and, for each project, walks its source tree,
removes byte-identical duplicate files, extracts comments, and writes a
per-project JSON cache artifact.

Projects whose cache artifact already exists are skipped, so an
interrupted run can be resumed by running the same command again.
Use 'quarry prune' to force reprocessing.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "number of projects processed in parallel (defaults to config)",
				Destination: &cmd.workers,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExtractCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <projects.csv> and <corpus-dir> arguments. Run 'quarry extract --help' for usage")
	}

	csvPath := c.Args().Get(0)
	corpusDir := c.Args().Get(1)

	if info, err := os.Stat(corpusDir); err != nil || !info.IsDir() {
		return fmt.Errorf("corpus dir %s is not a directory", corpusDir)
	}

	table, err := projects.Load(csvPath)
	if err != nil {
		return fmt.Errorf("load project list: %w", err)
	}

	workers := cmd.workers
	if workers <= 0 {
		workers = cmd.app.Config.Workers
	}

	results, err := cmd.app.Extractor.Run(ctx, table, corpusDir, workers)
	if err != nil {
		return fmt.Errorf("extract corpus: %w", err)
	}

	var processed, cached, skipped, failed int
	for _, res := range results {
		switch res.Status {
		case quarry.StatusProcessed:
			processed++
		case quarry.StatusSkippedCached:
			cached++
		case quarry.StatusSkippedLanguage:
			skipped++
		case quarry.StatusFailed:
			failed++
			fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("failed %s: %v", res.Project, res.Err)))
		}
	}

	out := c.Root().Writer
	fmt.Fprintln(out, styles.Bold.Render(fmt.Sprintf(
		"%d processed, %d cached, %d skipped, %d failed", processed, cached, skipped, failed)))

	if failed > 0 {
		return fmt.Errorf("%d project(s) failed", failed)
	}
	return nil
}
