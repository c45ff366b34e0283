package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/core/metrics"
	"github.com/colonyops/quarry/internal/core/projects"
	"github.com/colonyops/quarry/internal/core/styles"
	"github.com/colonyops/quarry/internal/quarry"
	"github.com/colonyops/quarry/internal/store/jsonfile"
	"github.com/colonyops/quarry/internal/store/sqlite"
)

type ReportCmd struct {
	flags *Flags
	app   *quarry.App
}

// NewReportCmd creates a new report command
func NewReportCmd(flags *Flags, app *quarry.App) *ReportCmd {
	return &ReportCmd{flags: flags, app: app}
}

// Register adds the report command to the application
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Aggregate cache artifacts into project metrics",
		UsageText: "quarry report <projects.csv>",
		Description: `Reduces every project's cache artifact to metric columns (source file
count, source bytes, comment bytes, doc and implementation comment
counts), writes them back into the CSV, and records them in the local
metrics database for 'quarry ls'.

Run strictly after 'quarry extract' has finished. Projects without a
cache artifact keep -1 in their metric columns.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected <projects.csv> argument. Run 'quarry report --help' for usage")
	}
	csvPath := c.Args().First()

	table, err := projects.Load(csvPath)
	if err != nil {
		return fmt.Errorf("load project list: %w", err)
	}
	table.EnsureMetricColumns()

	out := c.Root().Writer
	list := table.Projects()

	for i, project := range list {
		fmt.Fprintf(out, "\r%d/%d Projects", i+1, len(list))

		commentMap, err := cmd.app.Artifacts.Load(project.Name)
		if err != nil {
			if errors.Is(err, jsonfile.ErrNotFound) {
				log.Warn().Str("project", project.Name).Msg("no cache artifact, leaving -1 metrics")
				continue
			}
			return fmt.Errorf("load artifact for %s: %w", project.Name, err)
		}

		m := metrics.Aggregate(commentMap)
		if err := table.SetMetrics(project.Index, m); err != nil {
			return fmt.Errorf("set metrics for %s: %w", project.Name, err)
		}

		if err := cmd.app.Metrics.Upsert(ctx, sqlite.Record{
			Name:      project.Name,
			Language:  project.Language,
			Metrics:   m,
			UpdatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("store metrics for %s: %w", project.Name, err)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, styles.Success.Render("Writing results to CSV..."))
	if err := table.Save(csvPath); err != nil {
		return fmt.Errorf("write project list: %w", err)
	}

	fmt.Fprintln(out, styles.Success.Render("Finished!"))
	return nil
}
