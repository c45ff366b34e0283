package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/quarry"
	"github.com/colonyops/quarry/internal/store/sqlite"
	"github.com/colonyops/quarry/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *quarry.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *quarry.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List computed metrics for all projects",
		UsageText: "quarry ls [--json]",
		Description: `Displays a table of every project recorded by 'quarry report' with its
language, file count, sizes, and comment counts.

Use --json for machine-readable output, one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	records, err := cmd.app.Metrics.List(ctx)
	if err != nil {
		return fmt.Errorf("list metrics: %w", err)
	}

	if len(records) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No metrics recorded; run 'quarry report' first\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, rec := range records {
			if err := iojson.WriteLine(out, cmd.buildProjectInfo(rec)); err != nil {
				return fmt.Errorf("encode project: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tLANGUAGE\tFILES\tSOURCE\tCOMMENTS\tDOC\tIMPL")

	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			rec.Name,
			rec.Language,
			rec.Metrics.SourceFiles,
			humanize.Bytes(uint64(rec.Metrics.SourceBytes)),
			humanize.Bytes(uint64(rec.Metrics.CommentBytes)),
			rec.Metrics.DocComments,
			rec.Metrics.ImplComments,
		)
	}

	return w.Flush()
}

// projectInfo is the JSON output format for quarry ls --json.
type projectInfo struct {
	Name         string `json:"name"`
	Language     string `json:"language"`
	SourceFiles  int    `json:"src_files"`
	SourceBytes  int64  `json:"src_file_size"`
	CommentBytes int64  `json:"comment_size"`
	DocComments  int    `json:"doc_comment"`
	ImplComments int    `json:"impl_comment"`
	UpdatedAt    string `json:"updated_at"`
}

func (cmd *LsCmd) buildProjectInfo(rec sqlite.Record) projectInfo {
	return projectInfo{
		Name:         rec.Name,
		Language:     rec.Language,
		SourceFiles:  rec.Metrics.SourceFiles,
		SourceBytes:  rec.Metrics.SourceBytes,
		CommentBytes: rec.Metrics.CommentBytes,
		DocComments:  rec.Metrics.DocComments,
		ImplComments: rec.Metrics.ImplComments,
		UpdatedAt:    rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
