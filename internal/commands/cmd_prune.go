package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/core/styles"
	"github.com/colonyops/quarry/internal/quarry"
	"github.com/colonyops/quarry/internal/store/jsonfile"
)

type PruneCmd struct {
	flags *Flags
	app   *quarry.App

	// flags
	project string
}

// NewPruneCmd creates a new prune command
func NewPruneCmd(flags *Flags, app *quarry.App) *PruneCmd {
	return &PruneCmd{flags: flags, app: app}
}

// Register adds the prune command to the application
func (cmd *PruneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prune",
		Usage:     "Delete cache artifacts so projects are reprocessed",
		UsageText: "quarry prune [--project NAME]",
		Description: `Removes per-project cache artifacts. The next 'quarry extract' run will
reprocess pruned projects from scratch.

Without --project, every artifact is removed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "prune only the named project",
				Destination: &cmd.project,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PruneCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if cmd.project != "" {
		if err := cmd.app.Artifacts.Delete(cmd.project); err != nil {
			if errors.Is(err, jsonfile.ErrNotFound) {
				return fmt.Errorf("no cache artifact for %s", cmd.project)
			}
			return fmt.Errorf("prune %s: %w", cmd.project, err)
		}
		fmt.Fprintln(out, styles.Warning.Render(fmt.Sprintf("Pruned %s", cmd.project)))
		return nil
	}

	names, err := cmd.app.Artifacts.List()
	if err != nil {
		return fmt.Errorf("list artifacts: %w", err)
	}

	for _, name := range names {
		if err := cmd.app.Artifacts.Delete(name); err != nil {
			return fmt.Errorf("prune %s: %w", name, err)
		}
		fmt.Fprintln(out, styles.Warning.Render(fmt.Sprintf("Pruned %s", name)))
	}

	fmt.Fprintln(out, styles.Bold.Render(fmt.Sprintf("Removed %d artifact(s)", len(names))))
	return nil
}
