package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/core/styles"
	"github.com/colonyops/quarry/internal/quarry"
)

type ConfigCmd struct {
	flags *Flags
	app   *quarry.App
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags, app *quarry.App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "quarry config validate",
				Description: `Checks the loaded configuration beyond structural validation: every
language must map to a registered dialect, ignore globs must be valid
patterns, and directories must be usable.`,
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Config.ValidateDeep(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, styles.Success.Render("Config OK"))
	return nil
}
