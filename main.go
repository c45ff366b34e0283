package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quarry/internal/commands"
	"github.com/colonyops/quarry/internal/core/config"
	"github.com/colonyops/quarry/internal/quarry"
	"github.com/colonyops/quarry/internal/store/jsonfile"
	"github.com/colonyops/quarry/internal/store/sqlite"
	"github.com/colonyops/quarry/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser    func()
		quarryApp    = &quarry.App{}
		metricsStore *sqlite.MetricsStore
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "quarry",
		Usage:     "Mine a corpus of software projects for comment metrics",
		UsageText: "quarry [global options] command [command options]",
		Description: `Quarry ingests a CSV of projects, locates each project's source files,
removes byte-identical duplicates, extracts block and line comments with
exact byte offsets, and reduces the results to per-project metrics.

Run 'quarry extract' to build per-project cache artifacts, then
'quarry report' to aggregate them back into the CSV.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("QUARRY_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/quarry.log)",
				Sources:     cli.EnvVars("QUARRY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUARRY_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("QUARRY_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/quarry.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "quarry.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			artifacts := jsonfile.NewArtifactStore(cfg.CacheDir)

			metricsStore, err = sqlite.Open(cfg.DatabasePath(), cfg.BusyTimeout())
			if err != nil {
				return ctx, fmt.Errorf("open metrics database: %w", err)
			}

			svcLogger := log.With().Str("component", "extract").Logger()
			extractor := quarry.NewExtractService(cfg, artifacts, svcLogger, os.Stdout)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*quarryApp = *quarry.NewApp(cfg, artifacts, metricsStore, extractor)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if metricsStore != nil {
				if err := metricsStore.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close metrics database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewExtractCmd(flags, quarryApp).Register(app)
	app = commands.NewReportCmd(flags, quarryApp).Register(app)
	app = commands.NewLsCmd(flags, quarryApp).Register(app)
	app = commands.NewPruneCmd(flags, quarryApp).Register(app)
	app = commands.NewConfigCmd(flags, quarryApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
