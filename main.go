package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/commands"
	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/core/logging"
	"github.com/hay-kot/kanban/internal/core/styles"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
	"github.com/hay-kot/kanban/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

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
		logCloser func()
		kanbanApp = &kanban.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "kanban",
		Usage:     "A personal kanban board for the terminal",
		UsageText: "kanban [global options] command [command options]",
		Description: `kanban keeps a single board of tasks in a local file and lets you move them
between columns from an interactive view or from scripts.

Run 'kanban' with no arguments to open the board.
Run 'kanban init' to write a default configuration.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("KANBAN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/kanban.log)",
				Sources:     cli.EnvVars("KANBAN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (.yaml or .toml)",
				Sources:     cli.EnvVars("KANBAN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("KANBAN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file so the TUI output stays clean
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			opened, err := kanban.NewApp(cfg, log.Logger)
			if err != nil {
				return ctx, fmt.Errorf("open storage: %w", err)
			}
			*kanbanApp = *opened

			if name := c.Args().First(); name != "" {
				ctx = logging.WithCommand(ctx, name)
			}
			ctx = printer.NewContext(ctx, printer.New(os.Stderr))
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := kanbanApp.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close storage")
				return err
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, kanbanApp)

	app = tuiCmd.Register(app)
	app = commands.NewInitCmd(flags, kanbanApp).Register(app)
	app = commands.NewAddCmd(flags, kanbanApp).Register(app)
	app = commands.NewMoveCmd(flags, kanbanApp).Register(app)
	app = commands.NewLsCmd(flags, kanbanApp).Register(app)
	app = commands.NewTagsCmd(flags, kanbanApp).Register(app)
	app = commands.NewStatsCmd(flags, kanbanApp).Register(app)
	app = commands.NewExportCmd(flags, kanbanApp).Register(app)
	app = commands.NewImportCmd(flags, kanbanApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'kanban --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
