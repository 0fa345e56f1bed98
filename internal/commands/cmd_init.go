package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/core/styles"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

type InitCmd struct {
	flags *Flags
	app   *kanban.App
	yes   bool
	force bool
}

func NewInitCmd(flags *Flags, app *kanban.App) *InitCmd {
	return &InitCmd{flags: flags, app: app}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a default configuration and create the board",
		UsageText: "kanban init [options]",
		Description: `Writes the default configuration to the config path and creates an empty
board if none exists.

An existing config is only replaced after confirmation. Use --yes to skip
prompts and --force to overwrite an existing config.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	path := cmd.flags.ConfigPath

	if fileExists(path) && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			WithTheme(styles.FormTheme()).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	backup, err := writeConfig(path)
	if err != nil {
		return err
	}
	if backup != "" {
		p.Infof("Previous config saved to %s", backup)
	}
	p.Successf("Wrote config to %s", path)

	boardPath := cmd.app.Boards.Path()
	if fileExists(boardPath) && cmd.app.Config.Storage == config.StorageJSON {
		p.Infof("Using existing board at %s", boardPath)
		return nil
	}

	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}
	if err := saveBoard(ctx, cmd.app, b); err != nil {
		return err
	}
	p.Successf("Board ready at %s", boardPath)
	return nil
}

// writeConfig writes the default config to path, moving an existing file to
// path.bak first. It returns the backup path, if any.
func writeConfig(path string) (string, error) {
	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	var backup string
	if fileExists(path) {
		backup = path + ".bak"
		if err := os.Rename(path, backup); err != nil {
			return "", fmt.Errorf("back up config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backup, fmt.Errorf("write config: %w", err)
	}
	return backup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
