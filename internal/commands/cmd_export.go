package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

type ExportCmd struct {
	flags *Flags
	app   *kanban.App

	// flags
	out string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *kanban.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export tasks as CSV",
		UsageText: "kanban export [--out FILE]",
		Description: `Writes every task as CSV with the header
id,status,tag,description,created_at,due_date.

Titles are not part of the format; importing uses the description as the
title. Output goes to stdout unless --out is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "file to write instead of stdout",
				Destination: &cmd.out,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	if cmd.out == "" {
		return cmd.app.Boards.Export(c.Root().Writer, b)
	}

	f, err := os.Create(cmd.out)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := cmd.app.Boards.Export(f, b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	printer.Ctx(ctx).Successf("Exported %d tasks to %s", b.Len(), cmd.out)
	return nil
}
