package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
	"github.com/hay-kot/kanban/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *kanban.App
	input *iojson.FileReader[any]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *kanban.App) *ImportCmd {
	return &ImportCmd{
		flags: flags,
		app:   app,
		input: iojson.NewFileReader[any]("path to CSV file (reads from stdin if not provided)"),
	}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import tasks from CSV",
		UsageText: "kanban import [--file FILE]",
		Description: `Merges tasks from a CSV file produced by 'kanban export' into the board.

Tasks whose id is already on the board are skipped. Statuses that match no
column add a new column at the end of the board. Nothing is changed if any
row is invalid.`,
		Flags:  []cli.Flag{cmd.input.Flag()},
		Action: cmd.run,
	})
	return app
}

func (cmd *ImportCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	r, err := cmd.input.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	res, err := cmd.app.Boards.Import(r, b)
	if err != nil {
		return err
	}

	if len(res.Added) == 0 {
		p.Infof("Nothing to import (%d already on the board)", len(res.Skipped))
		return nil
	}

	if err := saveBoard(ctx, cmd.app, b); err != nil {
		return err
	}

	for _, col := range res.NewColumns {
		p.Warnf("Added column %q for imported tasks; it is not in the config", col)
	}
	p.Successf("Imported %d tasks, skipped %d", len(res.Added), len(res.Skipped))
	return nil
}
