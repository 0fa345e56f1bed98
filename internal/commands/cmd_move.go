package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

type MoveCmd struct {
	flags *Flags
	app   *kanban.App

	// flags
	back bool
}

// NewMoveCmd creates a new move command
func NewMoveCmd(flags *Flags, app *kanban.App) *MoveCmd {
	return &MoveCmd{flags: flags, app: app}
}

// Register adds the move command to the application
func (cmd *MoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "move",
		Usage:     "Move a task to the next column",
		UsageText: "kanban move <id> [--back]",
		Description: `Moves a task one column forward, or backward with --back. The id may be
any unique prefix, such as the short id shown by 'kanban ls'.

Moving past the first or last column leaves the task where it is.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "back",
				Aliases:     []string{"b"},
				Usage:       "move to the previous column",
				Destination: &cmd.back,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("%w: task id is required", board.ErrInvalidInput)
	}

	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	task, err := findTask(b, id)
	if err != nil {
		return err
	}

	dir := board.Forward
	if cmd.back {
		dir = board.Backward
	}

	b.SelectTask(task.ID)
	if !b.MoveTask(dir) {
		p.Infof("%s is already in the %s column", task.ShortID(), task.Status())
		return nil
	}

	if err := saveBoard(ctx, cmd.app, b); err != nil {
		return err
	}

	p.Successf("Moved %s from %s to %s", task.ShortID(), task.Status(), b.SelectedColumn())
	_, _ = fmt.Fprintln(c.Root().Writer, b.SelectedColumn())
	return nil
}

// findTask resolves an id or unique id prefix to a task.
func findTask(b *board.Board, id string) (board.Task, error) {
	if t, ok := b.Task(id); ok {
		return t, nil
	}

	var matches []board.Task
	for _, t := range b.Tasks() {
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return board.Task{}, fmt.Errorf("%w: task %q", board.ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return board.Task{}, fmt.Errorf("%w: %q matches %d tasks", board.ErrInvalidInput, id, len(matches))
	}
}
