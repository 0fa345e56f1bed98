package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/styles"
	"github.com/hay-kot/kanban/internal/core/validate"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

type AddCmd struct {
	flags *Flags
	app   *kanban.App

	// flags
	title       string
	description string
	tags        []string
	due         string
	status      string

	// isTerminal reports whether the interactive form may be shown.
	isTerminal func() bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *kanban.App) *AddCmd {
	return &AddCmd{
		flags: flags,
		app:   app,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task to the board",
		UsageText: "kanban add [--title TITLE] [options]",
		Description: `Adds a task to the first column, or to the column named by --status.

Without --title an interactive form collects the task fields. The new task id
is printed on success.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "task title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "task description (markdown)",
				Destination: &cmd.description,
			},
			&cli.StringSliceFlag{
				Name:        "tag",
				Usage:       "tag to attach (repeatable, comma separated values allowed)",
				Destination: &cmd.tags,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date, e.g. 2025-03-14 or \"Mar 14 2025\"",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "column to add the task to",
				Destination: &cmd.status,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if strings.TrimSpace(cmd.title) == "" {
		if !cmd.isTerminal() {
			return fmt.Errorf("%w: --title is required when stdin is not a terminal", board.ErrInvalidInput)
		}
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	due, err := board.ParseDueDate(cmd.due)
	if err != nil {
		return err
	}

	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	if cmd.status != "" && !b.SelectColumn(cmd.status) {
		return fmt.Errorf("%w: unknown column %q (columns: %s)",
			board.ErrInvalidInput, cmd.status, strings.Join(b.Columns(), ", "))
	}

	task, ok := b.AddTask(cmd.title, cmd.description, cmd.tagList(), due)
	if !ok {
		return fmt.Errorf("%w: board has no columns", board.ErrInvalidInput)
	}

	if err := saveBoard(ctx, cmd.app, b); err != nil {
		return err
	}

	log.Info().Str("task", task.ID).Str("column", task.Status()).Msg("task added")
	p.Successf("Added %q to %s", task.Title, task.Status())
	_, _ = fmt.Fprintln(c.Root().Writer, task.ID)
	return nil
}

func (cmd *AddCmd) tagList() []string {
	var tags []string
	for _, t := range cmd.tags {
		tags = append(tags, board.SplitTags(t)...)
	}
	return board.NormalizeTags(tags)
}

func (cmd *AddCmd) runForm() error {
	var tagInput string
	columns := cmd.app.Config.Columns
	if cmd.status == "" && len(columns) > 0 {
		cmd.status = columns[0]
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validate.Title).
				Value(&cmd.title),
			huh.NewText().
				Title("Description").
				Description("Markdown is rendered in the task view").
				Value(&cmd.description),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&tagInput),
			huh.NewInput().
				Title("Due date").
				Description("Leave blank for none").
				Validate(validate.DueDate).
				Value(&cmd.due),
			huh.NewSelect[string]().
				Title("Column").
				Options(huh.NewOptions(columns...)...).
				Value(&cmd.status),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return err
	}

	if tagInput != "" {
		cmd.tags = append(cmd.tags, tagInput)
	}
	return nil
}
