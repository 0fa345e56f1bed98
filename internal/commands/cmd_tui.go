package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/core/logging"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
	"github.com/hay-kot/kanban/internal/store/jsonfile"
	"github.com/hay-kot/kanban/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *kanban.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *kanban.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive board",
		UsageText: "kanban tui",
		Description: `Opens the board in the terminal. The board is saved when you quit.

This is also what runs when kanban is called without a command.`,
		Action: cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	// anything printed while the board owns the screen is replayed on exit
	deferred := &printer.Deferred{}
	defer func() { _ = deferred.Flush(os.Stderr) }()
	ctx = printer.NewContext(ctx, printer.New(deferred))

	b, warnings, err := cmd.app.Open(ctx)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events <-chan jsonfile.FileEvent
	if cmd.app.Config.Storage == config.StorageJSON {
		events, err = cmd.app.WatchBoard(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("board file watcher unavailable")
			printer.Ctx(ctx).Warnf("changes made by other programs will not be picked up: %v", err)
		}
	}

	m := tui.New(b, tui.Options{
		Config:   cmd.app.Config,
		Store:    cmd.app.Boards,
		Path:     cmd.app.Boards.Path(),
		Warnings: warnings,
		Events:   events,
		Now:      cmd.app.Boards.Now,
		Logger:   logging.Component("tui"),
	})

	finalModel, runErr := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	if model, ok := finalModel.(tui.Model); ok {
		if err := saveBoard(ctx, cmd.app, model.Board()); err != nil {
			p.Warnf("board was not saved: %v", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return nil
}
