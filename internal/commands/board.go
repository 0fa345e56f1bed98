package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

// openBoard loads the board and prints any recovery warnings.
func openBoard(ctx context.Context, app *kanban.App) (*board.Board, error) {
	b, warnings, err := app.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	p := printer.Ctx(ctx)
	for _, w := range warnings {
		p.Warnf("%s", w)
	}
	return b, nil
}

func saveBoard(ctx context.Context, app *kanban.App, b *board.Board) error {
	if err := app.Boards.Save(ctx, b); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}
