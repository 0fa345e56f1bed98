package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/pkg/iojson"
)

type StatsCmd struct {
	flags *Flags
	app   *kanban.App

	// flags
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *kanban.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show task counts per column",
		UsageText: "kanban stats [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	stats := kanban.ComputeStats(b, cmd.app.Boards.Now())
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, stats)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COLUMN\tTASKS\tOVERDUE")
	for _, col := range stats.Columns {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", col.Column, col.Count, col.Overdue)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t%d\t%d\n", stats.Total, stats.Overdue)
	return w.Flush()
}
