package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *kanban.App

	// flags
	jsonOutput bool
	tag        string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *kanban.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List all tasks",
		UsageText: "kanban ls [--json] [--tag name]",
		Description: `Displays a table of all tasks grouped by column in board order.

Use --json for one JSON object per task and --tag to list only tasks
carrying that tag.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "tag",
				Usage:       "only list tasks with this tag",
				Destination: &cmd.tag,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	tasks := cmd.filter(b.Tasks())

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, newTaskInfo(t)); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	dateFormat := cmd.app.Config.DateFormat

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tID\tTITLE\tTAGS\tDUE")

	// b.Tasks is in column order, so rows stay grouped by column
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(dateFormat)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.Status(), t.ShortID(), t.Title, strings.Join(t.Tags, ","), due)
	}

	return w.Flush()
}

func (cmd *LsCmd) filter(tasks []board.Task) []board.Task {
	tag := strings.TrimSpace(cmd.tag)
	if tag == "" {
		return tasks
	}
	return slices.DeleteFunc(tasks, func(t board.Task) bool { return !t.HasTag(tag) })
}

// taskInfo is the JSON output format for kanban ls --json.
type taskInfo struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func newTaskInfo(t board.Task) taskInfo {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskInfo{
		ID:          t.ID,
		Status:      t.Status(),
		Title:       t.Title,
		Description: t.Description,
		Tags:        tags,
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
	}
}
