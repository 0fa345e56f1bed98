package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/kanban"
)

type TagsCmd struct {
	flags *Flags
	app   *kanban.App
}

// NewTagsCmd creates a new tags command
func NewTagsCmd(flags *Flags, app *kanban.App) *TagsCmd {
	return &TagsCmd{flags: flags, app: app}
}

// Register adds the tags command to the application
func (cmd *TagsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tags",
		Usage:     "List the tags in use",
		UsageText: "kanban tags",
		Action:    cmd.run,
	})
	return app
}

func (cmd *TagsCmd) run(ctx context.Context, c *cli.Command) error {
	b, err := openBoard(ctx, cmd.app)
	if err != nil {
		return err
	}

	for _, tag := range kanban.Tags(b) {
		_, _ = fmt.Fprintln(c.Root().Writer, tag)
	}
	return nil
}
