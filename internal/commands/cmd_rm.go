package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
)

type RmCmd struct {
	flags *Flags
	app   *taskr.App
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *taskr.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a task",
		UsageText: "taskr rm <id>",
		Description: `Removes a task permanently. The id may be any unique prefix shown by
"taskr ls". An unknown id changes nothing.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: taskr rm <id>")
	}

	ref := c.Args().Get(0)
	id := resolveRef(c, cmd.app, ref)
	ctx = logging.WithTaskID(logging.WithCommand(ctx, "rm"), id)

	t, _ := cmd.app.Store.Tasks().Get(id)
	deleted, err := cmd.app.Board.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		printer.Ctx(ctx).Successf("deleted %s %s", shortID(t.ID), t.Text)
	}
	return nil
}
