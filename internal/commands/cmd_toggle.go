package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
)

type ToggleCmd struct {
	flags *Flags
	app   *taskr.App
}

// NewToggleCmd creates a new toggle command
func NewToggleCmd(flags *Flags, app *taskr.App) *ToggleCmd {
	return &ToggleCmd{flags: flags, app: app}
}

// Register adds the toggle command to the application
func (cmd *ToggleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "toggle",
		Aliases:   []string{"done"},
		Usage:     "Flip a task between active and completed",
		UsageText: "taskr toggle <id>",
		Description: `Flips the completion state of a task. The id may be any unique prefix
shown by "taskr ls". An unknown id changes nothing.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ToggleCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: taskr toggle <id>")
	}

	ref := c.Args().Get(0)
	id := resolveRef(c, cmd.app, ref)
	ctx = logging.WithTaskID(logging.WithCommand(ctx, "toggle"), id)

	toggled, ok, err := cmd.app.Board.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	state := "reopened"
	if toggled.Completed {
		state = "completed"
	}
	printer.Ctx(ctx).Successf("%s %s %s", state, shortID(toggled.ID), toggled.Text)
	return nil
}

// resolveRef expands a unique id prefix to the full id. When ref names no
// single task it reports on stderr and returns ref unchanged so the store
// treats it as an unknown id.
func resolveRef(c *cli.Command, app *taskr.App, ref string) string {
	t, n := app.Store.Resolve(ref)
	switch {
	case n == 1:
		return t.ID
	case n > 1:
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "ambiguous id %q matches %d tasks\n", ref, n)
	default:
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "no task matches %q\n", ref)
	}
	return ref
}
