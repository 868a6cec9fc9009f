package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/core/validate"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
)

type AddCmd struct {
	flags *Flags
	app   *taskr.App

	// flags
	due string

	// interactive reports whether the form may be shown. Replaced in tests.
	interactive func() bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *taskr.App) *AddCmd {
	return &AddCmd{
		flags: flags,
		app:   app,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "taskr add [--due YYYY-MM-DD] <text...>",
		Description: `Appends a new active task. Words are joined with single spaces and the
result is trimmed; blank text adds nothing.

Without text, and when stdin is a terminal, an interactive form asks for the
text and an optional due date.

Examples:
  taskr add Buy milk
  taskr add --due 2026-03-01 "File quarterly taxes"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "add")
	p := printer.Ctx(ctx)

	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" && cmd.interactive() {
		if err := cmd.runForm(&text); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	due, err := validate.ParseDueDate(cmd.due)
	if err != nil {
		return err
	}

	added, ok, err := cmd.app.Board.Add(ctx, text, due)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	p.Successf("added %s %s", shortID(added.ID), added.Text)
	return nil
}

func (cmd *AddCmd) runForm(text *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Description("What needs doing?").
				Validate(validate.TaskText).
				Value(text),
			huh.NewInput().
				Title("Due date").
				Description("Optional, YYYY-MM-DD").
				Placeholder("YYYY-MM-DD").
				Validate(validate.DueDate).
				Value(&cmd.due),
		),
	).Run()
}
