package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/core/validate"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/pkg/iojson"
)

// ImportTask is a single task to add.
type ImportTask struct {
	Text    string `json:"text"`
	DueDate string `json:"dueDate,omitempty"`
}

// ImportInput is the JSON document read by the import command.
type ImportInput struct {
	Tasks []ImportTask `json:"tasks"`
}

// Validate checks every task before any is added.
func (in ImportInput) Validate() error {
	if len(in.Tasks) == 0 {
		return fmt.Errorf("tasks array is empty")
	}

	errs := make([]error, 0, len(in.Tasks)*2)
	for i, t := range in.Tasks {
		errs = append(errs,
			validate.TaskTextField(fmt.Sprintf("tasks[%d].text", i), t.Text),
			criterio.Run(fmt.Sprintf("tasks[%d].dueDate", i), t.DueDate, validate.DueDate),
		)
	}
	return criterio.ValidateStruct(errs...)
}

// ImportResult reports one added task.
type ImportResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ImportCmd struct {
	flags *Flags
	app   *taskr.App

	// flags
	jsonOutput bool
	reader     iojson.FileReader[ImportInput]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *taskr.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Add tasks from a JSON document",
		UsageText: "taskr import [-f file] [--json]",
		Description: `Adds every task in a JSON document, in order. The whole document is
validated before anything is added.

Input format:
  {"tasks": [{"text": "Buy milk"}, {"text": "Pay rent", "dueDate": "2026-03-01"}]}

Reads from stdin when -f is not provided.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the added tasks as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "import")

	input, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	p := printer.Ctx(ctx)
	for _, it := range input.Tasks {
		due, err := validate.ParseDueDate(it.DueDate)
		if err != nil {
			return err
		}

		added, ok, err := cmd.app.Board.Add(ctx, it.Text, due)
		if err != nil {
			return fmt.Errorf("add %q: %w", it.Text, err)
		}
		if !ok {
			continue
		}

		if cmd.jsonOutput {
			if err := iojson.WriteLine(c.Root().Writer, ImportResult{ID: added.ID, Text: added.Text}); err != nil {
				return err
			}
			continue
		}
		p.Successf("added %s %s", shortID(added.ID), added.Text)
	}

	return nil
}
