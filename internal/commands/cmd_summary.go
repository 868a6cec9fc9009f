package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/pkg/iojson"
)

type SummaryCmd struct {
	flags *Flags
	app   *taskr.App

	// flags
	jsonOutput bool
}

// NewSummaryCmd creates a new summary command
func NewSummaryCmd(flags *Flags, app *taskr.App) *SummaryCmd {
	return &SummaryCmd{flags: flags, app: app}
}

// Register adds the summary command to the application
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Show active, completed, and total counts",
		UsageText: "taskr summary [--json]",
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

func (cmd *SummaryCmd) run(_ context.Context, c *cli.Command) error {
	summary := task.Summarize(cmd.app.Store.Tasks())

	if cmd.jsonOutput {
		return iojson.WriteLine(c.Root().Writer, summary)
	}

	_, err := fmt.Fprintln(c.Root().Writer, summary.String())
	return err
}
