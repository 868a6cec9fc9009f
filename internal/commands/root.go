package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/taskr"
)

// NewRoot builds the taskr command tree without lifecycle hooks. main adds
// Before/After; docgen uses the tree as is.
func NewRoot(flags *Flags, app *taskr.App) *cli.Command {
	root := &cli.Command{
		Name:      "taskr",
		Usage:     "A small personal task board",
		UsageText: "taskr [global options] command [command options]",
		Description: `taskr keeps a list of tasks with optional due dates, persisted locally.

Run 'taskr' with no arguments to open the interactive board.
Run 'taskr add <text>' to add a task from the shell.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKR_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskr.log)",
				Sources:     cli.EnvVars("TASKR_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKR_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKR_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "ephemeral",
				Usage:       "keep tasks in memory only for this run",
				Sources:     cli.EnvVars("TASKR_EPHEMERAL"),
				Destination: &flags.Ephemeral,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = NewAddCmd(flags, app).Register(root)
	root = NewLsCmd(flags, app).Register(root)
	root = NewToggleCmd(flags, app).Register(root)
	root = NewRmCmd(flags, app).Register(root)
	root = NewSummaryCmd(flags, app).Register(root)
	root = NewImportCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)
	root = NewDbCmd(flags, app).Register(root)
	root = tuiCmd.Register(root)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskr --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
