package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
)

// DbCmd holds maintenance commands for the sqlite backend. It is hidden from
// help output.
type DbCmd struct {
	flags *Flags
	app   *taskr.App

	// flags
	steps int
}

// NewDbCmd creates a new db command
func NewDbCmd(flags *Flags, app *taskr.App) *DbCmd {
	return &DbCmd{flags: flags, app: app}
}

// Register adds the db command to the application
func (cmd *DbCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "db",
		Usage:  "Inspect and roll back the sqlite schema",
		Hidden: true,
		Commands: []*cli.Command{
			{
				Name:      "version",
				Usage:     "Print the applied schema version",
				UsageText: "taskr db version",
				Action:    cmd.runVersion,
			},
			{
				Name:      "migrate-down",
				Usage:     "Revert the most recent schema migrations",
				UsageText: "taskr db migrate-down [--steps n]",
				Description: `Reverts applied migrations newest first. The next taskr invocation
migrates the schema back up, so this is only useful for testing migrations.`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runMigrateDown,
			},
		},
	})

	return app
}

func (cmd *DbCmd) runVersion(ctx context.Context, c *cli.Command) error {
	version, err := cmd.app.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Root().Writer, version)
	return err
}

func (cmd *DbCmd) runMigrateDown(ctx context.Context, _ *cli.Command) error {
	version, err := cmd.app.MigrateDown(ctx, cmd.steps)
	if err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("schema now at version %d", version)
	return nil
}
