package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/data/stores"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *taskr.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *taskr.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive task board (default)",
		Action: cmd.run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "tui")
	cfg := cmd.app.Config

	deps := tui.Deps{
		Board: cmd.app.Board,
		Bus:   cmd.app.Bus,
	}

	if dir := cmd.app.WatchDir(); dir != "" && cfg.TUI.Watch {
		w, err := stores.NewWatcher(dir, logging.Component("watcher"))
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("live reload disabled")
		} else {
			defer func() { _ = w.Close() }()
			deps.Changes = w.Events()
		}
	}

	// Anything written to stderr while the alt screen is up would corrupt
	// the frame; hold it until the program exits.
	deferred := &printer.DeferredWriter{}
	errWriter := c.Root().ErrWriter
	c.Root().ErrWriter = deferred
	defer func() {
		c.Root().ErrWriter = errWriter
		_ = deferred.Flush(errWriter)
	}()

	m := tui.New(ctx, deps, tui.Opts{ShowHelp: cfg.TUI.ShowHelp})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
