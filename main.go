package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/taskr/internal/commands"
	"github.com/colonyops/taskr/internal/core/config"
	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/logging"
	"github.com/colonyops/taskr/internal/core/styles"
	"github.com/colonyops/taskr/internal/printer"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		taskrApp  = &taskr.App{}
	)

	flags := &commands.Flags{}

	app := commands.NewRoot(flags, taskrApp)
	app.Version = build()
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Always log to a file; use explicit path or default to <datadir>/taskr.log
		logFile := flags.LogFile
		if logFile == "" {
			logFile = filepath.Join(flags.DataDir, "taskr.log")
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger.Hook(logging.ContextHook{})
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.TUI.Theme)
		styles.SetTheme(palette)

		flags.Color = term.IsTerminal(int(os.Stdout.Fd()))
		ctx = printer.NewContext(ctx, printer.New(c.Root().Writer, flags.Color))

		bus := eventbus.New()
		eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

		opened, err := taskr.Open(ctx, cfg, taskr.Options{
			Ephemeral: flags.Ephemeral,
			Logger:    logging.Component("store"),
			Bus:       bus,
			Stderr:    c.Root().ErrWriter,
		})
		if err != nil {
			return ctx, fmt.Errorf("open task store: %w", err)
		}

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*taskrApp = *opened

		log.Debug().
			Str("backend", taskrApp.Backend).
			Str("data_dir", cfg.DataDir).
			Msg("task store ready")

		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if err := taskrApp.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close task store")
			return err
		}

		// Close log file
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
