package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskr/internal/core/styles"
	"github.com/colonyops/taskr/internal/taskr"
	"github.com/colonyops/taskr/pkg/iojson"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
)

type LsCmd struct {
	flags *Flags
	app   *taskr.App

	// flags
	filter     string
	format     string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *taskr.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List tasks",
		UsageText: "taskr ls [--filter all|active|completed] [--format table|markdown] [--json]",
		Description: `Displays the tasks visible under the chosen filter, in insertion order,
followed by a summary of the whole collection.

Overdue tasks are marked with "!". Use --json for one task object per line,
or --format markdown for a checklist.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Usage:       "which tasks to show (all, active, completed)",
				Value:       "all",
				Destination: &cmd.filter,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (table, markdown)",
				Value:       formatTable,
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	if err := cmd.app.Board.SetFilter(cmd.filter); err != nil {
		return err
	}

	view := cmd.app.Board.View()
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range view.Tasks {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	switch cmd.format {
	case formatTable:
		return cmd.writeTable(out, c.Root().ErrWriter, view)
	case formatMarkdown:
		return cmd.writeMarkdown(out, view)
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", cmd.format, formatTable, formatMarkdown)
	}
}

func (cmd *LsCmd) writeTable(out, errOut io.Writer, view taskr.BoardView) error {
	if len(view.Tasks) == 0 {
		_, _ = fmt.Fprintf(errOut, "No %s tasks\n", view.Filter.Label())
	} else {
		// Columns are aligned on plain text and styled afterwards, so escape
		// sequences and lipgloss tab expansion never reach the tabwriter.
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tDONE\tDUE\tTASK")
		rowStyles := []*lipgloss.Style{&styles.HeaderStyle}

		for _, t := range view.Tasks {
			box := styles.IconUnchecked
			if t.Completed {
				box = styles.IconChecked
			}
			due := t.FormattedDueDate
			if t.Overdue {
				due += " " + styles.IconOverdue
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(t.ID), box, due, t.Text)

			var rs *lipgloss.Style
			switch {
			case t.Completed:
				rs = &styles.TaskDoneStyle
			case t.Overdue:
				rs = &styles.OverdueStyle
			}
			rowStyles = append(rowStyles, rs)
		}

		if err := w.Flush(); err != nil {
			return err
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		for i, line := range lines {
			if i < len(rowStyles) && rowStyles[i] != nil {
				line = cmd.style(*rowStyles[i], line)
			}
			_, _ = fmt.Fprintln(out, line)
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cmd.style(styles.SummaryStyle, view.Summary.String()))
	return nil
}

// markdown renders the visible tasks as a GitHub-style checklist.
func markdown(view taskr.BoardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tasks (%s)\n\n", view.Filter.Label())
	for _, t := range view.Tasks {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", box, t.Text)
		if t.FormattedDueDate != "" {
			due := t.FormattedDueDate
			if t.Overdue {
				due = "**overdue " + due + "**"
			}
			fmt.Fprintf(&b, " _(due %s)_", due)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n", view.Summary.String())
	return b.String()
}

func (cmd *LsCmd) writeMarkdown(out io.Writer, view taskr.BoardView) error {
	doc := markdown(view)
	if !cmd.flags.Color {
		_, err := io.WriteString(out, doc)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}

func (cmd *LsCmd) style(s lipgloss.Style, text string) string {
	if !cmd.flags.Color {
		return text
	}
	return s.Render(text)
}
