package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskr/internal/core/eventbus"
	"github.com/colonyops/taskr/internal/core/styles"
	"github.com/colonyops/taskr/internal/core/task"
	"github.com/colonyops/taskr/internal/taskr"
)

func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		"",
		m.renderList(),
	}

	if m.mode != modeList {
		sections = append(sections, "", m.renderInput())
	}

	if status := m.renderStatus(); status != "" {
		sections = append(sections, "", status)
	}

	if m.showHelp {
		var helpView string
		if m.mode != modeList {
			helpView = m.help.View(m.inputKeys)
		} else {
			helpView = m.help.View(m.keys)
		}
		sections = append(sections, "", helpView)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m Model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Tasks"),
		styles.SummaryStyle.Render(m.view.Summary.String()),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(task.Filters()))
	for i, f := range task.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == m.view.Filter {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList() string {
	if len(m.view.Tasks) == 0 {
		msg := "No tasks yet. Press a to add one."
		if m.view.Filter != task.FilterAll {
			msg = fmt.Sprintf("No %s tasks.", m.view.Filter)
		}
		return styles.HelpStyle.Render(msg)
	}

	rows := make([]string, 0, len(m.view.Tasks))
	for i, t := range m.view.Tasks {
		rows = append(rows, renderRow(t, i == m.cursor && m.mode == modeList))
	}
	return strings.Join(rows, "\n")
}

func renderRow(t taskr.TaskView, selected bool) string {
	cursor := " "
	if selected {
		cursor = styles.IconCursor
	}

	box := styles.CheckboxOpenStyle.Render(styles.IconUnchecked)
	text := styles.TaskTextStyle.Render(t.Text)
	if t.Completed {
		box = styles.CheckboxDoneStyle.Render(styles.IconChecked)
		text = styles.TaskDoneStyle.Render(t.Text)
	} else if selected {
		text = styles.TaskSelectedStyle.Render(t.Text)
	}

	row := fmt.Sprintf("%s %s %s", cursor, box, text)

	switch {
	case t.Overdue:
		row += "  " + styles.OverdueStyle.Render(t.FormattedDueDate+" "+styles.IconOverdue)
	case t.FormattedDueDate != "":
		row += "  " + styles.DueDateStyle.Render(t.FormattedDueDate)
	}

	return row
}

func (m Model) renderInput() string {
	label := "New task"
	if m.mode == modeAddDue {
		label = fmt.Sprintf("Due date for %q", m.draftText)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.PromptLabelStyle.Render(label),
		styles.PromptStyle.Render(m.input.View()),
	)
}

func (m Model) renderStatus() string {
	if m.status.Message == "" {
		return ""
	}
	if m.status.Level == eventbus.LevelWarning {
		return styles.StatusWarningStyle.Render(m.status.Message)
	}
	return styles.StatusInfoStyle.Render(m.status.Message)
}
