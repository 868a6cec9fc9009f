// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	DividerStyle lipgloss.Style

	// Board styles shared by the ls table and the TUI.
	TitleStyle         lipgloss.Style
	SummaryStyle       lipgloss.Style
	TabActiveStyle     lipgloss.Style
	TabInactiveStyle   lipgloss.Style
	TaskTextStyle      lipgloss.Style
	TaskDoneStyle      lipgloss.Style
	TaskSelectedStyle  lipgloss.Style
	CheckboxDoneStyle  lipgloss.Style
	CheckboxOpenStyle  lipgloss.Style
	DueDateStyle       lipgloss.Style
	OverdueStyle       lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusWarningStyle lipgloss.Style
	HelpStyle          lipgloss.Style

	// Input prompt styles.
	PromptStyle      lipgloss.Style
	PromptLabelStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	SummaryStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	TabActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Primary).
		Foreground(p.Background).
		Bold(true)
	TabInactiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Muted)

	TaskTextStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	TaskDoneStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Strikethrough(true)
	TaskSelectedStyle = lipgloss.NewStyle().
		Background(p.Surface)

	CheckboxDoneStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	CheckboxOpenStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	DueDateStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	OverdueStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	StatusWarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Primary).
		PaddingLeft(1)
	PromptLabelStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
