package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/devtop/internal/config"
)

const AppName = "devtop"

// Styles bundles the lipgloss styles derived from the configured palette.
type Styles struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	muted   lipgloss.Color

	title        lipgloss.Style
	selectedItem lipgloss.Style
	item         lipgloss.Style
	itemMeta     lipgloss.Style
	statusLine   lipgloss.Style
	errorText    lipgloss.Style
	helpLine     lipgloss.Style
}

func NewStyles(c config.UIColors) Styles {
	primary := lipgloss.Color(c.Primary)
	accent := lipgloss.Color(c.Accent)
	text := lipgloss.Color(c.Text)
	muted := lipgloss.Color(c.Muted)
	errColor := lipgloss.Color(c.Error)

	return Styles{
		primary: primary,
		accent:  accent,
		muted:   muted,

		title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		selectedItem: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		item: lipgloss.NewStyle().
			Foreground(text),
		itemMeta: lipgloss.NewStyle().
			Foreground(muted),
		statusLine: lipgloss.NewStyle().
			Foreground(muted),
		errorText: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		helpLine: lipgloss.NewStyle().
			Foreground(muted),
	}
}
