package chat

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/smhrd/smartsearch/internal/theme"
)

// styles are derived from the active palette and rebuilt on theme changes
type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	text    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style

	cursor  lipgloss.Style
	checked lipgloss.Style
	partial lipgloss.Style

	sidebar lipgloss.Style
	panel   lipgloss.Style
	modal   lipgloss.Style
	footer  lipgloss.Style

	userBubble lipgloss.Style
	botBubble  lipgloss.Style
	favorite   lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
		text:    lipgloss.NewStyle().Foreground(p.Text),
		success: lipgloss.NewStyle().Foreground(p.Success),
		warning: lipgloss.NewStyle().Foreground(p.Warning),
		errText: lipgloss.NewStyle().Foreground(p.Error),

		cursor:  lipgloss.NewStyle().Background(p.Highlight).Bold(true),
		checked: lipgloss.NewStyle().Foreground(p.Success),
		partial: lipgloss.NewStyle().Foreground(p.Warning),

		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.Border).
			PaddingRight(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		footer: lipgloss.NewStyle().Foreground(p.Muted),

		userBubble: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Highlight).
			Padding(0, 1),
		botBubble: lipgloss.NewStyle().
			Foreground(p.Text).
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(p.Secondary).
			PaddingLeft(1),
		favorite: lipgloss.NewStyle().Foreground(p.Warning),
	}
}
