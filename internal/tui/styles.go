package tui

import "github.com/charmbracelet/lipgloss"

// Palette follows the exported image card.
var (
	Ink     = lipgloss.Color("#1F2937")
	Muted   = lipgloss.Color("#6B7280")
	Border  = lipgloss.Color("#D1D5DB")
	Accent  = lipgloss.Color("#3B82F6")
	Amber   = lipgloss.Color("#F59E0B")
	Danger  = lipgloss.Color("#E53935")
	Success = lipgloss.Color("#16A34A")
)

// Styles holds the rendering styles of the browser.
type Styles struct {
	Title      lipgloss.Style
	Pane       lipgloss.Style
	Item       lipgloss.Style
	Selected   lipgloss.Style
	Proverb    lipgloss.Style
	Label      lipgloss.Style
	Wisdom     lipgloss.Style
	Empty      lipgloss.Style
	Help       lipgloss.Style
	StatusOK   lipgloss.Style
	StatusInfo lipgloss.Style
	StatusErr  lipgloss.Style
}

// DefaultStyles returns the browser styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(Ink).MarginBottom(1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Item:       lipgloss.NewStyle().PaddingLeft(2),
		Selected:   lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(Accent).PaddingLeft(1).Bold(true),
		Proverb:    lipgloss.NewStyle().Bold(true).Foreground(Ink),
		Label:      lipgloss.NewStyle().Bold(true).Foreground(Muted),
		Wisdom:     lipgloss.NewStyle().Italic(true).Foreground(Muted),
		Empty:      lipgloss.NewStyle().Foreground(Muted),
		Help:       lipgloss.NewStyle().Foreground(Muted),
		StatusOK:   lipgloss.NewStyle().Foreground(Success),
		StatusInfo: lipgloss.NewStyle().Foreground(Accent),
		StatusErr:  lipgloss.NewStyle().Foreground(Danger),
	}
}
