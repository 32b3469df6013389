package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared across the TUI.
type Styles struct {
	Title      lipgloss.Style
	Status     lipgloss.Style
	StatusErr  lipgloss.Style
	Help       lipgloss.Style
	FormLabel  lipgloss.Style
	FormHint   lipgloss.Style
	FormActive lipgloss.Style
}

// DefaultStyles returns the default TUI styling.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		StatusErr: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		FormLabel: lipgloss.NewStyle().
			Bold(true),
		FormHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		FormActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
	}
}
