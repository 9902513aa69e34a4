package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for the chat client.
type Styles struct {
	Title          lipgloss.Style
	Status         lipgloss.Style
	Success        lipgloss.Style
	Error          lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Progress       lipgloss.Style
	Rule           lipgloss.Style
	InputBorder    lipgloss.Style
	Help           lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("63")).  // Purple
			Foreground(lipgloss.Color("230")), // Light yellow
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Progress: lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")), // Purple
		Rule: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
	}
}
