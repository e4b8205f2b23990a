// ABOUTME: Shared lipgloss styles for the task list TUI
// ABOUTME: Defines the palette and text styles used across the interface

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("#7C3AED") // Purple
	Success = lipgloss.Color("#10B981") // Green
	Danger  = lipgloss.Color("#EF4444") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Done = lipgloss.NewStyle().
		Foreground(Muted).
		Strikethrough(true)

	Notice = lipgloss.NewStyle().
		Foreground(Success)

	ErrorNotice = lipgloss.NewStyle().
			Foreground(Danger)

	Help = lipgloss.NewStyle().
		Foreground(Muted)

	Footer = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)
)
