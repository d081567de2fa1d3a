package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Muted      = lipgloss.Color("#6B7280") // Gray
	Foreground = lipgloss.Color("#F9FAFB") // Light gray

	// Chapter text
	ReaderText = lipgloss.NewStyle().
			Foreground(Foreground)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Muted text style
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Table of contents list
	ListItem = lipgloss.NewStyle().
			Foreground(Foreground)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Bold(true)

	// Section headings in overlay views
	Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Search input line
	SearchPrompt = lipgloss.NewStyle().
			Foreground(Secondary)
)
