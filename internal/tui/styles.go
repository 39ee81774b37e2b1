package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	hiddenCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	activeSeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	foldedSeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	dealerBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0A0A0A")).
				Background(lipgloss.Color("#FFD700")).
				Padding(0, 1)

	abilityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B57EDC")).
			Bold(true)

	speechStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Italic(true)

	potStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)
