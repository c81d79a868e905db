package cli

import "github.com/charmbracelet/lipgloss"

// Table styles
var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0, 0, 0)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))

	potStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Padding(0, 2).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("46")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// Card styles
var (
	cardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			Margin(0, 1, 0, 0)

	redCardStyle = cardStyle.Foreground(lipgloss.Color("196"))

	hiddenCardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("24")).
			Padding(0, 1).
			Margin(0, 1, 0, 0)
)

// Seat styles
var (
	seatStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	currentSeatStyle = seatStyle.
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("46"))

	yourSeatStyle = seatStyle.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39"))

	foldedSeatStyle = seatStyle.
			BorderForeground(lipgloss.Color("241")).
			Foreground(lipgloss.Color("241"))
)
