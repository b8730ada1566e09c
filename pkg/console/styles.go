package console

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every screen.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // accent
	coralPink   = lipgloss.Color("#FFCCCB") // selection
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true).
			PaddingLeft(1).
			SetString(">")

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(14)

	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
