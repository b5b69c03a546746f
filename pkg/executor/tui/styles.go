package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // accent, errors
	mintGreen   = lipgloss.Color("#A8E6CF") // success states
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	loadingStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Padding(0, 2)

	messageStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Padding(0, 2)

	answerStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
