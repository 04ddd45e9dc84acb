package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/hanabot/internal/card"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	CurrentPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// cardStyles colours a card by its firework
var cardStyles = map[card.Color]lipgloss.Style{
	card.White:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
	card.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	card.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF")).Bold(true),
	card.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")).Bold(true),
	card.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true),
}

// CardStyle returns the style for cards of color c
func CardStyle(c card.Color) lipgloss.Style {
	if s, ok := cardStyles[c]; ok {
		return s
	}
	return InfoStyle
}
