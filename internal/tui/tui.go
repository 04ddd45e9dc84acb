// Package tui is a terminal replay viewer for finished self-play games.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/hanabot/internal/display"
	"github.com/lox/hanabot/internal/simulator"
)

// Model steps through the turns of a game. Turn 0 is the deal; turn i is
// the board after the i-th action.
type Model struct {
	result *simulator.GameResult
	logger *log.Logger

	viewport viewport.Model
	turn     int
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewModel creates a replay viewer positioned at the deal
func NewModel(result *simulator.GameResult, logger *log.Logger) *Model {
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	m := &Model{
		result:   result,
		logger:   logger.WithPrefix("tui"),
		viewport: vp,
	}
	m.viewport.SetContent(m.Page(0))
	return m
}

// Run shows the viewer in the alternate screen until the user quits
func Run(result *simulator.GameResult, logger *log.Logger) error {
	_, err := tea.NewProgram(NewModel(result, logger), tea.WithAltScreen()).Run()
	return err
}

// Turn returns the turn on screen
func (m *Model) Turn() int {
	return m.turn
}

// Turns returns the number of actions in the game
func (m *Model) Turns() int {
	return len(m.result.Log)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and resizes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(1, msg.Width-2)
		m.viewport.Height = max(1, msg.Height-4)
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		if !m.initialized {
			m.viewport.GotoTop()
			m.initialized = true
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "right", "l", "n", " ":
			m.seek(m.turn + 1)
			return m, nil
		case "left", "h", "p":
			m.seek(m.turn - 1)
			return m, nil
		case "home", "g":
			m.seek(0)
			return m, nil
		case "end", "G":
			m.seek(m.Turns())
			return m, nil
		}
	}

	// remaining keys scroll the page
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) seek(turn int) {
	turn = min(max(turn, 0), m.Turns())
	if turn == m.turn {
		return
	}
	m.turn = turn
	m.viewport.SetContent(m.Page(turn))
	m.viewport.GotoTop()
}

// View renders the viewer
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := display.HeaderStyle.Render(fmt.Sprintf(" Game %s  turn %d/%d ", m.result.ID, m.turn, m.Turns()))
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Render(m.viewport.View())
	help := display.InfoStyle.Render("←/→ step • Home/End first/last • ↑/↓ scroll • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

// Page renders the board at turn, preceded by the action that produced it
func (m *Model) Page(turn int) string {
	var b strings.Builder
	if turn == 0 {
		fmt.Fprintf(&b, "Deal (seed %d): %s\n\n", m.result.Seed, strings.Join(seats(m.result), ", "))
		b.WriteString(display.Board(m.result.Initial))
		return b.String()
	}

	t := m.result.Log[turn-1]
	fmt.Fprintf(&b, "Turn %d: %s\n", t.Number, display.Result(t.Result))
	b.WriteString(display.InfoStyle.Render("rule: "+t.Rule) + "\n\n")
	b.WriteString(display.Board(t.Board))
	if turn == m.Turns() {
		fmt.Fprintf(&b, "\nFinal score %d", m.result.Score)
		if m.result.Bombed {
			b.WriteString(" " + display.ErrorStyle.Render("(bombed)"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func seats(result *simulator.GameResult) []string {
	out := make([]string, len(result.Players))
	for i, p := range result.Players {
		out[i] = fmt.Sprintf("%s (%s)", p, result.Strategies[i])
	}
	return out
}

// WriteTranscript writes every page of the game, for terminals without a TUI
func WriteTranscript(w io.Writer, result *simulator.GameResult, logger *log.Logger) error {
	m := NewModel(result, logger)
	for turn := 0; turn <= m.Turns(); turn++ {
		if turn > 0 {
			if _, err := fmt.Fprintln(w, strings.Repeat("-", 40)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, m.Page(turn)); err != nil {
			return err
		}
	}
	return nil
}
