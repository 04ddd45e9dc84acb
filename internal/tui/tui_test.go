package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabot/internal/simulator"
	"github.com/lox/hanabot/internal/strategy"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func playGame(t *testing.T) *simulator.GameResult {
	t.Helper()
	s, err := strategy.Lookup(strategy.DefaultName)
	require.NoError(t, err)
	r, err := simulator.New(simulator.Config{
		Players:    2,
		Strategies: []strategy.Strategy{s},
		Logger:     quietLogger(),
		Clock:      quartz.NewMock(t),
	})
	require.NoError(t, err)
	result, err := r.Play(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, result.Log)
	return result
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReplayNavigation(t *testing.T) {
	result := playGame(t)
	m := NewModel(result, quietLogger())
	last := len(result.Log)

	assert.Equal(t, "Loading...", m.View())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Contains(t, m.View(), fmt.Sprintf("Game %s  turn 0/%d", result.ID, last))

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{key(tea.KeyLeft), 0},
		{key(tea.KeyRight), 1},
		{runes("l"), 2},
		{runes("h"), 1},
		{key(tea.KeyEnd), last},
		{key(tea.KeyRight), last},
		{key(tea.KeyHome), 0},
		{runes("G"), last},
		{runes("g"), 0},
	}
	for i, step := range steps {
		m.Update(step.msg)
		assert.Equal(t, step.want, m.Turn(), "step %d (%s)", i, step.msg)
	}
}

func TestReplayQuits(t *testing.T) {
	m := NewModel(playGame(t), quietLogger())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestReplayPages(t *testing.T) {
	result := playGame(t)
	m := NewModel(result, quietLogger())

	deal := m.Page(0)
	assert.Contains(t, deal, "Deal (seed 1): bot1 (two-player), bot2 (two-player)")
	assert.Contains(t, deal, "Fireworks W0 R0 B0 Y0 G0   Score 0")
	assert.Contains(t, deal, "Notes 8/8  Storms 0/3")

	first := m.Page(1)
	assert.True(t, strings.HasPrefix(first, "Turn 1: bot1 "), first)
	assert.Contains(t, first, "rule: ")

	final := m.Page(len(result.Log))
	assert.Contains(t, final, fmt.Sprintf("Final score %d", result.Score))
}

func TestWriteTranscript(t *testing.T) {
	result := playGame(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTranscript(&buf, result, quietLogger()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Deal (seed 1)"))
	assert.Equal(t, len(result.Log), strings.Count(out, "\nTurn "))
	assert.Contains(t, out, fmt.Sprintf("Final score %d", result.Score))
}
