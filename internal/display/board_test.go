package display

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state/statetest"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestCards(t *testing.T) {
	assert.Equal(t, "R3", Card(card.NewIdentity(card.Red, 3)))
	assert.Equal(t, "W1 G5", Cards(card.MustParseCards("W1 G5")))
	assert.Equal(t, "", Cards(nil))
	assert.Equal(t, "?? ?? ??", Hidden(3))
}

func TestFireworksAndTokens(t *testing.T) {
	snap := statetest.New("me", "me", "bob").
		Firework(card.Red, 2).
		Firework(card.Green, 3).
		Snapshot()

	assert.Equal(t, "W0 R2 B0 Y0 G3", Fireworks(snap.Fireworks))
	assert.Equal(t, 5, Score(snap.Fireworks))
	assert.Equal(t, "Notes 5/8  Storms 1/3", Tokens(3, 1))
	assert.Equal(t, "Notes 0/8  Storms 0/3", Tokens(8, 0))
}

func TestBoard(t *testing.T) {
	snap := statetest.New("me", "me", "bob").
		Hand("bob", "R1 W2 B3 Y4 G5").
		Firework(card.White, 1).
		Discard("G2 R4 R1").
		Tokens(2, 1).
		Current("bob").
		Snapshot()

	want := "Fireworks W1 R0 B0 Y0 G0   Score 1\n" +
		"Notes 6/8  Storms 1/3\n" +
		"\n" +
		"  me   ?? ?? ?? ?? ??\n" +
		"> bob  R1 W2 B3 Y4 G5\n" +
		"\n" +
		"Discards R1 R4 G2\n"
	assert.Equal(t, want, Board(snap))
}

func TestSortedCards(t *testing.T) {
	in := card.MustParseCards("G2 W5 R1 W1")
	assert.Equal(t, card.MustParseCards("W1 W5 R1 G2"), SortedCards(in))
	assert.Equal(t, card.MustParseCards("G2 W5 R1 W1"), in)
}

func TestResult(t *testing.T) {
	tests := []struct {
		result action.Result
		want   string
	}{
		{
			action.HintResult{
				Hint:      action.Hint{From: "me", To: "bob", Attribute: card.ColorAttribute(card.Red)},
				Positions: []int{0, 2},
			},
			"me hints bob: Red at 1,3",
		},
		{
			action.PlayResult{PlayCard: action.PlayCard{From: "bob"}, Card: card.NewIdentity(card.Blue, 1), Success: true},
			"bob plays B1 ok",
		},
		{
			action.PlayResult{PlayCard: action.PlayCard{From: "bob"}, Card: card.NewIdentity(card.Blue, 3)},
			"bob plays B3 storm",
		},
		{
			action.DiscardResult{DiscardCard: action.DiscardCard{From: "me", Index: 1}, Card: card.NewIdentity(card.Yellow, 4)},
			"me discards Y4",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.result))
	}
}
