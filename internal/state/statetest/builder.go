// Package statetest builds belief states from card notation for tests.
package statetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

// Builder assembles a server snapshot seen by one player
type Builder struct {
	me   string
	snap state.Snapshot
}

// New starts a snapshot for me, seated in the order the players are given.
// me must be one of players.
func New(me string, players ...string) *Builder {
	b := &Builder{
		me: me,
		snap: state.Snapshot{
			Fireworks:     make(map[card.Color][]card.Identity),
			CurrentPlayer: me,
		},
	}
	for _, p := range players {
		b.snap.Players = append(b.snap.Players, state.PlayerView{Name: p})
	}
	b.snap.HandSize = state.StartingHandSize(len(players))
	return b
}

// Hand sets a teammate's hand from notation such as "R1 B2 W5"
func (b *Builder) Hand(player, cards string) *Builder {
	for i := range b.snap.Players {
		if b.snap.Players[i].Name == player {
			b.snap.Players[i].Hand = card.MustParseCards(cards)
		}
	}
	return b
}

// Firework stacks color up to height
func (b *Builder) Firework(c card.Color, height int) *Builder {
	played := make([]card.Identity, 0, height)
	for v := 1; v <= height; v++ {
		played = append(played, card.NewIdentity(c, card.Value(v)))
	}
	b.snap.Fireworks[c] = played
	return b
}

// Discard adds cards to the discard pile
func (b *Builder) Discard(cards string) *Builder {
	b.snap.DiscardPile = append(b.snap.DiscardPile, card.MustParseCards(cards)...)
	return b
}

// Tokens sets the spent note and storm tokens
func (b *Builder) Tokens(notes, storms int) *Builder {
	b.snap.UsedNoteTokens = notes
	b.snap.UsedStormTokens = storms
	return b
}

// Current sets whose turn it is
func (b *Builder) Current(player string) *Builder {
	b.snap.CurrentPlayer = player
	return b
}

// HandSize overrides the receiving player's hand size
func (b *Builder) HandSize(n int) *Builder {
	b.snap.HandSize = n
	return b
}

// Snapshot returns a copy of the snapshot built so far
func (b *Builder) Snapshot() state.Snapshot {
	snap := b.snap
	snap.Players = append([]state.PlayerView(nil), b.snap.Players...)
	snap.DiscardPile = append([]card.Identity(nil), b.snap.DiscardPile...)
	snap.Fireworks = make(map[card.Color][]card.Identity, len(b.snap.Fireworks))
	for c, played := range b.snap.Fireworks {
		snap.Fireworks[c] = append([]card.Identity(nil), played...)
	}
	return snap
}

// Build creates the belief state, failing the test on error
func (b *Builder) Build(t testing.TB) *state.AgentState {
	t.Helper()
	s, err := state.New(b.Snapshot(), b.me)
	require.NoError(t, err)
	return s
}
