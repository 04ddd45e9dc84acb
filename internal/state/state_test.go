package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/state/statetest"
)

func hintMe(attr card.Attribute, positions ...int) action.HintResult {
	return action.HintResult{
		Hint:      action.Hint{From: "bob", To: "me", Attribute: attr},
		Positions: positions,
		Next:      "me",
	}
}

func assertDistributionsSumToOne(t *testing.T, s *state.AgentState) {
	t.Helper()
	for i, h := range s.Hand {
		assert.InDelta(t, 1.0, h.Colors.Sum(), 1e-3, "colors of card %d", i)
		assert.InDelta(t, 1.0, h.Values.Sum(), 1e-3, "values of card %d", i)
	}
}

func TestNew(t *testing.T) {
	t.Run("two players deal five cards", func(t *testing.T) {
		s := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5").Build(t)

		assert.Equal(t, 0, s.Seat)
		assert.Len(t, s.Hand, 5)
		assert.Equal(t, 5, s.HandSize)
		require.Contains(t, s.PlayerHands, 1)
		assert.Equal(t, "bob", s.PlayerHands[1].Player)
		assertDistributionsSumToOne(t, s)
	})

	t.Run("four players deal four cards", func(t *testing.T) {
		s := statetest.New("c", "a", "b", "c", "d").
			Hand("a", "R1 R2 R3 R4").
			Hand("b", "W1 W2 W3 W4").
			Hand("d", "G1 G2 G3 G4").
			Build(t)

		assert.Equal(t, 2, s.Seat)
		assert.Len(t, s.Hand, 4)
		assert.Len(t, s.PlayerHands, 3)
		assert.Equal(t, 3, s.NextSeat(s.Seat))
		assert.Equal(t, 0, s.NextSeat(3))
	})

	t.Run("agent not seated", func(t *testing.T) {
		_, err := state.New(statetest.New("me", "bob", "carol").Snapshot(), "me")
		assert.ErrorIs(t, err, state.ErrUnknownPlayer)
	})
}

func TestDeckConservation(t *testing.T) {
	t.Run("more copies than the deck holds", func(t *testing.T) {
		snap := statetest.New("me", "me", "bob").Hand("bob", "R5 R5 B3 W4 G1").Snapshot()
		_, err := state.New(snap, "me")
		assert.ErrorIs(t, err, state.ErrInvariantViolation)
	})

	t.Run("discards and fireworks count towards the limit", func(t *testing.T) {
		snap := statetest.New("me", "me", "bob").
			Hand("bob", "W1 B2 B3 Y4 G1").
			Firework(card.White, 1).
			Discard("W1 W1").
			Tokens(2, 0).
			Snapshot()
		_, err := state.New(snap, "me")
		assert.ErrorIs(t, err, state.ErrInvariantViolation)
	})

	t.Run("exactly the deck limit is fine", func(t *testing.T) {
		s := statetest.New("me", "me", "bob").
			Hand("bob", "W1 B2 B3 Y4 G1").
			Firework(card.White, 1).
			Discard("W1").
			Tokens(1, 0).
			Build(t)

		observed, err := s.ObservedCounts()
		require.NoError(t, err)
		assert.Equal(t, 3, observed.At(card.White, 1))
		assert.Equal(t, 7, observed.Total())
	})
}

func TestTokenRanges(t *testing.T) {
	b := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5")

	_, err := state.New(b.Tokens(9, 0).Snapshot(), "me")
	assert.ErrorIs(t, err, state.ErrInvariantViolation)

	_, err = state.New(b.Tokens(0, 4).Snapshot(), "me")
	assert.ErrorIs(t, err, state.ErrInvariantViolation)
}

func TestScore(t *testing.T) {
	s := statetest.New("me", "me", "bob").
		Hand("bob", "W1 B3 B3 Y4 G1").
		Firework(card.Red, 3).
		Firework(card.Blue, 2).
		Build(t)

	assert.Equal(t, 5, s.Score())
	assert.Equal(t, 3, s.Height(card.Red))
	assert.Equal(t, 0, s.MinHeight())

	full := statetest.New("me", "me", "bob").HandSize(0)
	for _, c := range card.Colors {
		full.Firework(c, 5)
	}
	s = full.Build(t)
	assert.Equal(t, card.MaxScore, s.Score())
	assert.Equal(t, 5, s.MinHeight())
}

func TestUpdateStateRebuildsDiscardPile(t *testing.T) {
	b := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5").Discard("Y1").Tokens(1, 0)
	s := b.Build(t)

	require.NoError(t, s.UpdateState(b.Snapshot()))
	require.NoError(t, s.UpdateState(b.Snapshot()))
	assert.Equal(t, 1, s.DiscardPile.At(card.Yellow, 1))
	assert.Equal(t, 1, s.DiscardPile.Total())
}

func TestHintExclusionPropagation(t *testing.T) {
	s := statetest.New("me", "me", "bob").Hand("bob", "W1 W2 B3 Y4 G5").Build(t)

	require.NoError(t, s.HandleActionResult(hintMe(card.ColorAttribute(card.Red), 0, 2)))
	require.NoError(t, s.UpdateCurrentBelief())

	for _, i := range []int{0, 2} {
		h := s.Hand[i]
		assert.Equal(t, card.Red, h.HintColor, "card %d", i)
		assert.Equal(t, 1.0, h.Colors[card.Red])
		assert.Equal(t, 0.0, h.Colors[card.Blue])
	}
	for _, i := range []int{1, 3, 4} {
		h := s.Hand[i]
		assert.Equal(t, card.NoColor, h.HintColor, "card %d", i)
		assert.True(t, h.ExcludedColors.Has(card.Red), "card %d", i)
		assert.Equal(t, 0.0, h.Colors[card.Red])
	}
	assert.Equal(t, []int{0, 2}, s.JustHintedIndices())
	assertDistributionsSumToOne(t, s)
}

func TestBeliefGivenConfirmedColor(t *testing.T) {
	s := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5").Build(t)

	require.NoError(t, s.HandleActionResult(hintMe(card.ColorAttribute(card.Red), 0)))
	require.NoError(t, s.UpdateCurrentBelief())

	// unseen reds: 2x1, 1x2, 2x3, 2x4, 1x5
	h := s.Hand[0]
	assert.InDelta(t, 2.0/8, h.Values[1], 1e-9)
	assert.InDelta(t, 1.0/8, h.Values[2], 1e-9)
	assert.InDelta(t, 2.0/8, h.Values[3], 1e-9)
	assert.InDelta(t, 2.0/8, h.Values[4], 1e-9)
	assert.InDelta(t, 1.0/8, h.Values[5], 1e-9)
}

func TestBeliefGivenConfirmedValue(t *testing.T) {
	s := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5").Build(t)

	require.NoError(t, s.HandleActionResult(hintMe(card.ValueAttribute(1), 0)))
	require.NoError(t, s.UpdateCurrentBelief())

	h := s.Hand[0]
	assert.InDelta(t, 2.0/14, h.Colors[card.Red], 1e-9)
	assert.InDelta(t, 3.0/14, h.Colors[card.White], 1e-9)
	assert.InDelta(t, 3.0/14, h.Colors[card.Green], 1e-9)
}

func TestBeliefWithExclusions(t *testing.T) {
	s := statetest.New("me", "me", "bob").Hand("bob", "R1 R2 B3 W4 G5").Build(t)

	require.NoError(t, s.HandleActionResult(hintMe(card.ColorAttribute(card.Red), 0)))
	require.NoError(t, s.UpdateCurrentBelief())

	// 40 non-red cards, 3 of them visible in bob's hand
	h := s.Hand[1]
	assert.Equal(t, 0.0, h.Colors[card.Red])
	assert.InDelta(t, 9.0/37, h.Colors[card.Blue], 1e-9)
	assert.InDelta(t, 10.0/37, h.Colors[card.Yellow], 1e-9)
	assert.InDelta(t, 12.0/37, h.Values[1], 1e-9)
	assert.InDelta(t, 7.0/37, h.Values[3], 1e-9)
	assertDistributionsSumToOne(t, s)
}

func TestBeliefWithoutRemainingCandidates(t *testing.T) {
	s := statetest.New("me", "me", "bob").Hand("bob", "G5 R2 B3 W4 Y5").Build(t)

	// the only green 5 is in bob's hand
	require.NoError(t, s.Hand[0].SetHint(card.ValueAttribute(5)))
	for _, c := range []card.Color{card.White, card.Red, card.Blue, card.Yellow} {
		require.NoError(t, s.Hand[0].Exclude(card.ColorAttribute(c)))
	}
	assert.ErrorIs(t, s.UpdateCurrentBelief(), state.ErrInvariantViolation)
}

func TestUpdateCurrentBeliefIsIdempotent(t *testing.T) {
	s := statetest.New("me", "me", "bob").
		Hand("bob", "R1 R2 B3 W4 G5").
		Firework(card.Yellow, 2).
		Discard("B1 W3").
		Tokens(2, 1).
		Build(t)
	require.NoError(t, s.HandleActionResult(hintMe(card.ValueAttribute(3), 1, 4)))

	require.NoError(t, s.UpdateCurrentBelief())
	first := make([]card.HiddenCard, len(s.Hand))
	for i, h := range s.Hand {
		first[i] = *h.Clone()
	}

	require.NoError(t, s.UpdateCurrentBelief())
	for i, h := range s.Hand {
		assert.Equal(t, first[i], *h, "card %d", i)
	}
}

func TestHandleOwnActions(t *testing.T) {
	b := statetest.New("me", "me", "bob").Hand("bob", "W1 W2 B3 Y4 G5")
	s := b.Build(t)
	require.NoError(t, s.HandleActionResult(hintMe(card.ColorAttribute(card.Red), 0, 2)))

	t.Run("play draws a replacement and clears just-hinted", func(t *testing.T) {
		err := s.HandleActionResult(action.PlayResult{
			PlayCard: action.PlayCard{From: "me", Index: 0},
			Card:     card.NewIdentity(card.Red, 1),
			Success:  true,
			HandSize: 5,
			Next:     "bob",
		})
		require.NoError(t, err)

		assert.Len(t, s.Hand, 5)
		assert.Equal(t, card.Red, s.Hand[1].HintColor)
		assert.True(t, s.Hand[4].Unhinted())
		assert.Empty(t, s.JustHintedIndices())
		assert.Equal(t, "bob", s.CurrentPlayer)

		require.NoError(t, s.UpdateState(b.Firework(card.Red, 1).Current("bob").Snapshot()))
		require.NoError(t, s.UpdateCurrentBelief())
		assertDistributionsSumToOne(t, s)
	})

	t.Run("discard with an empty deck shrinks the hand", func(t *testing.T) {
		err := s.HandleActionResult(action.DiscardResult{
			DiscardCard: action.DiscardCard{From: "me", Index: 3},
			Card:        card.NewIdentity(card.Green, 1),
			HandSize:    4,
			Next:        "bob",
		})
		require.NoError(t, err)
		assert.Len(t, s.Hand, 4)
		assert.Equal(t, 4, s.HandSize)

		require.NoError(t, s.UpdateState(b.Discard("G1").Current("me").Snapshot()))
		assert.Len(t, s.Hand, 4, "snapshots keep reporting the dealt size")
		assert.Equal(t, card.Red, s.Hand[1].HintColor)
	})

	t.Run("index out of range", func(t *testing.T) {
		err := s.HandleActionResult(action.PlayResult{PlayCard: action.PlayCard{From: "me", Index: 7}})
		assert.ErrorIs(t, err, state.ErrInvariantViolation)
	})
}

func TestHandleTeammateActions(t *testing.T) {
	b := statetest.New("me", "me", "bob").Hand("bob", "W1 W2 B3 Y4 G5").Current("bob")
	s := b.Build(t)

	err := s.HandleActionResult(action.HintResult{
		Hint:      action.Hint{From: "me", To: "bob", Attribute: card.ColorAttribute(card.White)},
		Positions: []int{0, 1},
		Next:      "bob",
	})
	require.NoError(t, err)
	assert.True(t, s.PlayerHands[1].Cards[1].ColorHinted)

	err = s.HandleActionResult(action.PlayResult{
		PlayCard: action.PlayCard{From: "bob", Index: 0},
		Card:     card.NewIdentity(card.White, 1),
		Success:  true,
		HandSize: 5,
		Next:     "me",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, s.PlayerHands[1].Len())

	require.NoError(t, s.UpdateState(b.Hand("bob", "W2 B3 Y4 G5 R4").Firework(card.White, 1).Current("me").Snapshot()))
	assert.Empty(t, s.Resynced())
	assert.True(t, s.PlayerHands[1].Cards[0].ColorHinted)
	assert.Equal(t, card.NewIdentity(card.Red, 4), s.PlayerHands[1].Cards[4].Identity)

	t.Run("inconsistent snapshot rebuilds the hand", func(t *testing.T) {
		require.NoError(t, s.UpdateState(b.Hand("bob", "B3 Y4 G5 R4 W2").Snapshot()))
		assert.Equal(t, []string{"bob"}, s.Resynced())
		assert.False(t, s.PlayerHands[1].Cards[4].ColorHinted)
	})

	t.Run("unknown player", func(t *testing.T) {
		err := s.HandleActionResult(action.DiscardResult{DiscardCard: action.DiscardCard{From: "zed"}})
		assert.ErrorIs(t, err, state.ErrUnknownPlayer)
	})
}
