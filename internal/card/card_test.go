package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	deck := Deck()
	require.Len(t, deck, DeckSize)

	var counts Counts
	for _, id := range deck {
		counts.Add(id, 1)
	}

	for _, c := range Colors {
		assert.Equal(t, CardsPerColor, counts.ColorTotal(c), "color %s", c)
		assert.Equal(t, ColorMultiplicity(c), counts.ColorTotal(c))
	}
	assert.Equal(t, 15, counts.ValueTotal(1))
	assert.Equal(t, 10, counts.ValueTotal(2))
	assert.Equal(t, 10, counts.ValueTotal(3))
	assert.Equal(t, 10, counts.ValueTotal(4))
	assert.Equal(t, 5, counts.ValueTotal(5))
	for _, v := range Values {
		assert.Equal(t, ValueMultiplicity(v), counts.ValueTotal(v))
	}
	assert.Equal(t, DeckSize, counts.Total())
}

func TestMultiplicityOutOfRange(t *testing.T) {
	assert.Equal(t, 0, Multiplicity(NoColor, 1))
	assert.Equal(t, 0, Multiplicity(Red, 0))
	assert.Equal(t, 0, Multiplicity(Red, 6))
	assert.Equal(t, 3, Multiplicity(Red, 1))
	assert.Equal(t, 1, Multiplicity(Green, 5))
}

func TestParseColor(t *testing.T) {
	for _, c := range Colors {
		parsed, err := ParseColor(c.WireName())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	parsed, err := ParseColor("  YELLOW ")
	require.NoError(t, err)
	assert.Equal(t, Yellow, parsed)

	_, err = ParseColor("purple")
	assert.True(t, errors.Is(err, ErrUnknownAttribute))
}

func TestAttribute(t *testing.T) {
	t.Run("matches by kind", func(t *testing.T) {
		red3 := NewIdentity(Red, 3)
		assert.True(t, ColorAttribute(Red).Matches(red3))
		assert.False(t, ColorAttribute(Blue).Matches(red3))
		assert.True(t, ValueAttribute(3).Matches(red3))
		assert.False(t, ValueAttribute(4).Matches(red3))
	})

	t.Run("validation rejects malformed attributes", func(t *testing.T) {
		assert.NoError(t, ColorAttribute(Green).Validate())
		assert.NoError(t, ValueAttribute(5).Validate())
		assert.ErrorIs(t, ColorAttribute(NoColor).Validate(), ErrUnknownAttribute)
		assert.ErrorIs(t, ValueAttribute(7).Validate(), ErrUnknownAttribute)
		assert.ErrorIs(t, Attribute{}.Validate(), ErrUnknownAttribute)
	})

	t.Run("kind round trip", func(t *testing.T) {
		for _, k := range []AttributeKind{KindColor, KindValue} {
			parsed, err := ParseAttributeKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
		_, err := ParseAttributeKind("suit")
		assert.ErrorIs(t, err, ErrUnknownAttribute)
	})
}

func TestSets(t *testing.T) {
	var colors ColorSet
	colors = colors.Add(Red).Add(Green).Add(Red)
	assert.True(t, colors.Has(Red))
	assert.True(t, colors.Has(Green))
	assert.False(t, colors.Has(White))
	assert.Equal(t, 2, colors.Len())

	var values ValueSet
	values = values.Add(1).Add(5)
	assert.True(t, values.Has(5))
	assert.False(t, values.Has(3))
	assert.Equal(t, 2, values.Len())
}

func TestObservableCardHints(t *testing.T) {
	c := NewObservableCard(Blue, 2)
	assert.True(t, c.IsHintable())
	assert.Equal(t, 0, c.HintedCount())

	require.NoError(t, c.SetHint(ColorAttribute(Blue)))
	assert.True(t, c.IsHintable(), "one hinted attribute still leaves the card hintable")

	require.NoError(t, c.SetHint(ValueAttribute(2)))
	assert.False(t, c.IsHintable())
	assert.Equal(t, 2, c.HintedCount())

	assert.Error(t, c.SetHint(Attribute{}))
}

func TestHiddenCard(t *testing.T) {
	t.Run("prior sums to one", func(t *testing.T) {
		h := NewHiddenCard()
		assert.InDelta(t, 1.0, h.Colors.Sum(), 1e-9)
		assert.InDelta(t, 1.0, h.Values.Sum(), 1e-9)
		assert.InDelta(t, 0.3, h.ValueProbability(1), 1e-9)
		assert.InDelta(t, 0.1, h.ValueProbability(5), 1e-9)
		assert.True(t, h.Unhinted())
	})

	t.Run("set hint collapses to one-hot", func(t *testing.T) {
		h := NewHiddenCard()
		require.NoError(t, h.SetHint(ColorAttribute(Yellow)))

		c, ok := h.KnownColor()
		require.True(t, ok)
		assert.Equal(t, Yellow, c)
		for _, col := range Colors {
			if col == Yellow {
				assert.Equal(t, 1.0, h.ColorProbability(col))
			} else {
				assert.Equal(t, 0.0, h.ColorProbability(col))
			}
		}
		assert.False(t, h.FullyKnown())

		require.NoError(t, h.SetHint(ValueAttribute(4)))
		assert.True(t, h.FullyKnown())
		assert.Equal(t, 1.0, h.ValueProbability(4))
		assert.Equal(t, 0.0, h.ValueProbability(1))
	})

	t.Run("exclusion skips confirmed attributes", func(t *testing.T) {
		h := NewHiddenCard()
		require.NoError(t, h.Exclude(ColorAttribute(Red)))
		assert.True(t, h.ExcludedColors.Has(Red))

		require.NoError(t, h.SetHint(ValueAttribute(3)))
		require.NoError(t, h.Exclude(ValueAttribute(1)))
		assert.False(t, h.ExcludedValues.Has(1))
	})

	t.Run("malformed hint is rejected", func(t *testing.T) {
		h := NewHiddenCard()
		assert.ErrorIs(t, h.SetHint(ValueAttribute(0)), ErrUnknownAttribute)
		assert.ErrorIs(t, h.Exclude(Attribute{Kind: KindColor}), ErrUnknownAttribute)
	})
}

func TestHand(t *testing.T) {
	ids := []Identity{NewIdentity(Red, 1), NewIdentity(Blue, 2), NewIdentity(Green, 5)}

	t.Run("remove and draw keep order", func(t *testing.T) {
		h := NewHand("alice", ids)
		removed, err := h.Remove(1)
		require.NoError(t, err)
		assert.Equal(t, NewIdentity(Blue, 2), removed.Identity)

		h.Draw(NewIdentity(White, 3))
		assert.Equal(t, []Identity{NewIdentity(Red, 1), NewIdentity(Green, 5), NewIdentity(White, 3)}, h.Identities())

		_, err = h.Remove(5)
		assert.Error(t, err)
	})

	t.Run("sync keeps hint flags on a consistent snapshot", func(t *testing.T) {
		h := NewHand("alice", ids)
		require.NoError(t, h.ApplyHint(ColorAttribute(Red), []int{0}))
		_, err := h.Remove(1)
		require.NoError(t, err)

		snapshot := []Identity{NewIdentity(Red, 1), NewIdentity(Green, 5), NewIdentity(Yellow, 4)}
		assert.True(t, h.Sync(snapshot))
		assert.True(t, h.Cards[0].ColorHinted)
		assert.Equal(t, snapshot, h.Identities())
	})

	t.Run("sync rebuilds on an inconsistent snapshot", func(t *testing.T) {
		h := NewHand("alice", ids)
		require.NoError(t, h.ApplyHint(ValueAttribute(1), []int{0}))

		snapshot := []Identity{NewIdentity(Blue, 2), NewIdentity(Green, 5)}
		assert.False(t, h.Sync(snapshot))
		assert.False(t, h.Cards[0].ValueHinted)
		assert.Equal(t, snapshot, h.Identities())
	})

	t.Run("hint position out of range", func(t *testing.T) {
		h := NewHand("alice", ids)
		assert.Error(t, h.ApplyHint(ValueAttribute(1), []int{3}))
	})
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("R3 b1  W5")
	require.NoError(t, err)
	assert.Equal(t, []Identity{NewIdentity(Red, 3), NewIdentity(Blue, 1), NewIdentity(White, 5)}, cards)
	assert.Equal(t, "R3", cards[0].Short())

	_, err = ParseCards("R6")
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = ParseCards("X1")
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	assert.Panics(t, func() { MustParseCards("R") })
}
