package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scores(values ...int) *Statistics {
	s := &Statistics{}
	for _, v := range values {
		s.Add(Result{Score: v, Players: 2})
	}
	return s
}

func TestCompare(t *testing.T) {
	t.Run("clear difference", func(t *testing.T) {
		c := Compare(scores(20, 21, 22, 23, 24), scores(10, 11, 12, 13, 14))

		assert.InDelta(t, 10.0, c.Difference, 1e-9)
		assert.InDelta(t, 1.0, c.StdError, 1e-9)
		assert.InDelta(t, 10.0, c.TStatistic, 1e-9)
		assert.Equal(t, 8, c.DF)
		assert.Less(t, c.PValue, 0.001)
		assert.InDelta(t, 7.694, c.CI95Low, 0.01)
		assert.InDelta(t, 12.306, c.CI95High, 0.01)
		assert.Equal(t, "large", InterpretEffectSize(c.EffectSize))
		assert.Equal(t, "highly significant", InterpretPValue(c.PValue, 0.05))
	})

	t.Run("same scores", func(t *testing.T) {
		c := Compare(scores(10, 15, 20), scores(10, 15, 20))
		assert.Zero(t, c.Difference)
		assert.Zero(t, c.TStatistic)
		assert.InDelta(t, 1.0, c.PValue, 1e-9)
		assert.Equal(t, "negligible", InterpretEffectSize(c.EffectSize))
		assert.Equal(t, "not significant", InterpretPValue(c.PValue, 0.05))
	})

	t.Run("too few games", func(t *testing.T) {
		c := Compare(scores(20), scores(10))
		assert.Equal(t, 10.0, c.Difference)
		assert.Zero(t, c.DF)
		assert.Equal(t, 1.0, c.PValue)
		assert.Equal(t, c.Difference, c.CI95Low)
		assert.Equal(t, c.Difference, c.CI95High)
	})
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, "small", InterpretEffectSize(-0.3))
	assert.Equal(t, "medium", InterpretEffectSize(0.6))
	assert.Equal(t, "very significant", InterpretPValue(0.005, 0.05))
	assert.Equal(t, "significant", InterpretPValue(0.03, 0.05))
	assert.Equal(t, "marginally significant", InterpretPValue(0.07, 0.05))
}
