package state

import (
	"fmt"
	"math"

	"github.com/lox/hanabot/internal/card"
)

// UpdateCurrentBelief recomputes the distribution of every own card from the
// deck composition minus everything the agent can see.
func (s *AgentState) UpdateCurrentBelief() error {
	observed, err := s.ObservedCounts()
	if err != nil {
		return err
	}
	for i, h := range s.Hand {
		if err := updateBelief(h, &observed); err != nil {
			return fmt.Errorf("own card %d: %w", i, err)
		}
	}
	return nil
}

func updateBelief(h *card.HiddenCard, observed *card.Counts) error {
	switch {
	case h.FullyKnown():
		return nil
	case h.HintColor != card.NoColor:
		return beliefGivenColor(h, observed)
	case h.HintValue != card.NoValue:
		return beliefGivenValue(h, observed)
	default:
		return beliefUnconstrained(h, observed)
	}
}

// beliefGivenColor spreads the value distribution over the unseen copies of
// the confirmed color.
func beliefGivenColor(h *card.HiddenCard, observed *card.Counts) error {
	c := h.HintColor
	remaining := [card.NumValues + 1]int{}
	total := 0
	for _, v := range card.Values {
		if h.ExcludedValues.Has(v) {
			continue
		}
		remaining[v] = card.Multiplicity(c, v) - observed.At(c, v)
		total += remaining[v]
	}
	if total <= 0 {
		return fmt.Errorf("%w: no unseen %s cards left for a confirmed color", ErrInvariantViolation, c)
	}
	for _, v := range card.Values {
		h.Values[v] = float64(remaining[v]) / float64(total)
	}
	return checkDistribution(h)
}

func beliefGivenValue(h *card.HiddenCard, observed *card.Counts) error {
	v := h.HintValue
	remaining := [card.NumColors + 1]int{}
	total := 0
	for _, c := range card.Colors {
		if h.ExcludedColors.Has(c) {
			continue
		}
		remaining[c] = card.Multiplicity(c, v) - observed.At(c, v)
		total += remaining[c]
	}
	if total <= 0 {
		return fmt.Errorf("%w: no unseen %s cards left for a confirmed value", ErrInvariantViolation, v)
	}
	for _, c := range card.Colors {
		h.Colors[c] = float64(remaining[c]) / float64(total)
	}
	return checkDistribution(h)
}

// beliefUnconstrained handles a card with neither attribute confirmed. Both
// marginals share the same denominator: every unseen copy outside the
// excluded colors and values.
func beliefUnconstrained(h *card.HiddenCard, observed *card.Counts) error {
	var remaining card.Counts
	total := 0
	for _, c := range card.Colors {
		if h.ExcludedColors.Has(c) {
			continue
		}
		for _, v := range card.Values {
			if h.ExcludedValues.Has(v) {
				continue
			}
			n := card.Multiplicity(c, v) - observed.At(c, v)
			remaining[c][v] = n
			total += n
		}
	}
	if total <= 0 {
		return fmt.Errorf("%w: no unseen card matches the exclusions", ErrInvariantViolation)
	}
	for _, c := range card.Colors {
		h.Colors[c] = float64(remaining.ColorTotal(c)) / float64(total)
	}
	for _, v := range card.Values {
		h.Values[v] = float64(remaining.ValueTotal(v)) / float64(total)
	}
	return checkDistribution(h)
}

func checkDistribution(h *card.HiddenCard) error {
	if sum := h.Colors.Sum(); math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("%w: color distribution sums to %.4f", ErrInvariantViolation, sum)
	}
	if sum := h.Values.Sum(); math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("%w: value distribution sums to %.4f", ErrInvariantViolation, sum)
	}
	return nil
}
