package card

import (
	"fmt"
	"strings"
)

// ColorDistribution holds a probability per color. Index 0 unused.
type ColorDistribution [NumColors + 1]float64

// Sum adds every real color's probability
func (d ColorDistribution) Sum() float64 {
	total := 0.0
	for _, c := range Colors {
		total += d[c]
	}
	return total
}

// ValueDistribution holds a probability per value. Index 0 unused.
type ValueDistribution [NumValues + 1]float64

// Sum adds every value's probability
func (d ValueDistribution) Sum() float64 {
	total := 0.0
	for _, v := range Values {
		total += d[v]
	}
	return total
}

// HiddenCard is one of the agent's own cards. Its identity is modelled as a
// pair of marginal distributions refined by hints and by what is observable.
type HiddenCard struct {
	Colors ColorDistribution
	Values ValueDistribution

	// HintColor and HintValue are set once a hint confirms them.
	HintColor Color
	HintValue Value

	// Attributes ruled out by hints that touched other positions.
	ExcludedColors ColorSet
	ExcludedValues ValueSet
}

// NewHiddenCard returns a card with the deck prior: uniform over colors and
// proportional to multiplicity over values.
func NewHiddenCard() *HiddenCard {
	h := &HiddenCard{}
	for _, c := range Colors {
		h.Colors[c] = 1.0 / NumColors
	}
	for _, v := range Values {
		h.Values[v] = float64(ValueMultiplicity(v)) / DeckSize
	}
	return h
}

// SetHint collapses the matching distribution onto the hinted attribute
func (h *HiddenCard) SetHint(attr Attribute) error {
	if err := attr.Validate(); err != nil {
		return err
	}
	switch attr.Kind {
	case KindColor:
		h.HintColor = attr.Color
		for _, c := range Colors {
			h.Colors[c] = 0
		}
		h.Colors[attr.Color] = 1
	case KindValue:
		h.HintValue = attr.Value
		for _, v := range Values {
			h.Values[v] = 0
		}
		h.Values[attr.Value] = 1
	}
	return nil
}

// Exclude records that the card is not of the given color or value. A
// confirmed attribute needs no exclusion bookkeeping.
func (h *HiddenCard) Exclude(attr Attribute) error {
	if err := attr.Validate(); err != nil {
		return err
	}
	switch attr.Kind {
	case KindColor:
		if h.HintColor == NoColor {
			h.ExcludedColors = h.ExcludedColors.Add(attr.Color)
		}
	case KindValue:
		if h.HintValue == NoValue {
			h.ExcludedValues = h.ExcludedValues.Add(attr.Value)
		}
	}
	return nil
}

// KnownColor implements Card
func (h *HiddenCard) KnownColor() (Color, bool) {
	return h.HintColor, h.HintColor != NoColor
}

// KnownValue implements Card
func (h *HiddenCard) KnownValue() (Value, bool) {
	return h.HintValue, h.HintValue != NoValue
}

// ColorProbability implements Card
func (h *HiddenCard) ColorProbability(c Color) float64 {
	if !c.Valid() {
		return 0
	}
	return h.Colors[c]
}

// ValueProbability implements Card
func (h *HiddenCard) ValueProbability(v Value) float64 {
	if !v.Valid() {
		return 0
	}
	return h.Values[v]
}

// FullyKnown reports whether both attributes have been hinted
func (h *HiddenCard) FullyKnown() bool {
	return h.HintColor != NoColor && h.HintValue != NoValue
}

// Unhinted reports whether no hint has touched the card yet
func (h *HiddenCard) Unhinted() bool {
	return h.HintColor == NoColor && h.HintValue == NoValue
}

// Clone returns an independent copy
func (h *HiddenCard) Clone() *HiddenCard {
	c := *h
	return &c
}

func (h *HiddenCard) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, c := range Colors {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%.2f", c, h.Colors[c])
	}
	b.WriteString(" |")
	for _, v := range Values {
		fmt.Fprintf(&b, " %s:%.2f", v, h.Values[v])
	}
	b.WriteString("}")
	return b.String()
}
