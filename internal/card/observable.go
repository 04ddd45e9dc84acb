package card

// ObservableCard is a card whose identity the agent can see: a teammate's
// card, a played card, or a discarded one. The hint flags record what the
// holder has been told about it.
type ObservableCard struct {
	Identity
	ColorHinted bool
	ValueHinted bool
}

// NewObservableCard creates an un-hinted observable card
func NewObservableCard(c Color, v Value) ObservableCard {
	return ObservableCard{Identity: Identity{Color: c, Value: v}}
}

// SetHint flips the flag matching the attribute kind
func (o *ObservableCard) SetHint(attr Attribute) error {
	switch attr.Kind {
	case KindColor:
		o.ColorHinted = true
	case KindValue:
		o.ValueHinted = true
	default:
		return attr.Validate()
	}
	return nil
}

// IsHintable is true until both color and value have been hinted
func (o ObservableCard) IsHintable() bool {
	return !(o.ColorHinted && o.ValueHinted)
}

// HintedCount returns how many of the two attributes have been hinted
func (o ObservableCard) HintedCount() int {
	n := 0
	if o.ColorHinted {
		n++
	}
	if o.ValueHinted {
		n++
	}
	return n
}

// KnownColor implements Card. The agent always knows an observable card's color.
func (o ObservableCard) KnownColor() (Color, bool) { return o.Color, true }

// KnownValue implements Card
func (o ObservableCard) KnownValue() (Value, bool) { return o.Value, true }

// ColorProbability implements Card with certainty
func (o ObservableCard) ColorProbability(c Color) float64 {
	if c == o.Color {
		return 1
	}
	return 0
}

// ValueProbability implements Card with certainty
func (o ObservableCard) ValueProbability(v Value) float64 {
	if v == o.Value {
		return 1
	}
	return 0
}
