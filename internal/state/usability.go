package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/hanabot/internal/card"
)

// ErrUnknownCheck is returned for a usability check outside the known set.
var ErrUnknownCheck = errors.New("unknown usability check")

// Check names a usability query
type Check int

const (
	CheckPlayable Check = iota + 1
	CheckUseless
	CheckUseful
	CheckDispensable
)

func (c Check) String() string {
	switch c {
	case CheckPlayable:
		return "playable"
	case CheckUseless:
		return "useless"
	case CheckUseful:
		return "useful"
	case CheckDispensable:
		return "dispensable"
	default:
		return fmt.Sprintf("check(%d)", int(c))
	}
}

// Valid reports whether c is one of the known checks
func (c Check) Valid() bool {
	return c >= CheckPlayable && c <= CheckDispensable
}

// ParseCheck parses a check name such as "playable"
func ParseCheck(s string) (Check, error) {
	for c := CheckPlayable; c <= CheckDispensable; c++ {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCheck, s)
}

// MarshalText implements encoding.TextMarshaler
func (c Check) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCheck, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Check) UnmarshalText(text []byte) error {
	parsed, err := ParseCheck(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// probabilities at or below this are treated as impossible
const impossible = 1e-9

// CheckUsability answers a usability query about any card, own or observed.
// Threshold only applies to the probabilistic checks.
func (s *AgentState) CheckUsability(c card.Card, check Check, threshold float64) (bool, error) {
	switch check {
	case CheckPlayable:
		return s.IsPlayable(c), nil
	case CheckUseless:
		return s.IsUseless(c), nil
	case CheckUseful:
		return s.Usefulness(c) >= threshold, nil
	case CheckDispensable:
		return s.Dispensability(c) >= threshold, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCheck, check)
	}
}

// IsPlayable reports whether every identity the card could still have is the
// next card its firework needs.
func (s *AgentState) IsPlayable(c card.Card) bool {
	candidates := Candidates(c)
	if len(candidates) == 0 {
		return false
	}
	for _, id := range candidates {
		if int(id.Value) != s.Fireworks[id.Color]+1 {
			return false
		}
	}
	return true
}

// IsUseless reports whether no identity the card could still have can ever be
// played: already on its stack, or blocked by a value whose copies are all
// discarded.
func (s *AgentState) IsUseless(c card.Card) bool {
	candidates := Candidates(c)
	if len(candidates) == 0 {
		return false
	}
	for _, id := range candidates {
		if !s.unreachable(id) {
			return false
		}
	}
	return true
}

func (s *AgentState) unreachable(id card.Identity) bool {
	height := s.Fireworks[id.Color]
	if int(id.Value) <= height {
		return true
	}
	for v := card.Value(height + 1); v <= id.Value; v++ {
		if s.DiscardPile.At(id.Color, v) >= card.Multiplicity(id.Color, v) {
			return true
		}
	}
	return false
}

// Usefulness is the probability that the card is the next one its color needs
func (s *AgentState) Usefulness(c card.Card) float64 {
	p := 0.0
	for _, col := range card.Colors {
		next := card.Value(s.Fireworks[col] + 1)
		if next > card.MaxValue {
			continue
		}
		p += c.ColorProbability(col) * c.ValueProbability(next)
	}
	return p
}

// Dispensability is one minus the highest probability that the card is a
// critical identity
func (s *AgentState) Dispensability(c card.Card) float64 {
	worst := 0.0
	for _, id := range s.CriticalCards() {
		worst = max(worst, c.ColorProbability(id.Color)*c.ValueProbability(id.Value))
	}
	return 1 - worst
}

// CriticalCards returns every unplayed identity with exactly one copy left
// outside the discard pile, ordered by color then value.
func (s *AgentState) CriticalCards() []card.Identity {
	var critical []card.Identity
	for _, col := range card.Colors {
		for _, v := range card.Values {
			if int(v) <= s.Fireworks[col] {
				continue
			}
			if s.DiscardPile.At(col, v) == card.Multiplicity(col, v)-1 {
				critical = append(critical, card.NewIdentity(col, v))
			}
		}
	}
	return critical
}

// IsCritical reports whether id is among CriticalCards
func (s *AgentState) IsCritical(id card.Identity) bool {
	if !id.Valid() || int(id.Value) <= s.Fireworks[id.Color] {
		return false
	}
	return s.DiscardPile.Get(id) == card.Multiplicity(id.Color, id.Value)-1
}

// Candidates lists the identities a card could still have: the product of
// its possible colors and possible values. For an observed card this is its
// identity alone.
func Candidates(c card.Card) []card.Identity {
	var colors []card.Color
	if col, ok := c.KnownColor(); ok {
		colors = []card.Color{col}
	} else {
		for _, col := range card.Colors {
			if c.ColorProbability(col) > impossible {
				colors = append(colors, col)
			}
		}
	}

	var values []card.Value
	if v, ok := c.KnownValue(); ok {
		values = []card.Value{v}
	} else {
		for _, v := range card.Values {
			if c.ValueProbability(v) > impossible {
				values = append(values, v)
			}
		}
	}

	ids := make([]card.Identity, 0, len(colors)*len(values))
	for _, col := range colors {
		for _, v := range values {
			ids = append(ids, card.NewIdentity(col, v))
		}
	}
	return ids
}
