package card

import (
	"fmt"
	"strings"
)

var colorLetters = [NumColors + 1]byte{'?', 'W', 'R', 'B', 'Y', 'G'}

// Short returns the two-character notation, e.g. "R3"
func (id Identity) Short() string {
	if !id.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%d", colorLetters[id.Color], id.Value)
}

// ParseCards parses space-separated card notation into identities.
// Format: "R3 B1 W5" where each card is [Color][Value]
// Colors: W (white), R (red), B (blue), Y (yellow), G (green)
func ParseCards(s string) ([]Identity, error) {
	fields := strings.Fields(s)
	cards := make([]Identity, 0, len(fields))
	for i, f := range fields {
		id, err := ParseCard(f)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		cards = append(cards, id)
	}
	return cards, nil
}

// ParseCard parses a single card such as "R3"
func ParseCard(s string) (Identity, error) {
	if len(s) != 2 {
		return Identity{}, fmt.Errorf("%w: card %q", ErrUnknownAttribute, s)
	}

	var color Color
	switch s[0] {
	case 'W', 'w':
		color = White
	case 'R', 'r':
		color = Red
	case 'B', 'b':
		color = Blue
	case 'Y', 'y':
		color = Yellow
	case 'G', 'g':
		color = Green
	default:
		return Identity{}, fmt.Errorf("%w: color '%c'", ErrUnknownAttribute, s[0])
	}

	value := Value(s[1] - '0')
	if !value.Valid() {
		return Identity{}, fmt.Errorf("%w: value '%c'", ErrUnknownAttribute, s[1])
	}
	return NewIdentity(color, value), nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Identity {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}
