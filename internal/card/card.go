// Package card models the Hanabi deck: colors, values, the fixed deck
// composition, and the two views the agent has of a card (observed or hidden).
package card

import (
	"fmt"
	"strings"
)

// Color is one of the five firework colors. The zero value means unknown.
type Color int

const (
	NoColor Color = iota
	White
	Red
	Blue
	Yellow
	Green
)

// NumColors is the number of real colors in the deck.
const NumColors = 5

// Colors lists every real color in a fixed order.
var Colors = [NumColors]Color{White, Red, Blue, Yellow, Green}

// String returns the display name of a color
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	case Yellow:
		return "Yellow"
	case Green:
		return "Green"
	default:
		return "?"
	}
}

// WireName returns the lower-case name the game server uses
func (c Color) WireName() string {
	return strings.ToLower(c.String())
}

// Valid reports whether c is one of the five real colors
func (c Color) Valid() bool {
	return c >= White && c <= Green
}

// ParseColor converts a server color name into a Color
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	case "yellow":
		return Yellow, nil
	case "green":
		return Green, nil
	default:
		return NoColor, fmt.Errorf("%w: unknown color %q", ErrUnknownAttribute, s)
	}
}

// Value is a card rank from 1 to 5. The zero value means unknown.
type Value int

const (
	NoValue Value = 0
	// MaxValue is the highest card value and the height of a complete firework.
	MaxValue Value = 5
)

// NumValues is the number of distinct card values.
const NumValues = 5

// Values lists every card value in ascending order.
var Values = [NumValues]Value{1, 2, 3, 4, 5}

// String returns the value as a digit
func (v Value) String() string {
	if !v.Valid() {
		return "?"
	}
	return fmt.Sprintf("%d", int(v))
}

// Valid reports whether v is between 1 and 5
func (v Value) Valid() bool {
	return v >= 1 && v <= MaxValue
}

// perColor holds how many copies of each value exist in a single color.
// Index 0 unused.
var perColor = [NumValues + 1]int{0, 3, 2, 2, 2, 1}

const (
	// CardsPerColor is the number of cards of any one color in the deck.
	CardsPerColor = 10
	// DeckSize is the total number of cards in the deck.
	DeckSize = NumColors * CardsPerColor
	// MaxScore is the score of a game with every firework complete.
	MaxScore = NumColors * int(MaxValue)
)

// Multiplicity returns how many copies of (c, v) exist in the deck
func Multiplicity(c Color, v Value) int {
	if !c.Valid() || !v.Valid() {
		return 0
	}
	return perColor[v]
}

// ValueMultiplicity returns how many cards of value v exist across all colors
func ValueMultiplicity(v Value) int {
	if !v.Valid() {
		return 0
	}
	return perColor[v] * NumColors
}

// ColorMultiplicity returns how many cards of color c exist across all values
func ColorMultiplicity(c Color) int {
	if !c.Valid() {
		return 0
	}
	return CardsPerColor
}

// Identity is the (color, value) pair that identifies a card. It is comparable
// and used as a counting key.
type Identity struct {
	Color Color `json:"color"`
	Value Value `json:"value"`
}

// NewIdentity creates an identity
func NewIdentity(c Color, v Value) Identity {
	return Identity{Color: c, Value: v}
}

// String returns e.g. "Red 3"
func (id Identity) String() string {
	return fmt.Sprintf("%s %s", id.Color, id.Value)
}

// Valid reports whether both halves of the identity are known
func (id Identity) Valid() bool {
	return id.Color.Valid() && id.Value.Valid()
}

// Deck returns the 50 card identities of a full deck, ordered by color then value
func Deck() []Identity {
	cards := make([]Identity, 0, DeckSize)
	for _, c := range Colors {
		for _, v := range Values {
			for i := 0; i < Multiplicity(c, v); i++ {
				cards = append(cards, Identity{Color: c, Value: v})
			}
		}
	}
	return cards
}

// Card is the read-only knowledge an agent has about a card, whether it is
// fully observed or only known through hints and inference.
type Card interface {
	KnownColor() (Color, bool)
	KnownValue() (Value, bool)
	ColorProbability(c Color) float64
	ValueProbability(v Value) float64
}
