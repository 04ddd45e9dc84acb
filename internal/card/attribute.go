package card

import (
	"errors"
	"fmt"
)

// ErrUnknownAttribute is returned for hints or cards tagged with neither a
// valid color nor a valid value.
var ErrUnknownAttribute = errors.New("unknown card attribute")

// AttributeKind tags which half of a card a hint talks about
type AttributeKind int

const (
	KindColor AttributeKind = iota + 1
	KindValue
)

// String returns the wire name of the kind
func (k AttributeKind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// ParseAttributeKind converts "color" or "value" into a kind
func ParseAttributeKind(s string) (AttributeKind, error) {
	switch s {
	case "color":
		return KindColor, nil
	case "value":
		return KindValue, nil
	default:
		return 0, fmt.Errorf("%w: kind %q", ErrUnknownAttribute, s)
	}
}

// Attribute is a hint payload: either a color or a value, never both.
type Attribute struct {
	Kind  AttributeKind
	Color Color
	Value Value
}

// ColorAttribute builds a color hint payload
func ColorAttribute(c Color) Attribute {
	return Attribute{Kind: KindColor, Color: c}
}

// ValueAttribute builds a value hint payload
func ValueAttribute(v Value) Attribute {
	return Attribute{Kind: KindValue, Value: v}
}

// Validate checks that the attribute carries a real color or value matching its kind
func (a Attribute) Validate() error {
	switch a.Kind {
	case KindColor:
		if !a.Color.Valid() {
			return fmt.Errorf("%w: color %d", ErrUnknownAttribute, a.Color)
		}
	case KindValue:
		if !a.Value.Valid() {
			return fmt.Errorf("%w: value %d", ErrUnknownAttribute, a.Value)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrUnknownAttribute, a.Kind)
	}
	return nil
}

// Matches reports whether a card with the given identity is touched by the hint
func (a Attribute) Matches(id Identity) bool {
	switch a.Kind {
	case KindColor:
		return id.Color == a.Color
	case KindValue:
		return id.Value == a.Value
	default:
		return false
	}
}

// String returns e.g. "Red" or "3"
func (a Attribute) String() string {
	switch a.Kind {
	case KindColor:
		return a.Color.String()
	case KindValue:
		return a.Value.String()
	default:
		return "?"
	}
}

// ColorSet is a small bit set of colors
type ColorSet uint8

// Add returns the set with c added
func (s ColorSet) Add(c Color) ColorSet { return s | 1<<uint(c) }

// Has reports whether c is in the set
func (s ColorSet) Has(c Color) bool { return s&(1<<uint(c)) != 0 }

// Len returns the number of colors in the set
func (s ColorSet) Len() int {
	n := 0
	for _, c := range Colors {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// ValueSet is a small bit set of values
type ValueSet uint8

// Add returns the set with v added
func (s ValueSet) Add(v Value) ValueSet { return s | 1<<uint(v) }

// Has reports whether v is in the set
func (s ValueSet) Has(v Value) bool { return s&(1<<uint(v)) != 0 }

// Len returns the number of values in the set
func (s ValueSet) Len() int {
	n := 0
	for _, v := range Values {
		if s.Has(v) {
			n++
		}
	}
	return n
}
