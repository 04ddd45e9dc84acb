// Package action defines the moves an agent can choose and the server
// acknowledgements that feed back into the belief state.
package action

import (
	"fmt"

	"github.com/lox/hanabot/internal/card"
)

// Kind identifies which of the three moves an action is
type Kind int

const (
	KindHint Kind = iota + 1
	KindPlay
	KindDiscard
)

// String returns the name of the move
func (k Kind) String() string {
	switch k {
	case KindHint:
		return "hint"
	case KindPlay:
		return "play"
	case KindDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Action is an immutable move chosen by a rule. The set of implementations is
// closed: Hint, PlayCard and DiscardCard.
type Action interface {
	Kind() Kind
	Source() string
	String() string
	sealed()
}

// Hint tells another player which of their cards share a color or a value
type Hint struct {
	From      string
	To        string
	Attribute card.Attribute
}

func (Hint) Kind() Kind { return KindHint }
func (h Hint) Source() string { return h.From }
func (Hint) sealed() {}
func (h Hint) String() string {
	return fmt.Sprintf("%s hinted %s with %s", h.From, h.To, h.Attribute)
}

// PlayCard plays the card at Index of the acting player's hand
type PlayCard struct {
	From  string
	Index int
}

func (PlayCard) Kind() Kind { return KindPlay }
func (p PlayCard) Source() string { return p.From }
func (PlayCard) sealed() {}
func (p PlayCard) String() string {
	return fmt.Sprintf("%s played the card in position %d", p.From, p.Index)
}

// DiscardCard discards the card at Index of the acting player's hand
type DiscardCard struct {
	From  string
	Index int
}

func (DiscardCard) Kind() Kind { return KindDiscard }
func (d DiscardCard) Source() string { return d.From }
func (DiscardCard) sealed() {}
func (d DiscardCard) String() string {
	return fmt.Sprintf("%s discarded the card in position %d", d.From, d.Index)
}

var (
	_ Action = Hint{}
	_ Action = PlayCard{}
	_ Action = DiscardCard{}
)
