package action

import (
	"fmt"

	"github.com/lox/hanabot/internal/card"
)

// Result is a server-acknowledged action. Every result names the player whose
// turn comes next.
type Result interface {
	Action
	NextPlayer() string
}

// HintResult is a hint the server accepted, with the positions it touched
type HintResult struct {
	Hint
	Positions []int
	Next      string
}

func (r HintResult) NextPlayer() string { return r.Next }

func (r HintResult) String() string {
	return fmt.Sprintf("%s in positions %v", r.Hint, r.Positions)
}

// PlayResult is a played card. Success is false when the play cost a storm
// token ("thunder strike").
type PlayResult struct {
	PlayCard
	Card     card.Identity
	Success  bool
	HandSize int
	Next     string
}

func (r PlayResult) NextPlayer() string { return r.Next }

func (r PlayResult) String() string {
	outcome := "successfully"
	if !r.Success {
		outcome = "by mistake"
	}
	return fmt.Sprintf("%s played the card %s %s", r.From, r.Card, outcome)
}

// DiscardResult is an accepted discard
type DiscardResult struct {
	DiscardCard
	Card     card.Identity
	HandSize int
	Next     string
}

func (r DiscardResult) NextPlayer() string { return r.Next }

func (r DiscardResult) String() string {
	return fmt.Sprintf("%s discarded the card %s", r.From, r.Card)
}

var (
	_ Result = HintResult{}
	_ Result = PlayResult{}
	_ Result = DiscardResult{}
)
