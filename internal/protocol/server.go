package protocol

import (
	"fmt"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

// Server-side conversions. hanabot only plays as a client; these answer its
// requests in the in-process server of the client tests.

// NewGameState converts a snapshot back to its wire form to answer
// get_game_state.
func NewGameState(snap state.Snapshot) GameState {
	g := GameState{
		CurrentPlayer:   snap.CurrentPlayer,
		Players:         make([]Player, len(snap.Players)),
		UsedNoteTokens:  snap.UsedNoteTokens,
		UsedStormTokens: snap.UsedStormTokens,
		TableCards:      make(map[string][]Card, card.NumColors),
		DiscardPile:     wireCards(snap.DiscardPile),
		HandSize:        snap.HandSize,
	}
	for i, p := range snap.Players {
		g.Players[i] = Player{Name: p.Name, Hand: wireCards(p.Hand)}
	}
	for _, col := range card.Colors {
		g.TableCards[col.WireName()] = wireCards(snap.Fireworks[col])
	}
	return g
}

// ActionFromRequest parses a move request. It is the inverse of
// RequestFromAction.
func ActionFromRequest(m *Message) (action.Action, error) {
	switch m.Type {
	case TypeHint:
		var req HintRequest
		if err := m.Decode(&req); err != nil {
			return nil, err
		}
		attr, err := parseAttribute(req.Type, req.Color, req.Value)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", m.Type, err)
		}
		return action.Hint{From: req.Sender, To: req.Destination, Attribute: attr}, nil
	case TypePlayCard, TypeDiscardCard:
		var req CardRequest
		if err := m.Decode(&req); err != nil {
			return nil, err
		}
		if m.Type == TypePlayCard {
			return action.PlayCard{From: req.Sender, Index: req.HandCardOrdered}, nil
		}
		return action.DiscardCard{From: req.Sender, Index: req.HandCardOrdered}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, m.Type)
	}
}

// MessageFromResult builds the broadcast announcing an accepted action
func MessageFromResult(r action.Result) (*Message, error) {
	switch r := r.(type) {
	case action.HintResult:
		kind, color, value := wireAttribute(r.Attribute)
		return NewMessage(TypeHintData, HintData{
			Source:      r.From,
			Destination: r.To,
			Type:        kind,
			Color:       color,
			Value:       value,
			Positions:   r.Positions,
			Player:      r.Next,
		})
	case action.PlayResult:
		t := TypeThunderStrike
		if r.Success {
			t = TypeMoveOK
		}
		return NewMessage(t, CardResult{
			LastPlayer:    r.From,
			Player:        r.Next,
			Card:          CardFrom(r.Card),
			CardHandIndex: r.Index,
			HandLength:    r.HandSize,
		})
	case action.DiscardResult:
		return NewMessage(TypeActionValid, CardResult{
			Action:        discardAction,
			LastPlayer:    r.From,
			Player:        r.Next,
			Card:          CardFrom(r.Card),
			CardHandIndex: r.Index,
			HandLength:    r.HandSize,
		})
	default:
		return nil, fmt.Errorf("%w: result %T", ErrUnknownMessage, r)
	}
}
