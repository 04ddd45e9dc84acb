package protocol

import (
	"fmt"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

const discardAction = "discard"

// CardFrom converts an identity to its wire form
func CardFrom(id card.Identity) Card {
	return Card{Color: id.Color.WireName(), Value: int(id.Value)}
}

// Identity parses a wire card
func (c Card) Identity() (card.Identity, error) {
	col, err := card.ParseColor(c.Color)
	if err != nil {
		return card.Identity{}, err
	}
	v := card.Value(c.Value)
	if !v.Valid() {
		return card.Identity{}, fmt.Errorf("%w: value %d", card.ErrUnknownAttribute, c.Value)
	}
	return card.NewIdentity(col, v), nil
}

func identities(cards []Card) ([]card.Identity, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	ids := make([]card.Identity, len(cards))
	for i, c := range cards {
		id, err := c.Identity()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func wireCards(ids []card.Identity) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = CardFrom(id)
	}
	return cards
}

// Snapshot converts the game state as seen by player me. Whatever the server
// sends for me's own hand is dropped. The server reports the dealt hand size
// even once the deck runs out, so HandSize is capped by the shortest teammate
// hand.
func (g GameState) Snapshot(me string) (state.Snapshot, error) {
	snap := state.Snapshot{
		Players:         make([]state.PlayerView, len(g.Players)),
		Fireworks:       make(map[card.Color][]card.Identity, len(g.TableCards)),
		UsedNoteTokens:  g.UsedNoteTokens,
		UsedStormTokens: g.UsedStormTokens,
		CurrentPlayer:   g.CurrentPlayer,
		HandSize:        g.HandSize,
	}
	for i, p := range g.Players {
		snap.Players[i].Name = p.Name
		if p.Name == me {
			continue
		}
		hand, err := identities(p.Hand)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("hand of %s: %w", p.Name, err)
		}
		snap.Players[i].Hand = hand
		snap.HandSize = min(snap.HandSize, len(hand))
	}
	for name, played := range g.TableCards {
		col, err := card.ParseColor(name)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("table cards: %w", err)
		}
		ids, err := identities(played)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("%s firework: %w", name, err)
		}
		snap.Fireworks[col] = ids
	}
	discards, err := identities(g.DiscardPile)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("discard pile: %w", err)
	}
	snap.DiscardPile = discards
	return snap, nil
}

func parseAttribute(kind, color string, value int) (card.Attribute, error) {
	k, err := card.ParseAttributeKind(kind)
	if err != nil {
		return card.Attribute{}, err
	}
	var attr card.Attribute
	switch k {
	case card.KindColor:
		col, err := card.ParseColor(color)
		if err != nil {
			return card.Attribute{}, err
		}
		attr = card.ColorAttribute(col)
	case card.KindValue:
		attr = card.ValueAttribute(card.Value(value))
	}
	return attr, attr.Validate()
}

func wireAttribute(attr card.Attribute) (kind, color string, value int) {
	switch attr.Kind {
	case card.KindColor:
		return attr.Kind.String(), attr.Color.WireName(), 0
	case card.KindValue:
		return attr.Kind.String(), "", int(attr.Value)
	default:
		return attr.Kind.String(), "", 0
	}
}

// RequestFromAction builds the request that performs a chosen action
func RequestFromAction(a action.Action) (*Message, error) {
	switch a := a.(type) {
	case action.Hint:
		if err := a.Attribute.Validate(); err != nil {
			return nil, err
		}
		kind, color, value := wireAttribute(a.Attribute)
		return NewMessage(TypeHint, HintRequest{
			Sender:      a.From,
			Destination: a.To,
			Type:        kind,
			Color:       color,
			Value:       value,
		})
	case action.PlayCard:
		return NewMessage(TypePlayCard, CardRequest{Sender: a.From, HandCardOrdered: a.Index})
	case action.DiscardCard:
		return NewMessage(TypeDiscardCard, CardRequest{Sender: a.From, HandCardOrdered: a.Index})
	default:
		return nil, fmt.Errorf("%w: action %T", ErrUnknownMessage, a)
	}
}

// ResultFromMessage converts a server acknowledgement into an action result
func ResultFromMessage(m *Message) (action.Result, error) {
	switch m.Type {
	case TypeHintData:
		var data HintData
		if err := m.Decode(&data); err != nil {
			return nil, err
		}
		attr, err := parseAttribute(data.Type, data.Color, data.Value)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", m.Type, err)
		}
		return action.HintResult{
			Hint:      action.Hint{From: data.Source, To: data.Destination, Attribute: attr},
			Positions: data.Positions,
			Next:      data.Player,
		}, nil

	case TypeActionValid, TypeMoveOK, TypeThunderStrike:
		var data CardResult
		if err := m.Decode(&data); err != nil {
			return nil, err
		}
		id, err := data.Card.Identity()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", m.Type, err)
		}
		if m.Type == TypeActionValid {
			if data.Action != "" && data.Action != discardAction {
				return nil, fmt.Errorf("%w: %s with action %q", ErrUnknownMessage, m.Type, data.Action)
			}
			return action.DiscardResult{
				DiscardCard: action.DiscardCard{From: data.LastPlayer, Index: data.CardHandIndex},
				Card:        id,
				HandSize:    data.HandLength,
				Next:        data.Player,
			}, nil
		}
		return action.PlayResult{
			PlayCard: action.PlayCard{From: data.LastPlayer, Index: data.CardHandIndex},
			Card:     id,
			Success:  m.Type == TypeMoveOK,
			HandSize: data.HandLength,
			Next:     data.Player,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, m.Type)
	}
}

