// Package protocol defines the JSON messages exchanged with the Hanabi game
// server and converts them to and from the agent's own types.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownMessage is returned for a message type the converters do not handle
var ErrUnknownMessage = errors.New("unknown message type")

// MessageType identifies the payload carried by a Message
type MessageType string

const (
	// Client -> Server
	TypePlayerAdd    MessageType = "player_add"
	TypeStartRequest MessageType = "start_request"
	TypeReady        MessageType = "ready"
	TypeGetGameState MessageType = "get_game_state"
	TypeHint         MessageType = "hint"
	TypePlayCard     MessageType = "play_card"
	TypeDiscardCard  MessageType = "discard_card"

	// Server -> Client
	TypeConnectionOK         MessageType = "connection_ok"
	TypeStartRequestAccepted MessageType = "start_request_accepted"
	TypeStartGame            MessageType = "start_game"
	TypeGameState            MessageType = "game_state"
	TypeHintData             MessageType = "hint_data"
	TypeActionValid          MessageType = "action_valid"
	TypeMoveOK               MessageType = "move_ok"
	TypeThunderStrike        MessageType = "thunder_strike"
	TypeActionInvalid        MessageType = "action_invalid"
	TypeInvalidData          MessageType = "invalid_data"
	TypeGameOver             MessageType = "game_over"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope every payload travels in
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps data in an envelope of the given type
func NewMessage(t MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", t, err)
	}
	return &Message{Type: t, Data: raw}, nil
}

// Decode unmarshals the payload into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("decoding %s: empty payload", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", m.Type, err)
	}
	return nil
}

// Client -> Server payloads

// PlayerAdd asks to join the lobby
type PlayerAdd struct {
	Name string `json:"name"`
}

// StartRequest marks the player ready to start
type StartRequest struct {
	Name string `json:"name"`
}

// Ready acknowledges start_game
type Ready struct {
	Name string `json:"name"`
}

// GetGameState requests a game_state snapshot
type GetGameState struct {
	Name string `json:"name"`
}

// HintRequest gives a hint. Exactly one of Color and Value is set, matching Type.
type HintRequest struct {
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	Type        string `json:"type"`
	Color       string `json:"color,omitempty"`
	Value       int    `json:"value,omitempty"`
}

// CardRequest plays or discards the card at HandCardOrdered
type CardRequest struct {
	Sender          string `json:"sender"`
	HandCardOrdered int    `json:"handCardOrdered"`
}

// Server -> Client payloads

// ConnectionOK accepts a player into the lobby
type ConnectionOK struct {
	Name string `json:"name"`
}

// StartRequestAccepted reports how many players are ready
type StartRequestAccepted struct {
	AcceptedStartRequests int `json:"acceptedStartRequests"`
	ConnectedPlayers      int `json:"connectedPlayers"`
}

// StartGame announces the game with its seating order
type StartGame struct {
	Players []string `json:"players"`
}

// Card is a card as the server writes it
type Card struct {
	Color string `json:"color"`
	Value int    `json:"value"`
}

// Player is one seat in a game_state. The requesting player's hand is empty.
type Player struct {
	Name string `json:"name"`
	Hand []Card `json:"hand"`
}

// GameState is the public snapshot sent in reply to get_game_state
type GameState struct {
	CurrentPlayer   string            `json:"currentPlayer"`
	Players         []Player          `json:"players"`
	UsedNoteTokens  int               `json:"usedNoteTokens"`
	UsedStormTokens int               `json:"usedStormTokens"`
	TableCards      map[string][]Card `json:"tableCards"`
	DiscardPile     []Card            `json:"discardPile"`
	HandSize        int               `json:"handSize"`
}

// HintData is broadcast after an accepted hint. Player is who moves next.
type HintData struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Type        string `json:"type"`
	Color       string `json:"color,omitempty"`
	Value       int    `json:"value,omitempty"`
	Positions   []int  `json:"positions"`
	Player      string `json:"player"`
}

// CardResult is broadcast after a discard (action_valid) or a play (move_ok
// or thunder_strike). HandLength is the acting player's hand after drawing.
type CardResult struct {
	Action        string `json:"action,omitempty"`
	LastPlayer    string `json:"lastPlayer"`
	Player        string `json:"player"`
	Card          Card   `json:"card"`
	CardHandIndex int    `json:"cardHandIndex"`
	HandLength    int    `json:"handLength"`
}

// ActionInvalid rejects a move
type ActionInvalid struct {
	Message string `json:"message"`
}

// InvalidData rejects a malformed request
type InvalidData struct {
	Data string `json:"data"`
}

// GameOver ends the game with its final score
type GameOver struct {
	Score   int    `json:"score"`
	Message string `json:"message,omitempty"`
}
