package state

import "github.com/lox/hanabot/internal/card"

// PlayerView is one player as seen in a server snapshot. The receiving
// player's own hand is always empty.
type PlayerView struct {
	Name string
	Hand []card.Identity
}

// Snapshot is the public game state the server sends after every event
type Snapshot struct {
	Players []PlayerView

	// Fireworks lists the cards played on each color's stack, bottom first.
	Fireworks map[card.Color][]card.Identity

	DiscardPile     []card.Identity
	UsedNoteTokens  int
	UsedStormTokens int
	CurrentPlayer   string

	// HandSize is how many cards the receiving player holds. It sizes the
	// hidden hand when a belief state is created and is ignored afterwards.
	HandSize int
}

// PlayerNames returns the player names in turn order
func (s Snapshot) PlayerNames() []string {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	return names
}

// StartingHandSize is the number of cards each player is dealt
func StartingHandSize(players int) int {
	if players <= 3 {
		return 5
	}
	return 4
}
