package card

import (
	"fmt"
	"strings"
)

// Hand is the ordered set of cards a teammate holds. Draws are appended at the
// end; plays and discards remove by index.
type Hand struct {
	Player string
	Cards  []ObservableCard
}

// NewHand builds an un-hinted hand from server identities
func NewHand(player string, cards []Identity) *Hand {
	h := &Hand{Player: player, Cards: make([]ObservableCard, len(cards))}
	for i, id := range cards {
		h.Cards[i] = ObservableCard{Identity: id}
	}
	return h
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.Cards)
}

// Draw appends a freshly drawn card
func (h *Hand) Draw(id Identity) {
	h.Cards = append(h.Cards, ObservableCard{Identity: id})
}

// Remove takes the card at index out of the hand
func (h *Hand) Remove(index int) (ObservableCard, error) {
	if index < 0 || index >= len(h.Cards) {
		return ObservableCard{}, fmt.Errorf("player %s: card index %d out of range [0,%d)", h.Player, index, len(h.Cards))
	}
	removed := h.Cards[index]
	h.Cards = append(h.Cards[:index], h.Cards[index+1:]...)
	return removed, nil
}

// ApplyHint marks the hinted attribute on every listed position
func (h *Hand) ApplyHint(attr Attribute, positions []int) error {
	for _, p := range positions {
		if p < 0 || p >= len(h.Cards) {
			return fmt.Errorf("player %s: hint position %d out of range [0,%d)", h.Player, p, len(h.Cards))
		}
		if err := h.Cards[p].SetHint(attr); err != nil {
			return err
		}
	}
	return nil
}

// ConsistentWith reports whether the tracked hand is a prefix of the snapshot,
// which is what a server snapshot looks like after zero or more draws.
func (h *Hand) ConsistentWith(cards []Identity) bool {
	if len(cards) < len(h.Cards) {
		return false
	}
	for i, c := range h.Cards {
		if c.Identity != cards[i] {
			return false
		}
	}
	return true
}

// Sync reconciles the hand with a server snapshot. When the snapshot extends
// the tracked hand, hint flags are kept and new cards appended; otherwise the
// hand is rebuilt and Sync returns false.
func (h *Hand) Sync(cards []Identity) bool {
	if h.ConsistentWith(cards) {
		for _, id := range cards[len(h.Cards):] {
			h.Draw(id)
		}
		return true
	}
	rebuilt := NewHand(h.Player, cards)
	h.Cards = rebuilt.Cards
	return false
}

// Identities returns the identities in hand order
func (h *Hand) Identities() []Identity {
	ids := make([]Identity, len(h.Cards))
	for i, c := range h.Cards {
		ids[i] = c.Identity
	}
	return ids
}

func (h *Hand) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s", h.Player)
	for i, c := range h.Cards {
		fmt.Fprintf(&b, "\n\t- %d: %s", i, c.Identity)
	}
	return b.String()
}
