// Package state implements the agent's belief state: the public game state it
// can observe plus a probability distribution over the identity of each of its
// own concealed cards.
package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
)

const (
	// MaxNoteTokens is the number of blue (hint) tokens.
	MaxNoteTokens = 8
	// MaxStormTokens is the number of red (mistake) tokens; the game ends when
	// all of them are spent.
	MaxStormTokens = 3

	probabilityTolerance = 1e-3
)

var (
	// ErrInvariantViolation means the belief state disagrees with the deck or
	// with itself. It indicates a bookkeeping bug or a desynchronised snapshot.
	ErrInvariantViolation = errors.New("belief state invariant violated")

	// ErrUnknownPlayer is returned for events naming a player not at the table.
	ErrUnknownPlayer = errors.New("unknown player")
)

// AgentState is the belief-state root for one agent in one game
type AgentState struct {
	Name    string
	Seat    int
	Players []string

	// Fireworks is the stack height per color. Index 0 unused.
	Fireworks   [card.NumColors + 1]int
	DiscardPile card.Counts

	// PlayerHands holds every teammate's hand keyed by seat.
	PlayerHands map[int]*card.Hand

	// Hand is the agent's own concealed hand.
	Hand     []*card.HiddenCard
	HandSize int

	UsedNoteTokens  int
	UsedStormTokens int
	CurrentPlayer   string

	// JustHinted holds the own-hand positions touched by the latest hint
	// received since the agent last acted.
	JustHinted map[int]bool

	resynced []string
}

// New builds the belief state for player name from the first snapshot of a game
func New(snap Snapshot, name string) (*AgentState, error) {
	s := &AgentState{
		Name:        name,
		Seat:        -1,
		PlayerHands: make(map[int]*card.Hand),
		JustHinted:  make(map[int]bool),
	}
	for seat, p := range snap.Players {
		if p.Name == name {
			s.Seat = seat
			break
		}
	}
	if s.Seat < 0 {
		return nil, fmt.Errorf("%w: %s is not seated", ErrUnknownPlayer, name)
	}

	size := snap.HandSize
	if size <= 0 {
		size = StartingHandSize(len(snap.Players))
	}
	s.Hand = make([]*card.HiddenCard, size)
	for i := range s.Hand {
		s.Hand[i] = card.NewHiddenCard()
	}

	if err := s.UpdateState(snap); err != nil {
		return nil, err
	}
	if err := s.UpdateCurrentBelief(); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateState re-syncs every public field from a server snapshot
func (s *AgentState) UpdateState(snap Snapshot) error {
	if snap.UsedNoteTokens < 0 || snap.UsedNoteTokens > MaxNoteTokens {
		return fmt.Errorf("%w: %d note tokens used", ErrInvariantViolation, snap.UsedNoteTokens)
	}
	if snap.UsedStormTokens < 0 || snap.UsedStormTokens > MaxStormTokens {
		return fmt.Errorf("%w: %d storm tokens used", ErrInvariantViolation, snap.UsedStormTokens)
	}
	s.UsedNoteTokens = snap.UsedNoteTokens
	s.UsedStormTokens = snap.UsedStormTokens
	s.CurrentPlayer = snap.CurrentPlayer
	s.Players = snap.PlayerNames()

	s.Fireworks = [card.NumColors + 1]int{}
	for color, played := range snap.Fireworks {
		if !color.Valid() {
			return fmt.Errorf("%w: firework color %d", card.ErrUnknownAttribute, color)
		}
		if len(played) == 0 {
			continue
		}
		height := int(played[len(played)-1].Value)
		if height < 0 || height > int(card.MaxValue) {
			return fmt.Errorf("%w: %s firework at height %d", ErrInvariantViolation, color, height)
		}
		s.Fireworks[color] = height
	}

	s.DiscardPile = card.Counts{}
	for _, id := range snap.DiscardPile {
		if !id.Valid() {
			return fmt.Errorf("%w: discarded card %v", card.ErrUnknownAttribute, id)
		}
		s.DiscardPile.Add(id, 1)
	}

	s.resynced = s.resynced[:0]
	for seat, p := range snap.Players {
		if seat == s.Seat {
			continue
		}
		hand, ok := s.PlayerHands[seat]
		if !ok || hand.Player != p.Name {
			s.PlayerHands[seat] = card.NewHand(p.Name, p.Hand)
			continue
		}
		if !hand.Sync(p.Hand) {
			s.resynced = append(s.resynced, p.Name)
		}
	}

	// The own hand only changes through action results
	s.HandSize = len(s.Hand)

	_, err := s.ObservedCounts()
	return err
}

// Resynced names the teammates whose tracked hand disagreed with the last
// snapshot and had to be rebuilt, losing their hint flags.
func (s *AgentState) Resynced() []string {
	return s.resynced
}

// HandleActionResult threads the effects of an acknowledged action into the
// hidden hand and the teammates' hint flags
func (s *AgentState) HandleActionResult(result action.Result) error {
	if result.Source() == s.Name {
		clear(s.JustHinted)
	}

	switch r := result.(type) {
	case action.HintResult:
		if err := s.applyHint(r); err != nil {
			return err
		}
	case action.PlayResult:
		if err := s.removeCard(r.From, r.Index, r.HandSize); err != nil {
			return err
		}
	case action.DiscardResult:
		if err := s.removeCard(r.From, r.Index, r.HandSize); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported action result %T", result)
	}

	if next := result.NextPlayer(); next != "" {
		s.CurrentPlayer = next
	}
	return nil
}

func (s *AgentState) applyHint(r action.HintResult) error {
	if err := r.Attribute.Validate(); err != nil {
		return err
	}

	if r.To != s.Name {
		seat, ok := s.SeatOf(r.To)
		if !ok {
			return fmt.Errorf("%w: hint to %s", ErrUnknownPlayer, r.To)
		}
		return s.PlayerHands[seat].ApplyHint(r.Attribute, r.Positions)
	}

	touched := make(map[int]bool, len(r.Positions))
	for _, p := range r.Positions {
		if p < 0 || p >= len(s.Hand) {
			return fmt.Errorf("%w: hint position %d outside own hand of %d", ErrInvariantViolation, p, len(s.Hand))
		}
		touched[p] = true
	}
	for i, h := range s.Hand {
		var err error
		if touched[i] {
			err = h.SetHint(r.Attribute)
		} else {
			err = h.Exclude(r.Attribute)
		}
		if err != nil {
			return err
		}
	}
	s.JustHinted = touched
	return nil
}

func (s *AgentState) removeCard(player string, index, handSize int) error {
	if player == s.Name {
		if index < 0 || index >= len(s.Hand) {
			return fmt.Errorf("%w: own card index %d outside hand of %d", ErrInvariantViolation, index, len(s.Hand))
		}
		s.Hand = slices.Delete(s.Hand, index, index+1)
		for len(s.Hand) < handSize {
			s.Hand = append(s.Hand, card.NewHiddenCard())
		}
		s.HandSize = len(s.Hand)
		return nil
	}

	seat, ok := s.SeatOf(player)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, player)
	}
	_, err := s.PlayerHands[seat].Remove(index)
	return err
}

// SeatOf returns the turn-order index of a player
func (s *AgentState) SeatOf(name string) (int, bool) {
	for seat, p := range s.Players {
		if p == name {
			return seat, true
		}
	}
	return -1, false
}

// NextSeat returns the seat that acts after seat
func (s *AgentState) NextSeat(seat int) int {
	if len(s.Players) == 0 {
		return seat
	}
	return (seat + 1) % len(s.Players)
}

// Height returns the current stack height of a color
func (s *AgentState) Height(c card.Color) int {
	if !c.Valid() {
		return 0
	}
	return s.Fireworks[c]
}

// MinHeight returns the lowest stack height across all colors
func (s *AgentState) MinHeight() int {
	lowest := int(card.MaxValue)
	for _, c := range card.Colors {
		lowest = min(lowest, s.Fireworks[c])
	}
	return lowest
}

// Score is the sum of every firework's height
func (s *AgentState) Score() int {
	score := 0
	for _, c := range card.Colors {
		score += s.Fireworks[c]
	}
	return score
}

// RemainingNoteTokens returns how many hints can still be given
func (s *AgentState) RemainingNoteTokens() int {
	return MaxNoteTokens - s.UsedNoteTokens
}

// JustHintedIndices returns the just-hinted positions in ascending order
func (s *AgentState) JustHintedIndices() []int {
	indices := make([]int, 0, len(s.JustHinted))
	for i, ok := range s.JustHinted {
		if ok {
			indices = append(indices, i)
		}
	}
	slices.Sort(indices)
	return indices
}

// ObservedCounts counts every copy visible to the agent: teammates' hands,
// played fireworks and the discard pile. It fails if any card is seen more
// often than the deck contains it.
func (s *AgentState) ObservedCounts() (card.Counts, error) {
	var counts card.Counts
	for _, seat := range s.teammateSeats() {
		for _, c := range s.PlayerHands[seat].Cards {
			counts.Add(c.Identity, 1)
		}
	}
	for _, c := range card.Colors {
		for v := card.Value(1); int(v) <= s.Fireworks[c]; v++ {
			counts.Add(card.NewIdentity(c, v), 1)
		}
	}
	counts.Merge(&s.DiscardPile)

	for _, c := range card.Colors {
		for _, v := range card.Values {
			if seen, limit := counts.At(c, v), card.Multiplicity(c, v); seen > limit {
				return counts, fmt.Errorf("%w: observed %d copies of %s, deck has %d", ErrInvariantViolation, seen, card.NewIdentity(c, v), limit)
			}
		}
	}
	return counts, nil
}

func (s *AgentState) teammateSeats() []int {
	seats := make([]int, 0, len(s.PlayerHands))
	for seat := range s.PlayerHands {
		seats = append(seats, seat)
	}
	slices.Sort(seats)
	return seats
}
