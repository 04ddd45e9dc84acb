package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

var (
	// ErrGameOver is returned for actions submitted after the game ended
	ErrGameOver = errors.New("game is over")

	// ErrNotYourTurn is returned when a player acts out of turn
	ErrNotYourTurn = errors.New("not your turn")

	// ErrIllegalAction is returned for actions the rules forbid
	ErrIllegalAction = errors.New("illegal action")
)

// Game is a local referee holding the complete state of one game
type Game struct {
	players   []string
	hands     [][]card.Identity
	deck      []card.Identity
	fireworks [card.NumColors + 1]int
	discards  []card.Identity

	usedNotes  int
	usedStorms int
	current    int
	turns      int

	// remaining counts the turns left once the deck is empty, or -1
	remaining int
	over      bool
}

// NewGame shuffles a deck with rng and deals to players, who sit in the
// given order. The first player acts first.
func NewGame(players []string, rng *rand.Rand) (*Game, error) {
	if len(players) < 2 || len(players) > 5 {
		return nil, fmt.Errorf("game needs between 2 and 5 players, got %d", len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == "" || seen[p] {
			return nil, fmt.Errorf("invalid or duplicate player name %q", p)
		}
		seen[p] = true
	}

	deck := card.Deck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deal(players, deck), nil
}

// deal hands out cards from the top of deck one at a time, round the table
func deal(players []string, deck []card.Identity) *Game {
	g := &Game{
		players:   slices.Clone(players),
		hands:     make([][]card.Identity, len(players)),
		deck:      deck,
		remaining: -1,
	}
	size := state.StartingHandSize(len(players))
	for range size {
		for seat := range g.players {
			g.draw(seat)
		}
	}
	return g
}

func (g *Game) draw(seat int) {
	if len(g.deck) == 0 {
		return
	}
	g.hands[seat] = append(g.hands[seat], g.deck[0])
	g.deck = g.deck[1:]
}

func (g *Game) seatOf(name string) int {
	return slices.Index(g.players, name)
}

// Players returns the player names in turn order
func (g *Game) Players() []string {
	return slices.Clone(g.players)
}

// Current returns the name of the player to act
func (g *Game) Current() string {
	return g.players[g.current]
}

// Over reports whether the game has ended
func (g *Game) Over() bool {
	return g.over
}

// Bombed reports whether the game ended on the last storm token
func (g *Game) Bombed() bool {
	return g.usedStorms >= state.MaxStormTokens
}

// Score returns the sum of the firework heights, or 0 once the game bombed
func (g *Game) Score() int {
	if g.Bombed() {
		return 0
	}
	score := 0
	for _, c := range card.Colors {
		score += g.fireworks[c]
	}
	return score
}

// StormTokens returns the number of storm tokens spent
func (g *Game) StormTokens() int {
	return g.usedStorms
}

// Turns returns the number of actions taken
func (g *Game) Turns() int {
	return g.turns
}

// DeckSize returns the number of cards left to draw
func (g *Game) DeckSize() int {
	return len(g.deck)
}

// Snapshot returns the public state as seen by player: every hand except
// their own
func (g *Game) Snapshot(player string) (state.Snapshot, error) {
	seat := g.seatOf(player)
	if seat < 0 {
		return state.Snapshot{}, fmt.Errorf("%w: %s", state.ErrUnknownPlayer, player)
	}
	snap := g.board()
	snap.Players[seat].Hand = nil
	snap.HandSize = len(g.hands[seat])
	return snap, nil
}

// Board returns the state with every hand visible, for replays
func (g *Game) Board() state.Snapshot {
	return g.board()
}

func (g *Game) board() state.Snapshot {
	snap := state.Snapshot{
		Players:         make([]state.PlayerView, len(g.players)),
		Fireworks:       make(map[card.Color][]card.Identity, card.NumColors),
		DiscardPile:     slices.Clone(g.discards),
		UsedNoteTokens:  g.usedNotes,
		UsedStormTokens: g.usedStorms,
		CurrentPlayer:   g.players[g.current],
	}
	for seat, name := range g.players {
		snap.Players[seat] = state.PlayerView{Name: name, Hand: slices.Clone(g.hands[seat])}
	}
	for _, c := range card.Colors {
		stack := make([]card.Identity, 0, g.fireworks[c])
		for v := 1; v <= g.fireworks[c]; v++ {
			stack = append(stack, card.NewIdentity(c, card.Value(v)))
		}
		snap.Fireworks[c] = stack
	}
	return snap
}

// Apply performs a for the current player and returns what every player is
// told about it
func (g *Game) Apply(a action.Action) (action.Result, error) {
	if g.over {
		return nil, ErrGameOver
	}
	if a.Source() != g.Current() {
		return nil, fmt.Errorf("%w: %s acted during %s's turn", ErrNotYourTurn, a.Source(), g.Current())
	}

	var (
		result action.Result
		err    error
	)
	switch act := a.(type) {
	case action.Hint:
		result, err = g.hint(act)
	case action.PlayCard:
		result, err = g.play(act)
	case action.DiscardCard:
		result, err = g.discard(act)
	default:
		err = fmt.Errorf("%w: unsupported action %T", ErrIllegalAction, a)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g *Game) hint(h action.Hint) (action.Result, error) {
	if g.usedNotes >= state.MaxNoteTokens {
		return nil, fmt.Errorf("%w: no note tokens left", ErrIllegalAction)
	}
	if err := h.Attribute.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAction, err)
	}
	target := g.seatOf(h.To)
	if target < 0 {
		return nil, fmt.Errorf("%w: %s", state.ErrUnknownPlayer, h.To)
	}
	if target == g.current {
		return nil, fmt.Errorf("%w: %s hinted themselves", ErrIllegalAction, h.From)
	}

	var positions []int
	for i, id := range g.hands[target] {
		if h.Attribute.Matches(id) {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: %s touches no card of %s", ErrIllegalAction, h.Attribute, h.To)
	}

	g.usedNotes++
	g.advance()
	return action.HintResult{Hint: h, Positions: positions, Next: g.Current()}, nil
}

func (g *Game) take(index int) (card.Identity, error) {
	hand := g.hands[g.current]
	if index < 0 || index >= len(hand) {
		return card.Identity{}, fmt.Errorf("%w: card index %d outside hand of %d", ErrIllegalAction, index, len(hand))
	}
	id := hand[index]
	g.hands[g.current] = slices.Delete(hand, index, index+1)
	g.draw(g.current)
	return id, nil
}

func (g *Game) play(p action.PlayCard) (action.Result, error) {
	actor := g.current
	id, err := g.take(p.Index)
	if err != nil {
		return nil, err
	}

	success := g.fireworks[id.Color]+1 == int(id.Value)
	if success {
		g.fireworks[id.Color]++
		if id.Value == card.MaxValue && g.usedNotes > 0 {
			g.usedNotes--
		}
	} else {
		g.usedStorms++
		g.discards = append(g.discards, id)
	}

	size := len(g.hands[actor])
	g.advance()
	return action.PlayResult{PlayCard: p, Card: id, Success: success, HandSize: size, Next: g.Current()}, nil
}

func (g *Game) discard(d action.DiscardCard) (action.Result, error) {
	if g.usedNotes == 0 {
		return nil, fmt.Errorf("%w: no note token to recover", ErrIllegalAction)
	}
	actor := g.current
	id, err := g.take(d.Index)
	if err != nil {
		return nil, err
	}
	g.discards = append(g.discards, id)
	g.usedNotes--

	size := len(g.hands[actor])
	g.advance()
	return action.DiscardResult{DiscardCard: d, Card: id, HandSize: size, Next: g.Current()}, nil
}

// advance ends the current turn and decides whether the game is over
func (g *Game) advance() {
	g.turns++
	g.current = (g.current + 1) % len(g.players)

	switch {
	case g.remaining > 0:
		g.remaining--
	case len(g.deck) == 0 && g.remaining < 0:
		// every player, including the one who drew the last card, plays once more
		g.remaining = len(g.players)
	}

	if g.Bombed() || g.Score() == card.MaxScore || g.remaining == 0 {
		g.over = true
	}
}
