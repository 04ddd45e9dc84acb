// Package agent owns one player's belief state and decides its moves. Every
// method takes the same lock, so applying a server event and choosing an
// action never interleave.
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/strategy"
)

var (
	// ErrNoAction is returned when every rule of the strategy declined
	ErrNoAction = errors.New("no rule produced an action")

	// ErrNoGame is returned for events arriving outside a game
	ErrNoGame = errors.New("no game in progress")
)

// Agent is a rule-based Hanabi player
type Agent struct {
	mu      sync.Mutex
	name    string
	manager *strategy.Manager
	rng     *rand.Rand
	logger  *log.Logger

	state  *state.AgentState
	games  int
	scores []int
}

// New creates an agent that plays as name using the given strategy
func New(name string, manager *strategy.Manager, rng *rand.Rand, logger *log.Logger) *Agent {
	return &Agent{
		name:    name,
		manager: manager,
		rng:     rng,
		logger:  logger.WithPrefix("agent").With("player", name),
	}
}

// Name returns the player name
func (a *Agent) Name() string {
	return a.name
}

// Strategy returns the name of the strategy in use
func (a *Agent) Strategy() string {
	return a.manager.Strategy().Name
}

// Begin starts a new game from its first snapshot, discarding any previous
// belief state
func (a *Agent) Begin(snap state.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := state.New(snap, a.name)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	a.state = s
	a.games++
	a.logger.Info("Game started", "game", a.games, "players", len(snap.Players), "hand", len(s.Hand))
	return nil
}

// Observe applies an acknowledged action, if any, then re-syncs with the
// snapshot taken after it and recomputes every belief
func (a *Agent) Observe(result action.Result, snap state.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == nil {
		return ErrNoGame
	}
	if result != nil {
		a.logger.Debug("Action observed", "action", result.String())
		if err := a.state.HandleActionResult(result); err != nil {
			return fmt.Errorf("applying %s: %w", result.Kind(), err)
		}
	}
	if err := a.state.UpdateState(snap); err != nil {
		return fmt.Errorf("syncing state: %w", err)
	}
	for _, p := range a.state.Resynced() {
		a.logger.Warn("Teammate hand out of sync, hint flags reset", "teammate", p)
	}
	if err := a.state.UpdateCurrentBelief(); err != nil {
		return fmt.Errorf("updating beliefs: %w", err)
	}
	return nil
}

// NextAction runs one full selection pass
func (a *Agent) NextAction() (strategy.Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == nil {
		return strategy.Decision{}, ErrNoGame
	}
	d, ok, err := a.manager.Decide(a.state, a.rng)
	if err != nil {
		return strategy.Decision{}, err
	}
	if !ok {
		return strategy.Decision{}, ErrNoAction
	}
	a.logger.Info("Action chosen", "action", d.Action.String(), "rule", d.Rule.Kind)
	return d, nil
}

// Finish ends the current game and records its final score
func (a *Agent) Finish(score int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = nil
	a.scores = append(a.scores, score)
	a.logger.Info("Game over", "game", a.games, "score", score)
}

// InGame reports whether a game is in progress
func (a *Agent) InGame() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state != nil
}

// Scores returns the final scores of every finished game
func (a *Agent) Scores() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.scores...)
}

// View runs fn with the belief state under the lock. fn must not retain s.
func (a *Agent) View(fn func(s *state.AgentState)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == nil {
		return ErrNoGame
	}
	fn(a.state)
	return nil
}
