// Package simulator plays complete Hanabi games locally, seating one agent
// per player against a referee that enforces the rules.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/agent"
	"github.com/lox/hanabot/internal/gameid"
	"github.com/lox/hanabot/internal/randutil"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/statistics"
	"github.com/lox/hanabot/internal/strategy"
)

// ErrTimeout is returned when a game does not finish within Config.Timeout
var ErrTimeout = errors.New("game timed out")

// Config holds configuration for running self-play games
type Config struct {
	Players int

	// Strategies are assigned to seats round-robin
	Strategies []strategy.Strategy

	Timeout time.Duration
	Logger  *log.Logger
	Clock   quartz.Clock

	// VerboseAgents keeps the agents' per-turn logs, which are otherwise
	// raised to warnings
	VerboseAgents bool
}

// Turn is one entry of a game log
type Turn struct {
	Number int
	Player string
	Rule   string
	Result action.Result

	// Board is the full state after the action
	Board state.Snapshot
}

// GameResult describes a finished game
type GameResult struct {
	ID          string
	Seed        int64
	Players     []string
	Strategies  []string
	Score       int
	StormTokens int
	Turns       int
	Bombed      bool
	Duration    time.Duration

	Initial state.Snapshot
	Log     []Turn
}

// Stats converts the result for the statistics ledger
func (r *GameResult) Stats() statistics.Result {
	return statistics.Result{
		Score:       r.Score,
		StormTokens: r.StormTokens,
		Turns:       r.Turns,
		Seed:        r.Seed,
		Players:     len(r.Players),
		Bombed:      r.Bombed,
	}
}

// Runner plays self-play games
type Runner struct {
	config      Config
	logger      *log.Logger
	agentLogger *log.Logger
}

// New validates config and creates a runner
func New(config Config) (*Runner, error) {
	if config.Players < 2 || config.Players > 5 {
		return nil, fmt.Errorf("self-play needs between 2 and 5 players, got %d", config.Players)
	}
	if len(config.Strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy is required")
	}
	for _, s := range config.Strategies {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.Name, err)
		}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}

	agentLogger := config.Logger.With()
	if !config.VerboseAgents && agentLogger.GetLevel() < log.WarnLevel {
		agentLogger.SetLevel(log.WarnLevel)
	}

	return &Runner{
		config:      config,
		logger:      config.Logger.WithPrefix("simulator"),
		agentLogger: agentLogger,
	}, nil
}

// SeatNames returns the player names used at a table of n
func SeatNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("bot%d", i+1)
	}
	return names
}

// Play runs one game dealt from seed
func (r *Runner) Play(ctx context.Context, seed int64) (*GameResult, error) {
	if r.config.Timeout <= 0 {
		return r.play(ctx, seed)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	type outcome struct {
		result *GameResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := r.play(ctx, seed)
		done <- outcome{result, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v (seed: %d)", ErrTimeout, r.config.Timeout, seed)
		}
		return nil, ctx.Err()
	}
}

func (r *Runner) play(ctx context.Context, seed int64) (*GameResult, error) {
	start := r.config.Clock.Now("simulator", "game")

	names := SeatNames(r.config.Players)
	game, err := NewGame(names, randutil.New(randutil.Derive(seed, 0)))
	if err != nil {
		return nil, err
	}

	result := &GameResult{
		ID:         gameid.FromSeed(seed),
		Seed:       seed,
		Players:    names,
		Strategies: make([]string, len(names)),
		Initial:    game.Board(),
	}
	logger := r.logger.With("game", result.ID, "seed", seed)

	agents := make([]*agent.Agent, len(names))
	for seat, name := range names {
		s := r.config.Strategies[seat%len(r.config.Strategies)]
		manager, err := strategy.NewManager(s, r.agentLogger)
		if err != nil {
			return nil, err
		}
		a := agent.New(name, manager, randutil.New(randutil.Derive(seed, seat+1)), r.agentLogger)
		snap, err := game.Snapshot(name)
		if err != nil {
			return nil, err
		}
		if err := a.Begin(snap); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		agents[seat] = a
		result.Strategies[seat] = s.Name
	}

	for !game.Over() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		actor := agents[game.current]
		decision, err := actor.NextAction()
		if err != nil {
			return nil, fmt.Errorf("%s on turn %d: %w", actor.Name(), game.Turns()+1, err)
		}
		res, err := game.Apply(decision.Action)
		if err != nil {
			return nil, fmt.Errorf("%s on turn %d: %w", actor.Name(), game.Turns()+1, err)
		}
		logger.Debug("Turn played", "turn", game.Turns(), "action", res.String(), "rule", decision.Rule.Kind)

		result.Log = append(result.Log, Turn{
			Number: game.Turns(),
			Player: actor.Name(),
			Rule:   decision.Rule.String(),
			Result: res,
			Board:  game.Board(),
		})

		for _, a := range agents {
			snap, err := game.Snapshot(a.Name())
			if err != nil {
				return nil, err
			}
			if err := a.Observe(res, snap); err != nil {
				return nil, fmt.Errorf("%s observing turn %d: %w", a.Name(), game.Turns(), err)
			}
		}
	}

	for _, a := range agents {
		a.Finish(game.Score())
	}

	result.Score = game.Score()
	result.StormTokens = game.StormTokens()
	result.Turns = game.Turns()
	result.Bombed = game.Bombed()
	result.Duration = r.config.Clock.Since(start, "simulator", "game")

	logger.Debug("Game finished", "score", result.Score, "storms", result.StormTokens, "turns", result.Turns)
	return result, nil
}

// PlayMany plays games dealt from seed, seed+1, ... with at most parallel
// games in flight. Results are returned in seed order.
func (r *Runner) PlayMany(ctx context.Context, seed int64, games, parallel int) ([]*GameResult, error) {
	if games <= 0 {
		return nil, fmt.Errorf("games must be positive")
	}
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]*GameResult, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range games {
		gameSeed := seed + int64(i)
		g.Go(func() error {
			result, err := r.Play(ctx, gameSeed)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("Self-play finished", "games", games, "players", r.config.Players)
	return results, nil
}

// Summarise adds every result to a statistics ledger and validates it
func Summarise(results []*GameResult) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r.Stats())
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}
