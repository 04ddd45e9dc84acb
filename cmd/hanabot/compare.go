package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/hanabot/internal/config"
	"github.com/lox/hanabot/internal/randutil"
	"github.com/lox/hanabot/internal/simulator"
	"github.com/lox/hanabot/internal/statistics"
)

type CompareCmd struct {
	Challenger []string      `arg:"" help:"Strategies seated round-robin for the challenger run"`
	Baseline   []string      `short:"b" required:"" help:"Strategies seated round-robin for the baseline run"`
	Players    int           `short:"p" help:"Players per table (2-5)"`
	Games      int           `short:"g" help:"Games per run"`
	Parallel   int           `help:"Games played at once"`
	Seed       int64         `help:"Seed of the first game (0 derives one from the clock)"`
	Alpha      float64       `default:"0.05" help:"Significance level"`
	Timeout    time.Duration `default:"30s" help:"Abort a game that runs longer than this"`
}

func (c *CompareCmd) Run(g *Globals) error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be between 0 and 1, got %v", c.Alpha)
	}
	cfg, logger, err := g.load(func(cfg *config.Config) {
		if c.Players > 0 {
			cfg.SelfPlay.Players = c.Players
		}
		if c.Games > 0 {
			cfg.SelfPlay.Games = c.Games
		}
		if c.Parallel > 0 {
			cfg.SelfPlay.Parallel = c.Parallel
		}
		if c.Seed != 0 {
			cfg.Agent.Seed = c.Seed
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	seed := randutil.Resolve(cfg.Agent.Seed, clock)

	// Both runs deal the same decks so the difference comes from the strategies
	run := func(names []string) (*statistics.Statistics, string, error) {
		strategies, err := resolveStrategies(cfg, names)
		if err != nil {
			return nil, "", err
		}
		runner, err := simulator.New(simulator.Config{
			Players:    cfg.SelfPlay.Players,
			Strategies: strategies,
			Timeout:    c.Timeout,
			Logger:     logger,
			Clock:      clock,
		})
		if err != nil {
			return nil, "", err
		}
		label := strings.Join(strategyNames(strategies), "/")
		logger.Info("Running", "strategies", label, "games", cfg.SelfPlay.Games, "seed", seed)

		results, err := runner.PlayMany(ctx, seed, cfg.SelfPlay.Games, cfg.SelfPlay.Parallel)
		if err != nil {
			return nil, "", err
		}
		stats, err := simulator.Summarise(results)
		return stats, label, err
	}

	start := clock.Now()
	challenger, challengerLabel, err := run(c.Challenger)
	if err != nil {
		return err
	}
	baseline, baselineLabel, err := run(c.Baseline)
	if err != nil {
		return err
	}

	result := simulator.PrintComparison(os.Stdout, challengerLabel, baselineLabel, challenger, baseline, c.Alpha)
	logger.Info("Comparison complete",
		"elapsed", clock.Since(start).Round(time.Millisecond),
		"difference", fmt.Sprintf("%+.3f", result.Difference),
		"p_value", fmt.Sprintf("%.4f", result.PValue))
	return nil
}
