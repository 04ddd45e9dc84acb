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
	"github.com/lox/hanabot/internal/fileutil"
	"github.com/lox/hanabot/internal/randutil"
	"github.com/lox/hanabot/internal/simulator"
)

type SelfPlayCmd struct {
	Players       int           `short:"p" help:"Players per table (2-5)"`
	Games         int           `short:"g" help:"Number of games"`
	Parallel      int           `help:"Games played at once"`
	Seed          int64         `help:"Seed of the first game (0 derives one from the clock)"`
	Strategies    []string      `short:"s" help:"Strategies seated round-robin"`
	Timeout       time.Duration `default:"30s" help:"Abort a game that runs longer than this"`
	VerboseAgents bool          `help:"Log every agent decision"`
	Output        string        `short:"o" type:"path" help:"Write a JSON report to this file"`
}

func (c *SelfPlayCmd) Run(g *Globals) error {
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
		if len(c.Strategies) > 0 {
			cfg.SelfPlay.Strategies = c.Strategies
		}
		if c.Seed != 0 {
			cfg.Agent.Seed = c.Seed
		}
	})
	if err != nil {
		return err
	}

	strategies, err := resolveStrategies(cfg, cfg.SelfPlay.Strategies)
	if err != nil {
		return err
	}

	clock := quartz.NewReal()
	runner, err := simulator.New(simulator.Config{
		Players:       cfg.SelfPlay.Players,
		Strategies:    strategies,
		Timeout:       c.Timeout,
		Logger:        logger,
		Clock:         clock,
		VerboseAgents: c.VerboseAgents,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := randutil.Resolve(cfg.Agent.Seed, clock)
	start := clock.Now()
	logger.Info("Starting self-play",
		"games", cfg.SelfPlay.Games,
		"players", cfg.SelfPlay.Players,
		"strategies", strategyNames(strategies),
		"seed", seed)

	results, err := runner.PlayMany(ctx, seed, cfg.SelfPlay.Games, cfg.SelfPlay.Parallel)
	if err != nil {
		return err
	}
	stats, err := simulator.Summarise(results)
	if err != nil {
		return err
	}

	label := fmt.Sprintf("%s, %d players", strings.Join(strategyNames(strategies), "/"), cfg.SelfPlay.Players)
	simulator.PrintSummary(os.Stdout, stats, label)

	if c.Output != "" {
		report := simulator.NewReport(label, cfg.SelfPlay.Players, stats, results)
		if err := fileutil.WriteJSON(c.Output, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Wrote report", "path", c.Output)
	}

	worst := results[0]
	for _, r := range results[1:] {
		if r.Score < worst.Score {
			worst = r
		}
	}
	logger.Info("Self-play complete",
		"elapsed", clock.Since(start).Round(time.Millisecond),
		"worst_game", worst.ID,
		"worst_score", worst.Score,
		"replay", fmt.Sprintf("hanabot replay --seed %d --players %d -s %s",
			worst.Seed, cfg.SelfPlay.Players, strings.Join(strategyNames(strategies), ",")))
	return nil
}
