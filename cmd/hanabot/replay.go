package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/lox/hanabot/internal/config"
	"github.com/lox/hanabot/internal/simulator"
	"github.com/lox/hanabot/internal/tui"
)

type ReplayCmd struct {
	Seed       int64    `required:"" help:"Seed of the game to replay"`
	Players    int      `short:"p" help:"Players per table (2-5)"`
	Strategies []string `short:"s" help:"Strategies seated round-robin"`
	Plain      bool     `help:"Print every turn instead of opening the viewer"`
}

func (c *ReplayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load(func(cfg *config.Config) {
		if c.Players > 0 {
			cfg.SelfPlay.Players = c.Players
		}
		if len(c.Strategies) > 0 {
			cfg.SelfPlay.Strategies = c.Strategies
		}
	})
	if err != nil {
		return err
	}

	strategies, err := resolveStrategies(cfg, cfg.SelfPlay.Strategies)
	if err != nil {
		return err
	}
	runner, err := simulator.New(simulator.Config{
		Players:    cfg.SelfPlay.Players,
		Strategies: strategies,
		Logger:     logger,
		Clock:      quartz.NewReal(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Play(ctx, c.Seed)
	if err != nil {
		return err
	}
	logger.Debug("Game replayed", "game", result.ID, "score", result.Score, "turns", result.Turns)

	if c.Plain {
		return tui.WriteTranscript(os.Stdout, result, logger)
	}
	return tui.Run(result, logger)
}
