package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/lox/hanabot/internal/agent"
	"github.com/lox/hanabot/internal/client"
	"github.com/lox/hanabot/internal/config"
	"github.com/lox/hanabot/internal/randutil"
	"github.com/lox/hanabot/internal/strategy"
)

type PlayCmd struct {
	Server   string `help:"Game server URL"`
	Name     string `short:"n" help:"Player name"`
	Strategy string `short:"s" help:"Strategy to play"`
	Games    int    `short:"g" help:"Number of games to play"`
	Seed     int64  `help:"Seed for random choices (0 derives one from the clock)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load(func(cfg *config.Config) {
		if c.Server != "" {
			cfg.Client.URL = c.Server
		}
		if c.Name != "" {
			cfg.Client.Name = c.Name
		}
		if c.Strategy != "" {
			cfg.Agent.Strategy = c.Strategy
		}
		if c.Games > 0 {
			cfg.Client.Games = c.Games
		}
		if c.Seed != 0 {
			cfg.Agent.Seed = c.Seed
		}
	})
	if err != nil {
		return err
	}

	strategies, err := resolveStrategies(cfg, nil)
	if err != nil {
		return err
	}
	manager, err := strategy.NewManager(strategies[0], logger)
	if err != nil {
		return err
	}

	clock := quartz.NewReal()
	seed := randutil.Resolve(cfg.Agent.Seed, clock)
	a := agent.New(cfg.Client.Name, manager, randutil.New(seed), logger)

	clientConfig, err := cfg.ClientConfig()
	if err != nil {
		return err
	}
	cl := client.New(clientConfig, a, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting", "server", clientConfig.URL, "name", cfg.Client.Name, "strategy", a.Strategy(), "seed", seed)
	if err := cl.Connect(ctx); err != nil {
		return err
	}
	defer cl.Close()

	err = cl.Run(ctx)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info("Interrupted")
		err = nil
	}

	scores := a.Scores()
	logger.Info("Session finished", "games", len(scores), "scores", scores)
	return err
}
