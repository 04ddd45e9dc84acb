package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/hanabot/internal/config"
	"github.com/lox/hanabot/internal/strategy"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string   `short:"c" default:"hanabot.hcl" type:"path" help:"HCL configuration file"`
	EnvFile  []string `name:"env-file" default:".env" help:"Dotenv files loaded before the configuration"`
	LogLevel string   `help:"Log level (debug|info|warn|error), overrides the configuration"`
}

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Play       PlayCmd          `cmd:"" help:"Connect to a game server and play"`
	SelfPlay   SelfPlayCmd      `cmd:"" name:"selfplay" help:"Play local games between agents and print statistics"`
	Compare    CompareCmd       `cmd:"" help:"Compare two strategies over the same seeded games"`
	Replay     ReplayCmd        `cmd:"" help:"Replay one seeded self-play game turn by turn"`
	Strategies StrategiesCmd    `cmd:"" help:"List the available strategies"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hanabot"),
		kong.Description("Rule-based Hanabi agent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the configuration, applies command overrides, validates it and
// builds the root logger
func (g *Globals) load(override func(cfg *config.Config)) (*config.Config, *log.Logger, error) {
	if err := config.LoadDotEnv(g.EnvFile...); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return cfg, logger, nil
}

// resolveStrategies looks names up among the configured and built-in
// strategies. No names means the agent strategy.
func resolveStrategies(cfg *config.Config, names []string) ([]strategy.Strategy, error) {
	user, err := cfg.UserStrategies()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = []string{cfg.Agent.Strategy}
	}
	out := make([]strategy.Strategy, 0, len(names))
	for _, name := range names {
		s, err := strategy.Lookup(name, user...)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func strategyNames(strategies []strategy.Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return names
}
