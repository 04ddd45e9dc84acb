// Package config loads hanabot settings from an HCL file, a .env file and
// HANABOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/hanabot/internal/client"
	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/strategy"
)

// Environment variables that override the file
const (
	EnvServer   = "HANABOT_SERVER"
	EnvName     = "HANABOT_NAME"
	EnvStrategy = "HANABOT_STRATEGY"
	EnvSeed     = "HANABOT_SEED"
	EnvLogLevel = "HANABOT_LOG_LEVEL"
)

// Config is the complete hanabot configuration
type Config struct {
	Client     ClientSettings
	Agent      AgentSettings
	SelfPlay   SelfPlaySettings
	Log        LogSettings
	Strategies []StrategyConfig
}

// ClientSettings configures the connection to a game server
type ClientSettings struct {
	URL          string `hcl:"url,optional"`
	Name         string `hcl:"name,optional"`
	Games        int    `hcl:"games,optional"`
	ReadTimeout  string `hcl:"read_timeout,optional"`
	PingInterval string `hcl:"ping_interval,optional"`
}

// AgentSettings picks the strategy and seeds the agent's random choices.
// A zero seed is replaced with one taken from the clock.
type AgentSettings struct {
	Strategy string `hcl:"strategy,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// SelfPlaySettings configures local self-play runs. Strategies are assigned
// to seats round-robin; an empty list seats the agent strategy everywhere.
type SelfPlaySettings struct {
	Players    int      `hcl:"players,optional"`
	Games      int      `hcl:"games,optional"`
	Parallel   int      `hcl:"parallel,optional"`
	Strategies []string `hcl:"strategies,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// StrategyConfig is a user-defined strategy
type StrategyConfig struct {
	Name           string       `hcl:"name,label"`
	Description    string       `hcl:"description,optional"`
	NextPlayerOnly bool         `hcl:"next_player_only,optional"`
	Rules          []RuleConfig `hcl:"rule,block"`
}

// RuleConfig is one rule of a user-defined strategy
type RuleConfig struct {
	Kind      string      `hcl:"kind,label"`
	Threshold float64     `hcl:"threshold,optional"`
	Check     string      `hcl:"check,optional"`
	When      *WhenConfig `hcl:"when,block"`
}

// WhenConfig gates a rule on the token counts
type WhenConfig struct {
	UsedHintsBelow    int `hcl:"used_hints_below,optional"`
	UsedHintsAtLeast  int `hcl:"used_hints_at_least,optional"`
	UsedMistakesBelow int `hcl:"used_mistakes_below,optional"`
}

// fileConfig mirrors the file layout, where every top-level block is optional
type fileConfig struct {
	Client     *ClientSettings   `hcl:"client,block"`
	Agent      *AgentSettings    `hcl:"agent,block"`
	SelfPlay   *SelfPlaySettings `hcl:"selfplay,block"`
	Log        *LogSettings      `hcl:"log,block"`
	Strategies []StrategyConfig  `hcl:"strategy,block"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Client: ClientSettings{
			URL:          "http://localhost:1024",
			Name:         "hanabot",
			Games:        1,
			ReadTimeout:  "60s",
			PingInterval: "54s",
		},
		Agent: AgentSettings{
			Strategy: strategy.DefaultName,
		},
		SelfPlay: SelfPlaySettings{
			Players:  2,
			Games:    100,
			Parallel: 4,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads filename, fills omitted settings with defaults and applies the
// environment. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	config, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	defaults := DefaultConfig()

	if raw.Client != nil {
		config.Client = *raw.Client
		if config.Client.URL == "" {
			config.Client.URL = defaults.Client.URL
		}
		if config.Client.Name == "" {
			config.Client.Name = defaults.Client.Name
		}
		if config.Client.Games == 0 {
			config.Client.Games = defaults.Client.Games
		}
		if config.Client.ReadTimeout == "" {
			config.Client.ReadTimeout = defaults.Client.ReadTimeout
		}
		if config.Client.PingInterval == "" {
			config.Client.PingInterval = defaults.Client.PingInterval
		}
	}

	if raw.Agent != nil {
		config.Agent = *raw.Agent
		if config.Agent.Strategy == "" {
			config.Agent.Strategy = defaults.Agent.Strategy
		}
	}

	if raw.SelfPlay != nil {
		config.SelfPlay = *raw.SelfPlay
		if config.SelfPlay.Players == 0 {
			config.SelfPlay.Players = defaults.SelfPlay.Players
		}
		if config.SelfPlay.Games == 0 {
			config.SelfPlay.Games = defaults.SelfPlay.Games
		}
		if config.SelfPlay.Parallel == 0 {
			config.SelfPlay.Parallel = defaults.SelfPlay.Parallel
		}
	}

	if raw.Log != nil && raw.Log.Level != "" {
		config.Log.Level = raw.Log.Level
	}

	config.Strategies = raw.Strategies
	return config, nil
}

// LoadDotEnv loads variables from .env style files into the process
// environment without overriding what is already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from HANABOT_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServer); ok && v != "" {
		c.Client.URL = v
	}
	if v, ok := lookup(EnvName); ok && v != "" {
		c.Client.Name = v
	}
	if v, ok := lookup(EnvStrategy); ok && v != "" {
		c.Agent.Strategy = v
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Agent.Seed = seed
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Client.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.Client.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if c.Client.Games <= 0 {
		return fmt.Errorf("games must be positive")
	}
	if _, err := c.ClientConfig(); err != nil {
		return err
	}

	if c.SelfPlay.Players < 2 || c.SelfPlay.Players > 5 {
		return fmt.Errorf("self-play needs between 2 and 5 players, got %d", c.SelfPlay.Players)
	}
	if c.SelfPlay.Games <= 0 {
		return fmt.Errorf("self-play games must be positive")
	}
	if c.SelfPlay.Parallel <= 0 {
		return fmt.Errorf("self-play parallelism must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	user, err := c.UserStrategies()
	if err != nil {
		return err
	}
	if _, err := strategy.Lookup(c.Agent.Strategy, user...); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	for _, name := range c.SelfPlay.Strategies {
		if _, err := strategy.Lookup(name, user...); err != nil {
			return fmt.Errorf("selfplay: %w", err)
		}
	}
	return nil
}

// ClientConfig converts the client block for the network client
func (c *Config) ClientConfig() (client.Config, error) {
	read, err := time.ParseDuration(c.Client.ReadTimeout)
	if err != nil || read <= 0 {
		return client.Config{}, fmt.Errorf("invalid read timeout: %q", c.Client.ReadTimeout)
	}
	ping, err := time.ParseDuration(c.Client.PingInterval)
	if err != nil || ping <= 0 {
		return client.Config{}, fmt.Errorf("invalid ping interval: %q", c.Client.PingInterval)
	}
	return client.Config{
		URL:          c.Client.URL,
		Games:        c.Client.Games,
		ReadTimeout:  read,
		PingInterval: ping,
	}, nil
}

// UserStrategies converts and validates the strategy blocks
func (c *Config) UserStrategies() ([]strategy.Strategy, error) {
	seen := make(map[string]bool, len(c.Strategies))
	out := make([]strategy.Strategy, 0, len(c.Strategies))
	for _, sc := range c.Strategies {
		if seen[sc.Name] {
			return nil, fmt.Errorf("strategy %s: defined twice", sc.Name)
		}
		seen[sc.Name] = true

		s, err := sc.Strategy()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Strategy converts the block and validates the result
func (sc StrategyConfig) Strategy() (strategy.Strategy, error) {
	s := strategy.Strategy{
		Name:           sc.Name,
		Description:    sc.Description,
		NextPlayerOnly: sc.NextPlayerOnly,
		Rules:          make([]strategy.RuleSpec, 0, len(sc.Rules)),
	}
	for i, rc := range sc.Rules {
		spec := strategy.RuleSpec{Kind: rules.Kind(rc.Kind), Threshold: rc.Threshold}
		if rc.Check != "" {
			check, err := state.ParseCheck(rc.Check)
			if err != nil {
				return strategy.Strategy{}, fmt.Errorf("strategy %s: rule %d: %w", sc.Name, i, err)
			}
			spec.Check = check
		}
		if rc.When != nil {
			spec.When = strategy.Condition{
				UsedHintsBelow:    rc.When.UsedHintsBelow,
				UsedHintsAtLeast:  rc.When.UsedHintsAtLeast,
				UsedMistakesBelow: rc.When.UsedMistakesBelow,
			}
		}
		s.Rules = append(s.Rules, spec)
	}
	if err := s.Validate(); err != nil {
		return strategy.Strategy{}, fmt.Errorf("strategy %s: %w", sc.Name, err)
	}
	return s, nil
}
