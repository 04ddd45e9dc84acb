package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/strategy"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cc.ReadTimeout)
	assert.Equal(t, 54*time.Second, cc.PingInterval)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "hanabot.hcl", `
client {
  url   = "http://hanabi.local:9000"
  name  = "alice"
  games = 3
}

agent {
  strategy = "careful"
  seed     = 42
}

selfplay {
  players    = 3
  strategies = ["careful", "most-info"]
}

log {
  level = "debug"
}

strategy "careful" {
  description      = "hint first"
  next_player_only = true

  rule "play-safe" {}

  rule "hint-full-knowledge" {
    check     = "useful"
    threshold = 0.5

    when {
      used_hints_below = 6
    }
  }

  rule "discard-random" {}
  rule "play-random" {}
}
`)

	cfg, err := loadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://hanabi.local:9000", cfg.Client.URL)
	assert.Equal(t, "alice", cfg.Client.Name)
	assert.Equal(t, 3, cfg.Client.Games)
	assert.Equal(t, "60s", cfg.Client.ReadTimeout, "omitted fields take defaults")
	assert.Equal(t, int64(42), cfg.Agent.Seed)
	assert.Equal(t, 3, cfg.SelfPlay.Players)
	assert.Equal(t, 100, cfg.SelfPlay.Games)
	assert.Equal(t, "debug", cfg.Log.Level)

	user, err := cfg.UserStrategies()
	require.NoError(t, err)
	require.Len(t, user, 1)
	s := user[0]
	assert.Equal(t, "careful", s.Name)
	assert.True(t, s.NextPlayerOnly)
	require.Len(t, s.Rules, 4)
	assert.Equal(t, strategy.RuleSpec{
		Kind:      rules.KindHintFullKnowledge,
		Check:     state.CheckUseful,
		Threshold: 0.5,
		When:      strategy.Condition{UsedHintsBelow: 6},
	}, s.Rules[1])

	found, err := strategy.Lookup(cfg.Agent.Strategy, user...)
	require.NoError(t, err)
	assert.Equal(t, s, found)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := loadFile(writeFile(t, "bad.hcl", `client {`))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = loadFile(writeFile(t, "unknown.hcl", `client { colour = "red" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvServer:   "http://env:1",
		EnvName:     "bob",
		EnvStrategy: "most-info",
		EnvSeed:     "7",
		EnvLogLevel: "warn",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, "http://env:1", cfg.Client.URL)
	assert.Equal(t, "bob", cfg.Client.Name)
	assert.Equal(t, "most-info", cfg.Agent.Strategy)
	assert.Equal(t, int64(7), cfg.Agent.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)

	cfg = DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, DefaultConfig(), cfg)

	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvSeed {
			return "lots", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, EnvSeed)
}

func TestLoadAppliesEnvironment(t *testing.T) {
	t.Setenv(EnvStrategy, "adaptive")
	path := writeFile(t, "hanabot.hcl", `agent { strategy = "most-info" }`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "adaptive", cfg.Agent.Strategy)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "HANABOT_DOTENV_TEST"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-file\n")
	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		err    string
	}{
		{"no url", func(c *Config) { c.Client.URL = "" }, "server URL is required"},
		{"no name", func(c *Config) { c.Client.Name = "" }, "player name is required"},
		{"no games", func(c *Config) { c.Client.Games = 0 }, "games must be positive"},
		{"bad timeout", func(c *Config) { c.Client.ReadTimeout = "soon" }, "invalid read timeout"},
		{"bad ping", func(c *Config) { c.Client.PingInterval = "-1s" }, "invalid ping interval"},
		{"one player", func(c *Config) { c.SelfPlay.Players = 1 }, "between 2 and 5 players"},
		{"six players", func(c *Config) { c.SelfPlay.Players = 6 }, "between 2 and 5 players"},
		{"no selfplay games", func(c *Config) { c.SelfPlay.Games = 0 }, "self-play games must be positive"},
		{"no parallelism", func(c *Config) { c.SelfPlay.Parallel = 0 }, "parallelism must be positive"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"unknown agent strategy", func(c *Config) { c.Agent.Strategy = "nope" }, "agent: unknown strategy"},
		{"unknown seat strategy", func(c *Config) { c.SelfPlay.Strategies = []string{"nope"} }, "selfplay: unknown strategy"},
		{"duplicate strategy", func(c *Config) {
			sc := StrategyConfig{Name: "x", Rules: []RuleConfig{{Kind: string(rules.KindPlayRandom)}}}
			c.Strategies = []StrategyConfig{sc, sc}
		}, "defined twice"},
		{"bad check", func(c *Config) {
			c.Strategies = []StrategyConfig{{Name: "x", Rules: []RuleConfig{{Kind: string(rules.KindHintFullKnowledge), Check: "shiny"}}}}
		}, "unknown usability check"},
		{"no terminal rule", func(c *Config) {
			c.Strategies = []StrategyConfig{{Name: "x", Rules: []RuleConfig{{Kind: string(rules.KindPlaySafe)}}}}
		}, "strategy x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.err)
		})
	}
}
