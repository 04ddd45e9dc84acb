package strategy

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
)

// Decision is the outcome of one selection pass
type Decision struct {
	Action action.Action
	Rule   RuleSpec
	Index  int
}

// Manager runs a strategy against a belief state
type Manager struct {
	strategy Strategy
	logger   *log.Logger
}

// NewManager validates s and returns a manager for it
func NewManager(s Strategy, logger *log.Logger) (*Manager, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		strategy: s,
		logger:   logger.WithPrefix("strategy").With("strategy", s.Name),
	}, nil
}

// Strategy returns the strategy being run
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Decide evaluates the rules in order and returns the first action proposed.
// ok is false when every rule declined.
func (m *Manager) Decide(s *state.AgentState, rng *rand.Rand) (Decision, bool, error) {
	ctx := &rules.Context{State: s, Rand: rng, NextPlayerOnly: m.strategy.NextPlayerOnly}
	for i, spec := range m.strategy.Rules {
		if !spec.When.Holds(s) {
			continue
		}
		a, ok, err := evaluate(ctx, spec)
		if err != nil {
			return Decision{}, false, fmt.Errorf("rule %d (%s): %w", i, spec.Kind, err)
		}
		if !ok {
			continue
		}
		m.logger.Debug("Rule matched", "index", i, "rule", spec.String(), "action", a.String())
		return Decision{Action: a, Rule: spec, Index: i}, true, nil
	}
	m.logger.Debug("No rule matched", "rules", len(m.strategy.Rules))
	return Decision{}, false, nil
}

func evaluate(ctx *rules.Context, spec RuleSpec) (action.Action, bool, error) {
	switch spec.Kind {
	case rules.KindPlaySafe:
		return rules.PlaySafe(ctx)
	case rules.KindPlayUseful:
		return rules.PlayUseful(ctx, spec.Threshold)
	case rules.KindPlayJustHinted:
		return rules.PlayJustHinted(ctx, spec.Threshold)
	case rules.KindPlayRandom:
		return rules.PlayRandom(ctx)
	case rules.KindDiscardUseless:
		return rules.DiscardUseless(ctx)
	case rules.KindDiscardDispensable:
		return rules.DiscardDispensable(ctx, spec.Threshold)
	case rules.KindDiscardOldest:
		return rules.DiscardOldestUnhinted(ctx)
	case rules.KindDiscardRandom:
		return rules.DiscardRandom(ctx)
	case rules.KindHintPlayable:
		return rules.HintPlayable(ctx)
	case rules.KindHintUseful:
		return rules.HintUseful(ctx)
	case rules.KindHintMostInfo:
		return rules.HintMostInformation(ctx)
	case rules.KindHintFullKnowledge:
		return rules.HintFullKnowledge(ctx, spec.Check, spec.Threshold)
	case rules.KindHintCritical:
		return rules.HintCritical(ctx)
	case rules.KindHintUnknown:
		return rules.HintUnknown(ctx)
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownRule, spec.Kind)
	}
}
