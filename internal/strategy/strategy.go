// Package strategy turns ordered lists of rule configurations into decisions.
// Strategies are plain data: one dispatcher interprets every rule kind, so
// many strategies share the same rule implementations.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownRule     = errors.New("unknown rule")
	ErrInvalidStrategy = errors.New("invalid strategy")
)

// Condition gates a rule on the token counts at decision time. Zero
// fields impose no constraint.
type Condition struct {
	UsedHintsBelow    int `json:"used_hints_below,omitempty"`
	UsedHintsAtLeast  int `json:"used_hints_at_least,omitempty"`
	UsedMistakesBelow int `json:"used_mistakes_below,omitempty"`
}

// Holds reports whether the condition is met by s
func (c Condition) Holds(s *state.AgentState) bool {
	if c.UsedHintsBelow > 0 && s.UsedNoteTokens >= c.UsedHintsBelow {
		return false
	}
	if s.UsedNoteTokens < c.UsedHintsAtLeast {
		return false
	}
	if c.UsedMistakesBelow > 0 && s.UsedStormTokens >= c.UsedMistakesBelow {
		return false
	}
	return true
}

// IsZero reports whether the condition always holds
func (c Condition) IsZero() bool {
	return c == Condition{}
}

func (c Condition) String() string {
	var parts []string
	if c.UsedHintsBelow > 0 {
		parts = append(parts, fmt.Sprintf("hints<%d", c.UsedHintsBelow))
	}
	if c.UsedHintsAtLeast > 0 {
		parts = append(parts, fmt.Sprintf("hints>=%d", c.UsedHintsAtLeast))
	}
	if c.UsedMistakesBelow > 0 {
		parts = append(parts, fmt.Sprintf("mistakes<%d", c.UsedMistakesBelow))
	}
	return strings.Join(parts, ",")
}

// RuleSpec is one entry of a strategy: a rule kind and its parameters
type RuleSpec struct {
	Kind      rules.Kind  `json:"kind"`
	Threshold float64     `json:"threshold,omitempty"`
	Check     state.Check `json:"check,omitempty"`
	When      Condition   `json:"when,omitzero"`
}

func (r RuleSpec) String() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	if r.Kind.UsesCheck() {
		fmt.Fprintf(&b, " %s", r.Check)
	}
	if r.Kind.UsesThreshold() {
		fmt.Fprintf(&b, " %.2f", r.Threshold)
	}
	if !r.When.IsZero() {
		fmt.Fprintf(&b, " when %s", r.When)
	}
	return b.String()
}

// Validate checks one rule's parameters
func (r RuleSpec) Validate() error {
	if !r.Kind.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownRule, r.Kind)
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("%w: %s threshold %.2f outside [0,1]", ErrInvalidStrategy, r.Kind, r.Threshold)
	}
	if r.Kind.UsesCheck() && !r.Check.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidStrategy, r.Kind, state.ErrUnknownCheck)
	}
	if r.When.UsedHintsBelow < 0 || r.When.UsedHintsAtLeast < 0 || r.When.UsedMistakesBelow < 0 {
		return fmt.Errorf("%w: %s has a negative condition", ErrInvalidStrategy, r.Kind)
	}
	return nil
}

// Strategy is an ordered, first-match-wins list of rules
type Strategy struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Rules       []RuleSpec `json:"rules"`

	// NextPlayerOnly restricts every hint rule to the next player in turn.
	NextPlayerOnly bool `json:"next_player_only,omitempty"`
}

// Validate checks that the strategy always produces an action: it must end
// with an unconditional terminal rule.
func (s Strategy) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidStrategy)
	}
	if len(s.Rules) == 0 {
		return fmt.Errorf("%w: %s has no rules", ErrInvalidStrategy, s.Name)
	}
	for i, r := range s.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("strategy %s rule %d: %w", s.Name, i, err)
		}
	}
	last := s.Rules[len(s.Rules)-1]
	if !last.Kind.Terminal() || !last.When.IsZero() {
		return fmt.Errorf("%w: %s must end with an unconditional %s or %s", ErrInvalidStrategy, s.Name, rules.KindDiscardRandom, rules.KindPlayRandom)
	}
	return nil
}
