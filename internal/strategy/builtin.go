package strategy

import (
	"fmt"
	"slices"

	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
)

// DefaultName is the strategy used when none is configured
const DefaultName = "two-player"

func rule(kind rules.Kind) RuleSpec {
	return RuleSpec{Kind: kind}
}

func threshold(kind rules.Kind, t float64) RuleSpec {
	return RuleSpec{Kind: kind, Threshold: t}
}

func fullKnowledge(check state.Check) RuleSpec {
	return RuleSpec{Kind: rules.KindHintFullKnowledge, Check: check, Threshold: 0.5}
}

func when(c Condition, specs ...RuleSpec) []RuleSpec {
	out := make([]RuleSpec, len(specs))
	for i, s := range specs {
		s.When = c
		out[i] = s
	}
	return out
}

var fallback = []RuleSpec{
	rule(rules.KindDiscardRandom),
	rule(rules.KindPlayRandom),
}

func concat(parts ...[]RuleSpec) []RuleSpec {
	return slices.Concat(append(parts, fallback)...)
}

// Builtin returns the built-in strategies. The slice is freshly allocated.
func Builtin() []Strategy {
	return []Strategy{
		{
			Name:        "two-player",
			Description: "play and discard on certainty, then hint playable cards",
			Rules: concat([]RuleSpec{
				rule(rules.KindPlaySafe),
				rule(rules.KindDiscardUseless),
				rule(rules.KindHintPlayable),
				threshold(rules.KindPlayUseful, 0.7),
				threshold(rules.KindDiscardDispensable, 0.7),
				fullKnowledge(state.CheckPlayable),
				fullKnowledge(state.CheckUseful),
				fullKnowledge(state.CheckDispensable),
				fullKnowledge(state.CheckUseless),
				rule(rules.KindHintMostInfo),
				threshold(rules.KindPlayUseful, 0.5),
				threshold(rules.KindDiscardDispensable, 0.5),
				rule(rules.KindHintUnknown),
				rule(rules.KindDiscardOldest),
			}),
		},
		{
			Name:        "two-player-cautious",
			Description: "two-player with wider thresholds and earlier oldest-card discards",
			Rules: concat([]RuleSpec{
				rule(rules.KindPlaySafe),
				rule(rules.KindDiscardUseless),
				rule(rules.KindHintPlayable),
				threshold(rules.KindPlayUseful, 0.8),
				threshold(rules.KindDiscardDispensable, 0.8),
				fullKnowledge(state.CheckPlayable),
				fullKnowledge(state.CheckUseful),
				fullKnowledge(state.CheckDispensable),
				fullKnowledge(state.CheckUseless),
				rule(rules.KindHintMostInfo),
				threshold(rules.KindPlayUseful, 0.4),
				threshold(rules.KindDiscardDispensable, 0.4),
				rule(rules.KindDiscardOldest),
				rule(rules.KindHintUnknown),
			}),
		},
		{
			Name:        "just-hinted",
			Description: "trusts a single-card hint as a play signal and warns about critical cards",
			Rules: concat([]RuleSpec{
				rule(rules.KindPlaySafe),
				rule(rules.KindDiscardUseless),
				rule(rules.KindHintPlayable),
				threshold(rules.KindPlayJustHinted, 0.6),
				threshold(rules.KindDiscardDispensable, 0.8),
				fullKnowledge(state.CheckPlayable),
				fullKnowledge(state.CheckUseful),
				fullKnowledge(state.CheckDispensable),
				fullKnowledge(state.CheckUseless),
				rule(rules.KindHintCritical),
				threshold(rules.KindPlayUseful, 0.4),
				threshold(rules.KindDiscardDispensable, 0.4),
				rule(rules.KindDiscardOldest),
				rule(rules.KindHintUnknown),
			}),
		},
		{
			Name:           "adaptive",
			Description:    "hints the next player while tokens last, then falls back to plays and discards",
			NextPlayerOnly: true,
			Rules: concat(
				[]RuleSpec{
					rule(rules.KindPlaySafe),
					rule(rules.KindDiscardUseless),
				},
				when(Condition{UsedHintsBelow: 6},
					fullKnowledge(state.CheckPlayable),
					fullKnowledge(state.CheckUseless),
					rule(rules.KindHintPlayable),
					fullKnowledge(state.CheckUseful),
					rule(rules.KindHintUseful),
					rule(rules.KindHintMostInfo),
				),
				when(Condition{UsedHintsAtLeast: 7, UsedHintsBelow: 8},
					rule(rules.KindHintCritical),
				),
				[]RuleSpec{
					threshold(rules.KindPlayJustHinted, 0.6),
					threshold(rules.KindPlayUseful, 0.6),
					threshold(rules.KindDiscardDispensable, 0.8),
					rule(rules.KindDiscardOldest),
				},
				when(Condition{UsedMistakesBelow: 1},
					threshold(rules.KindPlayUseful, 0.5),
				),
				[]RuleSpec{
					fullKnowledge(state.CheckPlayable),
					fullKnowledge(state.CheckUseless),
					rule(rules.KindHintPlayable),
					fullKnowledge(state.CheckUseful),
					rule(rules.KindHintUseful),
					rule(rules.KindHintMostInfo),
					rule(rules.KindDiscardOldest),
				},
			),
		},
		{
			Name:        "most-info",
			Description: "prefers the hint that touches the most cards",
			Rules: concat([]RuleSpec{
				rule(rules.KindPlaySafe),
				rule(rules.KindDiscardUseless),
				rule(rules.KindHintPlayable),
				threshold(rules.KindPlayUseful, 0.7),
				threshold(rules.KindDiscardDispensable, 0.7),
				rule(rules.KindHintMostInfo),
				threshold(rules.KindPlayUseful, 0.4),
				threshold(rules.KindDiscardDispensable, 0.5),
				rule(rules.KindDiscardOldest),
				rule(rules.KindHintUnknown),
			}),
		},
		{
			Name:        "most-info-late",
			Description: "most-info that completes half-known cards once hints run low",
			Rules: concat(
				[]RuleSpec{
					rule(rules.KindPlaySafe),
					rule(rules.KindDiscardUseless),
					rule(rules.KindHintPlayable),
					threshold(rules.KindPlayUseful, 0.7),
					threshold(rules.KindDiscardDispensable, 0.7),
				},
				when(Condition{UsedHintsAtLeast: 5},
					fullKnowledge(state.CheckPlayable),
					fullKnowledge(state.CheckUseless),
				),
				[]RuleSpec{
					rule(rules.KindHintMostInfo),
					threshold(rules.KindPlayUseful, 0.4),
					threshold(rules.KindDiscardDispensable, 0.5),
					rule(rules.KindDiscardOldest),
					rule(rules.KindHintUnknown),
				},
			),
		},
	}
}

// Lookup finds a strategy by name among extra and then the built-ins, so a
// configured strategy can shadow a built-in one.
func Lookup(name string, extra ...Strategy) (Strategy, error) {
	if name == "" {
		name = DefaultName
	}
	for _, s := range slices.Concat(extra, Builtin()) {
		if s.Name == name {
			return s, nil
		}
	}
	return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Names lists the strategies Lookup can resolve, configured ones first
func Names(extra ...Strategy) []string {
	var names []string
	for _, s := range slices.Concat(extra, Builtin()) {
		if !slices.Contains(names, s.Name) {
			names = append(names, s.Name)
		}
	}
	return names
}
