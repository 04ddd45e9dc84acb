package strategy

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/randutil"
	"github.com/lox/hanabot/internal/rules"
	"github.com/lox/hanabot/internal/state"
	"github.com/lox/hanabot/internal/state/statetest"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestBuiltinStrategiesAreValid(t *testing.T) {
	builtin := Builtin()
	require.Len(t, builtin, 6)
	for _, s := range builtin {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, s.Validate())
			n := len(s.Rules)
			assert.Equal(t, rules.KindDiscardRandom, s.Rules[n-2].Kind)
			assert.Equal(t, rules.KindPlayRandom, s.Rules[n-1].Kind)
		})
	}
}

func TestValidate(t *testing.T) {
	tail := RuleSpec{Kind: rules.KindPlayRandom}
	tests := []struct {
		name     string
		strategy Strategy
		err      error
	}{
		{"no name", Strategy{Rules: []RuleSpec{tail}}, ErrInvalidStrategy},
		{"no rules", Strategy{Name: "x"}, ErrInvalidStrategy},
		{"unknown rule", Strategy{Name: "x", Rules: []RuleSpec{{Kind: "hint-everything"}, tail}}, ErrUnknownRule},
		{"threshold out of range", Strategy{Name: "x", Rules: []RuleSpec{{Kind: rules.KindPlayUseful, Threshold: 1.5}, tail}}, ErrInvalidStrategy},
		{"missing check", Strategy{Name: "x", Rules: []RuleSpec{{Kind: rules.KindHintFullKnowledge}, tail}}, state.ErrUnknownCheck},
		{"not terminal", Strategy{Name: "x", Rules: []RuleSpec{{Kind: rules.KindPlaySafe}}}, ErrInvalidStrategy},
		{"conditional terminal", Strategy{Name: "x", Rules: []RuleSpec{{Kind: rules.KindPlayRandom, When: Condition{UsedHintsBelow: 3}}}}, ErrInvalidStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.strategy.Validate(), tt.err)
		})
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, s.Name)

	s, err = Lookup("most-info")
	require.NoError(t, err)
	assert.Equal(t, "most-info", s.Name)

	custom := Strategy{Name: "most-info", Rules: []RuleSpec{{Kind: rules.KindPlayRandom}}}
	s, err = Lookup("most-info", custom)
	require.NoError(t, err)
	assert.Len(t, s.Rules, 1)

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	names := Names(custom, Strategy{Name: "mine"})
	assert.Equal(t, []string{"most-info", "mine", "two-player", "two-player-cautious", "just-hinted", "adaptive", "most-info-late"}, names)
}

func TestConditionHolds(t *testing.T) {
	tests := []struct {
		cond          Condition
		hints, storms int
		want          bool
	}{
		{Condition{}, 8, 2, true},
		{Condition{UsedHintsBelow: 6}, 5, 0, true},
		{Condition{UsedHintsBelow: 6}, 6, 0, false},
		{Condition{UsedHintsAtLeast: 7, UsedHintsBelow: 8}, 7, 0, true},
		{Condition{UsedHintsAtLeast: 7, UsedHintsBelow: 8}, 8, 0, false},
		{Condition{UsedHintsAtLeast: 7, UsedHintsBelow: 8}, 6, 0, false},
		{Condition{UsedMistakesBelow: 1}, 0, 0, true},
		{Condition{UsedMistakesBelow: 1}, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.cond.String(), func(t *testing.T) {
			s := &state.AgentState{UsedNoteTokens: tt.hints, UsedStormTokens: tt.storms}
			assert.Equal(t, tt.want, tt.cond.Holds(s))
		})
	}
}

func TestDecidePlaysSafeCardFirst(t *testing.T) {
	for _, s := range Builtin() {
		t.Run(s.Name, func(t *testing.T) {
			m, err := NewManager(s, discardLogger())
			require.NoError(t, err)

			for seed := range int64(10) {
				st := statetest.New("me", "me", "bob").
					Hand("bob", "R1 W1 B1 Y1 G1").
					Firework(card.Green, 2).
					Tokens(3, 0).
					Build(t)
				require.NoError(t, st.Hand[2].SetHint(card.ColorAttribute(card.Green)))
				require.NoError(t, st.Hand[2].SetHint(card.ValueAttribute(3)))

				d, ok, err := m.Decide(st, randutil.New(seed))
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, action.PlayCard{From: "me", Index: 2}, d.Action)
				assert.Equal(t, rules.KindPlaySafe, d.Rule.Kind)
				assert.Equal(t, 0, d.Index)
			}
		})
	}
}

func TestDecideAlwaysActs(t *testing.T) {
	for _, s := range Builtin() {
		t.Run(s.Name, func(t *testing.T) {
			m, err := NewManager(s, discardLogger())
			require.NoError(t, err)

			for _, tokens := range []int{0, 4, 7, 8} {
				st := statetest.New("me", "me", "bob").
					Hand("bob", "R4 W3 B3 Y4 G5").
					Tokens(tokens, 0).
					Build(t)
				d, ok, err := m.Decide(st, randutil.New(int64(tokens)))
				require.NoError(t, err)
				require.True(t, ok, "tokens=%d", tokens)
				if tokens == 0 {
					assert.NotEqual(t, action.KindDiscard, d.Action.Kind())
				}
				if tokens == 8 {
					assert.NotEqual(t, action.KindHint, d.Action.Kind())
				}
			}
		})
	}
}

func TestDecideHonoursConditions(t *testing.T) {
	s, err := Lookup("adaptive")
	require.NoError(t, err)
	m, err := NewManager(s, discardLogger())
	require.NoError(t, err)

	st := statetest.New("me", "me", "bob").
		Hand("bob", "R4 W3 B3 Y2 G4").
		Firework(card.Yellow, 1).
		Discard("Y2").
		Tokens(7, 0).
		Build(t)

	d, ok, err := m.Decide(st, randutil.New(1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rules.KindHintCritical, d.Rule.Kind)
	assert.Equal(t, action.Hint{From: "me", To: "bob", Attribute: card.ValueAttribute(2)}, d.Action)
}

func TestDecideExhaustion(t *testing.T) {
	m, err := NewManager(Strategy{Name: "discards", Rules: []RuleSpec{{Kind: rules.KindDiscardRandom}}}, discardLogger())
	require.NoError(t, err)

	st := statetest.New("me", "me", "bob").Hand("bob", "R4 W3 B3 Y2 G4").Build(t)
	_, ok, err := m.Decide(st, randutil.New(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecideUnknownRule(t *testing.T) {
	m := &Manager{
		strategy: Strategy{Name: "broken", Rules: []RuleSpec{{Kind: "nope"}}},
		logger:   discardLogger(),
	}
	st := statetest.New("me", "me", "bob").Hand("bob", "R4 W3 B3 Y2 G4").Build(t)
	_, _, err := m.Decide(st, randutil.New(1))
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestRuleSpecString(t *testing.T) {
	spec := RuleSpec{Kind: rules.KindHintFullKnowledge, Check: state.CheckUseful, Threshold: 0.5, When: Condition{UsedHintsBelow: 6}}
	assert.Equal(t, "hint-full-knowledge useful 0.50 when hints<6", spec.String())
	assert.Equal(t, "play-safe", RuleSpec{Kind: rules.KindPlaySafe}.String())
}
