package rules

import "slices"

// Kind names a rule. The string form is used in configuration files.
type Kind string

const (
	KindPlaySafe           Kind = "play-safe"
	KindPlayUseful         Kind = "play-useful"
	KindPlayJustHinted     Kind = "play-just-hinted"
	KindPlayRandom         Kind = "play-random"
	KindDiscardUseless     Kind = "discard-useless"
	KindDiscardDispensable Kind = "discard-dispensable"
	KindDiscardOldest      Kind = "discard-oldest-unhinted"
	KindDiscardRandom      Kind = "discard-random"
	KindHintPlayable       Kind = "hint-playable"
	KindHintUseful         Kind = "hint-useful"
	KindHintMostInfo       Kind = "hint-most-information"
	KindHintFullKnowledge  Kind = "hint-full-knowledge"
	KindHintCritical       Kind = "hint-critical"
	KindHintUnknown        Kind = "hint-unknown"
)

var kinds = []Kind{
	KindPlaySafe,
	KindPlayUseful,
	KindPlayJustHinted,
	KindPlayRandom,
	KindDiscardUseless,
	KindDiscardDispensable,
	KindDiscardOldest,
	KindDiscardRandom,
	KindHintPlayable,
	KindHintUseful,
	KindHintMostInfo,
	KindHintFullKnowledge,
	KindHintCritical,
	KindHintUnknown,
}

// Kinds returns every known rule kind
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// Known reports whether k is a rule this package implements
func (k Kind) Known() bool {
	return slices.Contains(kinds, k)
}

// Terminal reports whether the rule acts on any non-empty hand. A strategy
// must end with a terminal rule.
func (k Kind) Terminal() bool {
	return k == KindPlayRandom || k == KindDiscardRandom
}

// UsesThreshold reports whether the rule takes a probability threshold
func (k Kind) UsesThreshold() bool {
	switch k {
	case KindPlayUseful, KindPlayJustHinted, KindDiscardDispensable, KindHintFullKnowledge:
		return true
	default:
		return false
	}
}

// UsesCheck reports whether the rule takes a usability check
func (k Kind) UsesCheck() bool {
	return k == KindHintFullKnowledge
}
