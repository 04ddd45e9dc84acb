package rules

import (
	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

// HintPlayable tells the first hintable player holding a playable card about
// it. An unambiguous value hint is preferred, then an unambiguous color hint,
// then whichever attribute touches the most un-hinted cards. A value hint is
// unambiguous when it completes the card, when every stack needs that value,
// or when it touches a single card.
func HintPlayable(ctx *Context) (action.Action, bool, error) {
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]
		var playable []int
		for i, c := range hand.Cards {
			if c.IsHintable() && ctx.State.IsPlayable(c) {
				playable = append(playable, i)
			}
		}
		if len(playable) == 0 {
			continue
		}
		playable = shuffled(ctx, playable)

		for _, i := range playable {
			c := hand.Cards[i]
			if !c.ValueHinted && (c.ColorHinted || stacksAt(ctx, c.Value-1) || countMatching(hand, card.ValueAttribute(c.Value)) == 1) {
				return ctx.hint(seat, card.ValueAttribute(c.Value)), true, nil
			}
		}
		for _, i := range playable {
			c := hand.Cards[i]
			if !c.ColorHinted && (c.ValueHinted || countMatching(hand, card.ColorAttribute(c.Color)) == 1) {
				return ctx.hint(seat, card.ColorAttribute(c.Color)), true, nil
			}
		}

		c := hand.Cards[playable[0]]
		return ctx.hint(seat, mostInformative(hand, c)), true, nil
	}
	return nil, false, nil
}

// HintUseful hints the card that is closest to being playable among the
// cards that are still needed and not fully known to their holder
func HintUseful(ctx *Context) (action.Action, bool, error) {
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]
		best, bestGap := -1, int(card.MaxValue)+1
		for i, c := range hand.Cards {
			if !c.IsHintable() || ctx.State.IsUseless(c) {
				continue
			}
			if gap := int(c.Value) - ctx.State.Height(c.Color); gap < bestGap {
				best, bestGap = i, gap
			}
		}
		if best < 0 {
			continue
		}
		c := hand.Cards[best]
		if c.ValueHinted {
			return ctx.hint(seat, card.ColorAttribute(c.Color)), true, nil
		}
		return ctx.hint(seat, card.ValueAttribute(c.Value)), true, nil
	}
	return nil, false, nil
}

// HintMostInformation gives the hint that touches the most un-hinted cards
// across every hintable player
func HintMostInformation(ctx *Context) (action.Action, bool, error) {
	bestSeat, bestCount := -1, 0
	var bestAttr card.Attribute
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]

		colorAttr, colorCount := bestColor(hand)
		valueAttr, valueCount := bestValue(hand)

		attr, count := colorAttr, colorCount
		switch {
		case valueCount > colorCount:
			attr, count = valueAttr, valueCount
		case valueCount == colorCount && ctx.Rand.IntN(2) == 0:
			attr = valueAttr
		}
		if count > bestCount {
			bestSeat, bestCount, bestAttr = seat, count, attr
		}
	}
	if bestSeat < 0 {
		return nil, false, nil
	}
	return ctx.hint(bestSeat, bestAttr), true, nil
}

// HintFullKnowledge completes the missing attribute of a half-hinted card
// that passes the usability check
func HintFullKnowledge(ctx *Context, check state.Check, threshold float64) (action.Action, bool, error) {
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]
		var candidates []int
		for i, c := range hand.Cards {
			if c.HintedCount() != 1 {
				continue
			}
			ok, err := ctx.State.CheckUsability(c, check, threshold)
			if err != nil {
				return nil, false, err
			}
			if ok {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		c := hand.Cards[pick(ctx, candidates)]
		if c.ColorHinted {
			return ctx.hint(seat, card.ValueAttribute(c.Value)), true, nil
		}
		return ctx.hint(seat, card.ColorAttribute(c.Color)), true, nil
	}
	return nil, false, nil
}

// HintCritical warns a player about a card that is the last copy of its kind
func HintCritical(ctx *Context) (action.Action, bool, error) {
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]
		var critical []int
		for i, c := range hand.Cards {
			if !c.ValueHinted && ctx.State.IsCritical(c.Identity) {
				critical = append(critical, i)
			}
		}
		if len(critical) == 0 {
			continue
		}
		c := hand.Cards[pick(ctx, critical)]
		return ctx.hint(seat, card.ValueAttribute(c.Value)), true, nil
	}
	return nil, false, nil
}

// HintUnknown hints a random missing attribute of a random hintable card
func HintUnknown(ctx *Context) (action.Action, bool, error) {
	for _, seat := range HintablePlayers(ctx) {
		hand := ctx.State.PlayerHands[seat]
		var hintable []int
		for i, c := range hand.Cards {
			if c.IsHintable() {
				hintable = append(hintable, i)
			}
		}
		if len(hintable) == 0 {
			continue
		}
		c := hand.Cards[pick(ctx, hintable)]
		var options []card.Attribute
		if !c.ColorHinted {
			options = append(options, card.ColorAttribute(c.Color))
		}
		if !c.ValueHinted {
			options = append(options, card.ValueAttribute(c.Value))
		}
		return ctx.hint(seat, pick(ctx, options)), true, nil
	}
	return nil, false, nil
}

// countMatching counts the cards touched by attr whose matching flag is unset
func countMatching(hand *card.Hand, attr card.Attribute) int {
	n := 0
	for _, c := range hand.Cards {
		if !attr.Matches(c.Identity) {
			continue
		}
		switch attr.Kind {
		case card.KindColor:
			if !c.ColorHinted {
				n++
			}
		case card.KindValue:
			if !c.ValueHinted {
				n++
			}
		}
	}
	return n
}

// mostInformative picks whichever of c's un-hinted attributes touches more
// un-hinted cards; value wins a tie
func mostInformative(hand *card.Hand, c card.ObservableCard) card.Attribute {
	color, value := card.ColorAttribute(c.Color), card.ValueAttribute(c.Value)
	switch {
	case c.ValueHinted:
		return color
	case c.ColorHinted:
		return value
	case countMatching(hand, color) > countMatching(hand, value):
		return color
	default:
		return value
	}
}

func bestColor(hand *card.Hand) (card.Attribute, int) {
	best, bestCount := card.Attribute{}, 0
	for _, c := range card.Colors {
		attr := card.ColorAttribute(c)
		if n := countMatching(hand, attr); n > bestCount {
			best, bestCount = attr, n
		}
	}
	return best, bestCount
}

func bestValue(hand *card.Hand) (card.Attribute, int) {
	best, bestCount := card.Attribute{}, 0
	for _, v := range card.Values {
		attr := card.ValueAttribute(v)
		if n := countMatching(hand, attr); n > bestCount {
			best, bestCount = attr, n
		}
	}
	return best, bestCount
}
