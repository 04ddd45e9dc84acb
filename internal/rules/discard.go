package rules

import "github.com/lox/hanabot/internal/action"

// DiscardUseless discards a card that can never be played
func DiscardUseless(ctx *Context) (action.Action, bool, error) {
	if !canDiscard(ctx) {
		return nil, false, nil
	}
	var useless []int
	for i, h := range ctx.State.Hand {
		if ctx.State.IsUseless(h) {
			useless = append(useless, i)
		}
	}
	if len(useless) == 0 {
		return nil, false, nil
	}
	return ctx.discard(pick(ctx, useless)), true, nil
}

// DiscardDispensable discards the card least likely to be critical, if its
// dispensability reaches threshold
func DiscardDispensable(ctx *Context, threshold float64) (action.Action, bool, error) {
	if !canDiscard(ctx) {
		return nil, false, nil
	}
	best, bestP := -1, -1.0
	for i, h := range ctx.State.Hand {
		if p := ctx.State.Dispensability(h); p > bestP {
			best, bestP = i, p
		}
	}
	if best < 0 || bestP < threshold {
		return nil, false, nil
	}
	return ctx.discard(best), true, nil
}

// DiscardOldestUnhinted discards the oldest card no hint has touched
func DiscardOldestUnhinted(ctx *Context) (action.Action, bool, error) {
	if !canDiscard(ctx) {
		return nil, false, nil
	}
	for i, h := range ctx.State.Hand {
		if h.Unhinted() {
			return ctx.discard(i), true, nil
		}
	}
	return nil, false, nil
}

// DiscardRandom discards any card
func DiscardRandom(ctx *Context) (action.Action, bool, error) {
	n := len(ctx.State.Hand)
	if !canDiscard(ctx) || n == 0 {
		return nil, false, nil
	}
	return ctx.discard(ctx.Rand.IntN(n)), true, nil
}
