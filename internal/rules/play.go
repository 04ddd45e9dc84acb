package rules

import "github.com/lox/hanabot/internal/action"

// PlaySafe plays a card known to be playable, choosing randomly among several
func PlaySafe(ctx *Context) (action.Action, bool, error) {
	var playable []int
	for i, h := range ctx.State.Hand {
		if ctx.State.IsPlayable(h) {
			playable = append(playable, i)
		}
	}
	if len(playable) == 0 {
		return nil, false, nil
	}
	return ctx.play(pick(ctx, playable)), true, nil
}

// PlayUseful plays the card most likely to be playable, if that probability
// reaches threshold
func PlayUseful(ctx *Context, threshold float64) (action.Action, bool, error) {
	best, bestP := -1, 0.0
	for i, h := range ctx.State.Hand {
		if p := ctx.State.Usefulness(h); p > bestP {
			best, bestP = i, p
		}
	}
	if best < 0 || bestP < threshold {
		return nil, false, nil
	}
	return ctx.play(best), true, nil
}

// PlayJustHinted plays the card touched by the latest hint when that hint
// touched exactly one card and it is likely enough to be playable
func PlayJustHinted(ctx *Context, threshold float64) (action.Action, bool, error) {
	hinted := ctx.State.JustHintedIndices()
	if len(hinted) != 1 {
		return nil, false, nil
	}
	i := hinted[0]
	if i >= len(ctx.State.Hand) || ctx.State.Usefulness(ctx.State.Hand[i]) < threshold {
		return nil, false, nil
	}
	return ctx.play(i), true, nil
}

// PlayRandom plays any card
func PlayRandom(ctx *Context) (action.Action, bool, error) {
	n := len(ctx.State.Hand)
	if n == 0 {
		return nil, false, nil
	}
	return ctx.play(ctx.Rand.IntN(n)), true, nil
}
