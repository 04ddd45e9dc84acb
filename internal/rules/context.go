// Package rules is the library of decision rules. Each rule is a pure function
// of the belief state that either proposes an action or declines.
package rules

import (
	"math/rand/v2"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

// Context is what every rule sees. Rules must not mutate State.
type Context struct {
	State *state.AgentState
	Rand  *rand.Rand

	// NextPlayerOnly restricts hints to the player who acts next.
	NextPlayerOnly bool
}

// HintablePlayers returns the seats a hint may target, in turn order
func HintablePlayers(ctx *Context) []int {
	s := ctx.State
	n := len(s.Players)
	if n < 2 || s.UsedNoteTokens >= state.MaxNoteTokens {
		return nil
	}
	if ctx.NextPlayerOnly {
		return []int{s.NextSeat(s.Seat)}
	}

	limit := min(n-1, s.RemainingNoteTokens())
	start, ok := s.SeatOf(s.CurrentPlayer)
	if !ok {
		start = s.Seat
	}
	seats := make([]int, 0, limit)
	for i := 1; i < n && len(seats) < limit; i++ {
		seat := (start + i) % n
		if seat == s.Seat {
			continue
		}
		seats = append(seats, seat)
	}
	return seats
}

func (ctx *Context) hint(seat int, attr card.Attribute) action.Hint {
	return action.Hint{From: ctx.State.Name, To: ctx.State.Players[seat], Attribute: attr}
}

func (ctx *Context) play(index int) action.PlayCard {
	return action.PlayCard{From: ctx.State.Name, Index: index}
}

func (ctx *Context) discard(index int) action.DiscardCard {
	return action.DiscardCard{From: ctx.State.Name, Index: index}
}

// pick returns one element of xs uniformly at random
func pick[T any](ctx *Context, xs []T) T {
	return xs[ctx.Rand.IntN(len(xs))]
}

func shuffled(ctx *Context, xs []int) []int {
	out := append([]int(nil), xs...)
	ctx.Rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// canDiscard is false while every note token is still available; the server
// rejects a discard that cannot return a token.
func canDiscard(ctx *Context) bool {
	return ctx.State.UsedNoteTokens > 0
}

// stacksAt reports whether every firework stands at height h
func stacksAt(ctx *Context, h card.Value) bool {
	for _, c := range card.Colors {
		if ctx.State.Height(c) != int(h) {
			return false
		}
	}
	return true
}
