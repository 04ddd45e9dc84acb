// Package display renders Hanabi boards for the terminal.
package display

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/lox/hanabot/internal/action"
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/state"
)

// Card renders a single card, e.g. "R3" in red
func Card(id card.Identity) string {
	return CardStyle(id.Color).Render(id.Short())
}

// Cards renders a list of cards separated by spaces
func Cards(ids []card.Identity) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = Card(id)
	}
	return strings.Join(parts, " ")
}

// Hidden renders n concealed cards
func Hidden(n int) string {
	return InfoStyle.Render(strings.TrimSpace(strings.Repeat("?? ", n)))
}

// Fireworks renders the height of every firework, e.g. "W0 R2 B1 Y0 G3"
func Fireworks(fireworks map[card.Color][]card.Identity) string {
	parts := make([]string, 0, card.NumColors)
	for _, c := range card.Colors {
		height := len(fireworks[c])
		parts = append(parts, CardStyle(c).Render(fmt.Sprintf("%c%d", c.String()[0], height)))
	}
	return strings.Join(parts, " ")
}

// Tokens renders the remaining note tokens and the spent storm tokens
func Tokens(usedNotes, usedStorms int) string {
	notes := fmt.Sprintf("Notes %d/%d", state.MaxNoteTokens-usedNotes, state.MaxNoteTokens)
	storms := fmt.Sprintf("Storms %d/%d", usedStorms, state.MaxStormTokens)

	notesStyle := SuccessStyle
	if usedNotes == state.MaxNoteTokens {
		notesStyle = WarningStyle
	}
	stormStyle := InfoStyle
	if usedStorms > 0 {
		stormStyle = ErrorStyle
	}
	return notesStyle.Render(notes) + "  " + stormStyle.Render(storms)
}

// Score returns the sum of the firework heights
func Score(fireworks map[card.Color][]card.Identity) int {
	score := 0
	for _, c := range card.Colors {
		score += len(fireworks[c])
	}
	return score
}

// Board renders a snapshot: fireworks, tokens, every hand and the discard
// pile. Hands the snapshot conceals are drawn as question marks.
func Board(snap state.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s   %s %d\n",
		LabelStyle.Render("Fireworks"), Fireworks(snap.Fireworks),
		LabelStyle.Render("Score"), Score(snap.Fireworks))
	b.WriteString(Tokens(snap.UsedNoteTokens, snap.UsedStormTokens))
	b.WriteString("\n\n")

	width := 0
	for _, p := range snap.Players {
		width = max(width, len(p.Name))
	}
	for _, p := range snap.Players {
		marker, name := "  ", fmt.Sprintf("%-*s", width, p.Name)
		if p.Name == snap.CurrentPlayer {
			marker, name = "> ", CurrentPlayerStyle.Render(name)
		}
		hand := Cards(p.Hand)
		if len(p.Hand) == 0 {
			hand = Hidden(snap.HandSize)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", marker, name, hand)
	}

	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Discards"))
	if len(snap.DiscardPile) == 0 {
		b.WriteString(" " + InfoStyle.Render("none"))
	} else {
		b.WriteString(" " + Cards(SortedCards(snap.DiscardPile)))
	}
	b.WriteString("\n")
	return b.String()
}

// SortedCards returns a copy of ids ordered by color, then value
func SortedCards(ids []card.Identity) []card.Identity {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b card.Identity) int {
		return cmp.Or(cmp.Compare(a.Color, b.Color), cmp.Compare(a.Value, b.Value))
	})
	return sorted
}

// Result describes an acknowledged action in one line
func Result(r action.Result) string {
	switch r := r.(type) {
	case action.HintResult:
		return fmt.Sprintf("%s hints %s: %s at %v", r.From, r.To, r.Attribute, positions(r.Positions))
	case action.PlayResult:
		if r.Success {
			return fmt.Sprintf("%s plays %s", r.From, Card(r.Card)) + " " + SuccessStyle.Render("ok")
		}
		return fmt.Sprintf("%s plays %s", r.From, Card(r.Card)) + " " + ErrorStyle.Render("storm")
	case action.DiscardResult:
		return fmt.Sprintf("%s discards %s", r.From, Card(r.Card))
	default:
		return r.String()
	}
}

// positions lists hand positions counting from 1
func positions(ps []int) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprint(p + 1)
	}
	return strings.Join(parts, ",")
}
