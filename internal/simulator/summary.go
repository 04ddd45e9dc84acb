package simulator

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/statistics"
)

const histogramWidth = 40

// PrintSummary writes a summary of self-play results
func PrintSummary(w io.Writer, stats *statistics.Statistics, label string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s ===\n", label)
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.3f points/game\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.1f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.3f\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.3f\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.3f, %.3f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Perfect games: %d (%.1f%%)\n", stats.Perfect, stats.PerfectRate()*100)
	if stats.Games > 0 {
		fmt.Fprintf(w, "Bombed games: %d (%.1f%%)\n", stats.Bombed, float64(stats.Bombed)/float64(stats.Games)*100)
		fmt.Fprintf(w, "Storm tokens: %.2f/game\n", float64(stats.StormTokens)/float64(stats.Games))
	}
	fmt.Fprintf(w, "Turns: %.1f/game\n", stats.MeanTurns())

	fmt.Fprintf(w, "\n=== SCORE DISTRIBUTION ===\n")
	peak := 0
	for _, n := range stats.Histogram {
		peak = max(peak, n)
	}
	for score := 0; score <= card.MaxScore; score++ {
		n := stats.Histogram[score]
		if n == 0 {
			continue
		}
		bar := max(1, n*histogramWidth/peak)
		fmt.Fprintf(w, "%2d | %-*s %d\n", score, histogramWidth, strings.Repeat("#", bar), n)
	}

	if counts := playerCounts(stats); len(counts) > 1 {
		fmt.Fprintf(w, "\n=== TABLE SIZE ANALYSIS ===\n")
		for _, n := range counts {
			fmt.Fprintf(w, "%d players: %d games, %.3f points/game\n", n, stats.PlayerResults[n].Games, stats.PlayersMean(n))
		}
	}
}

func playerCounts(stats *statistics.Statistics) []int {
	var counts []int
	for n := 2; n <= statistics.MaxPlayers; n++ {
		if stats.PlayerResults[n].Games > 0 {
			counts = append(counts, n)
		}
	}
	return counts
}

// PrintComparison writes a Welch's t-test of challenger against baseline
func PrintComparison(w io.Writer, challenger, baseline string, a, b *statistics.Statistics, alpha float64) statistics.Comparison {
	c := statistics.Compare(a, b)

	fmt.Fprintf(w, "\n=== COMPARISON ===\n")
	fmt.Fprintf(w, "Challenger: %s (%.3f points/game over %d games)\n", challenger, a.Mean(), a.Games)
	fmt.Fprintf(w, "Baseline: %s (%.3f points/game over %d games)\n", baseline, b.Mean(), b.Games)
	fmt.Fprintf(w, "Difference: %+.3f (95%% CI [%.3f, %.3f])\n", c.Difference, c.CI95Low, c.CI95High)
	fmt.Fprintf(w, "t = %.3f, df = %d\n", c.TStatistic, c.DF)
	fmt.Fprintf(w, "Effect Size: %.2f (%s)\n", c.EffectSize, statistics.InterpretEffectSize(c.EffectSize))
	fmt.Fprintf(w, "P-Value: %.4f (%s)\n", c.PValue, statistics.InterpretPValue(c.PValue, alpha))

	fmt.Fprintf(w, "\n")
	switch {
	case c.PValue >= alpha:
		fmt.Fprintf(w, "Verdict: NO SIGNIFICANT DIFFERENCE\n")
	case c.Difference > 0:
		fmt.Fprintf(w, "Verdict: %s BETTER (%.0f%% confidence)\n", challenger, (1-alpha)*100)
	default:
		fmt.Fprintf(w, "Verdict: %s WORSE (%.0f%% confidence)\n", challenger, (1-alpha)*100)
	}
	return c
}
