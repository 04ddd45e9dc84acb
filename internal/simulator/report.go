package simulator

import (
	"github.com/lox/hanabot/internal/card"
	"github.com/lox/hanabot/internal/statistics"
)

// Report is the machine-readable summary of a self-play run
type Report struct {
	Label     string                 `json:"label"`
	Players   int                    `json:"players"`
	Games     int                    `json:"games"`
	Mean      float64                `json:"mean"`
	Median    float64                `json:"median"`
	StdDev    float64                `json:"std_dev"`
	CI95      [2]float64             `json:"ci95"`
	Perfect   int                    `json:"perfect"`
	Bombed    int                    `json:"bombed"`
	Histogram [card.MaxScore + 1]int `json:"histogram"`
	Results   []GameSummary          `json:"results"`
}

// GameSummary is one game of a report
type GameSummary struct {
	ID          string   `json:"id"`
	Seed        int64    `json:"seed"`
	Strategies  []string `json:"strategies"`
	Score       int      `json:"score"`
	StormTokens int      `json:"storm_tokens"`
	Turns       int      `json:"turns"`
}

// NewReport summarises results and their statistics
func NewReport(label string, players int, stats *statistics.Statistics, results []*GameResult) Report {
	low, high := stats.ConfidenceInterval95()
	r := Report{
		Label:     label,
		Players:   players,
		Games:     stats.Games,
		Mean:      stats.Mean(),
		Median:    stats.Median(),
		StdDev:    stats.StdDev(),
		CI95:      [2]float64{low, high},
		Perfect:   stats.Perfect,
		Bombed:    stats.Bombed,
		Histogram: stats.Histogram,
		Results:   make([]GameSummary, 0, len(results)),
	}
	for _, g := range results {
		r.Results = append(r.Results, GameSummary{
			ID:          g.ID,
			Seed:        g.Seed,
			Strategies:  g.Strategies,
			Score:       g.Score,
			StormTokens: g.StormTokens,
			Turns:       g.Turns,
		})
	}
	return r
}
