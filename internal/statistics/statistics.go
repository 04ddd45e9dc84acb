// Package statistics summarises the scores of many Hanabi games.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/hanabot/internal/card"
)

// MaxPlayers is the largest table tracked per player count
const MaxPlayers = 5

// Result is the outcome of a single game
type Result struct {
	Score       int   // Sum of firework heights, 0 when the game bombed
	StormTokens int   // Storm tokens spent by misplays
	Turns       int   // Turns taken before the game ended
	Seed        int64 // Deck seed (for replay)
	Players     int   // Number of seats at the table
	Bombed      bool  // Ended on the last storm token
}

// PlayerCountStats tracks the games played at one table size
type PlayerCountStats struct {
	Games    int
	SumScore float64
}

// Statistics accumulates game results
type Statistics struct {
	Games     int
	SumScore  float64
	SumScore2 float64   // Sum of squares for variance calculation
	Values    []float64 // Every score, for median and percentiles

	// Histogram counts games per final score
	Histogram [card.MaxScore + 1]int

	Perfect     int // Games scoring 25
	Bombed      int // Games lost to the third storm token
	StormTokens int // Storm tokens spent across all games
	Turns       int // Turns taken across all games

	// Index 0 and 1 unused
	PlayerResults [MaxPlayers + 1]PlayerCountStats
}

// Add incorporates a game result
func (s *Statistics) Add(result Result) {
	score := float64(result.Score)
	s.Games++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Values = append(s.Values, score)

	if result.Score >= 0 && result.Score <= card.MaxScore {
		s.Histogram[result.Score]++
	}
	if result.Score == card.MaxScore {
		s.Perfect++
	}
	if result.Bombed {
		s.Bombed++
	}
	s.StormTokens += result.StormTokens
	s.Turns += result.Turns

	if n := result.Players; n >= 2 && n <= MaxPlayers {
		s.PlayerResults[n].Games++
		s.PlayerResults[n].SumScore += score
	}
}

// Mean returns the average score
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// Variance returns the sample variance of the scores
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of the scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

func (s *Statistics) sorted() []float64 {
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)
	return sorted
}

// Median returns the median score
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the score at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PlayersMean returns the mean score at tables of n players
func (s *Statistics) PlayersMean(n int) float64 {
	if n < 2 || n > MaxPlayers {
		return 0
	}
	ps := s.PlayerResults[n]
	if ps.Games == 0 {
		return 0
	}
	return ps.SumScore / float64(ps.Games)
}

// MeanTurns returns the average game length in turns
func (s *Statistics) MeanTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Games)
}

// PerfectRate returns the fraction of games scoring 25
func (s *Statistics) PerfectRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Perfect) / float64(s.Games)
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	histogramGames := 0
	for _, n := range s.Histogram {
		histogramGames += n
	}
	if histogramGames != s.Games {
		return fmt.Errorf("histogram total (%d) does not match games count (%d)", histogramGames, s.Games)
	}

	if s.Perfect != s.Histogram[card.MaxScore] {
		return fmt.Errorf("perfect games (%d) do not match histogram (%d)", s.Perfect, s.Histogram[card.MaxScore])
	}

	if s.Bombed > s.Histogram[0] {
		return fmt.Errorf("bombed games (%d) exceed zero-score games (%d)", s.Bombed, s.Histogram[0])
	}

	playerGames := 0
	for n := 2; n <= MaxPlayers; n++ {
		playerGames += s.PlayerResults[n].Games
	}
	if playerGames != s.Games {
		return fmt.Errorf("player count total (%d) does not match games count (%d)", playerGames, s.Games)
	}

	return nil
}
