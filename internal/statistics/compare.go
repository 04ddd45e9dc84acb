package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Comparison is a two-sample test of the mean scores of two runs
type Comparison struct {
	Difference float64 // Mean of a minus mean of b
	StdError   float64
	TStatistic float64
	DF         int
	PValue     float64 // Two-tailed
	EffectSize float64 // Cohen's d
	CI95Low    float64
	CI95High   float64
}

// Compare runs Welch's t-test on the scores of a and b
func Compare(a, b *Statistics) Comparison {
	difference := a.Mean() - b.Mean()

	pooled := pooledStdDev(a.StdDev(), a.Games, b.StdDev(), b.Games)
	effectSize := 0.0
	if pooled > 0 {
		effectSize = difference / pooled
	}

	se := math.Sqrt(a.StdError()*a.StdError() + b.StdError()*b.StdError())
	tStat := 0.0
	if se > 0 {
		tStat = difference / se
	}

	df := welchDF(a.StdDev(), a.Games, b.StdDev(), b.Games)
	c := Comparison{
		Difference: difference,
		StdError:   se,
		TStatistic: tStat,
		DF:         df,
		PValue:     pValue(tStat, df),
		EffectSize: effectSize,
		CI95Low:    difference,
		CI95High:   difference,
	}
	if df > 0 && se > 0 {
		// Two-tailed 95% CI uses the 97.5th percentile
		margin := studentsT(df).Quantile(0.975) * se
		c.CI95Low = difference - margin
		c.CI95High = difference + margin
	}
	return c
}

func studentsT(df int) distuv.StudentsT {
	return distuv.StudentsT{Nu: float64(df), Mu: 0, Sigma: 1}
}

func pooledStdDev(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	if n1+n2 <= 2 {
		return 0
	}
	pooledVar := (float64(n1-1)*sd1*sd1 + float64(n2-1)*sd2*sd2) / float64(n1+n2-2)
	return math.Sqrt(pooledVar)
}

// welchDF approximates the degrees of freedom of the difference
func welchDF(sd1 float64, n1 int, sd2 float64, n2 int) int {
	if n1 <= 1 || n2 <= 1 {
		return 0
	}

	v1 := sd1 * sd1 / float64(n1)
	v2 := sd2 * sd2 / float64(n2)

	numerator := (v1 + v2) * (v1 + v2)
	denominator := (v1*v1)/float64(n1-1) + (v2*v2)/float64(n2-1)
	if denominator == 0 {
		return n1 + n2 - 2
	}
	return int(math.Floor(numerator / denominator))
}

// pValue returns P(|T| > |t|)
func pValue(tStat float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	p := 2 * (1 - studentsT(df).CDF(math.Abs(tStat)))
	return min(max(p, 0), 1)
}

// InterpretEffectSize describes Cohen's d
func InterpretEffectSize(d float64) string {
	switch d = math.Abs(d); {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// InterpretPValue describes a p-value against the significance level alpha
func InterpretPValue(p, alpha float64) string {
	switch {
	case p < 0.001:
		return "highly significant"
	case p < 0.01:
		return "very significant"
	case p < alpha:
		return "significant"
	case p < 0.10:
		return "marginally significant"
	default:
		return "not significant"
	}
}
