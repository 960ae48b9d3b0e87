package benchstats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"gowoa/domain/core"
)

// Alpha is the significance threshold used for the verdict text only.
const Alpha = 0.05

// exactLimit is the largest non-zero pair count for which the exact null
// distribution is enumerated.
const exactLimit = 50

// Significance verdicts.
const (
	Significant    = "Statistically Significant (p < 0.05)"
	NotSignificant = "Not Statistically Significant (p >= 0.05)"
)

// SignedRank is the result of a paired Wilcoxon signed-rank test.
type SignedRank struct {
	// N is the number of pairs that entered the ranking (non-zero differences).
	N int
	// Dropped counts pairs removed because either value was non-finite.
	Dropped int
	// Zeros counts pairs removed because the difference was zero.
	Zeros     int
	WPlus     float64
	WMinus    float64
	Statistic float64
	Z         float64
	PValue    float64
	Exact     bool
	Ties      bool
}

// WilcoxonSignedRank runs a two-sided paired signed-rank test on matched run
// indices. Differences are baseline minus enhanced.
func WilcoxonSignedRank(baseline, enhanced []float64) (SignedRank, error) {
	if len(baseline) != len(enhanced) {
		return SignedRank{}, fmt.Errorf("%w: %d baseline vs %d enhanced runs", core.ErrLengthMismatch, len(baseline), len(enhanced))
	}

	var res SignedRank
	diffs := make([]float64, 0, len(baseline))
	for i := range baseline {
		a, b := baseline[i], enhanced[i]
		if !finite(a) || !finite(b) {
			res.Dropped++
			continue
		}
		d := a - b
		if d == 0 {
			res.Zeros++
			continue
		}
		diffs = append(diffs, d)
	}

	res.N = len(diffs)
	if res.N == 0 {
		res.PValue = 1.0
		return res, nil
	}

	ranks, tieTerm := rankAbs(diffs)
	for i, d := range diffs {
		if d > 0 {
			res.WPlus += ranks[i]
		} else {
			res.WMinus += ranks[i]
		}
	}
	res.Statistic = math.Min(res.WPlus, res.WMinus)
	res.Ties = tieTerm > 0

	n := float64(res.N)
	mean := n * (n + 1) / 4
	variance := n*(n+1)*(2*n+1)/24 - tieTerm/48
	if variance > 0 {
		res.Z = (res.Statistic - mean) / math.Sqrt(variance)
	}

	if res.N <= exactLimit && !res.Ties {
		res.Exact = true
		res.PValue = exactTwoSided(res.Statistic, res.N)
		return res, nil
	}
	if variance <= 0 {
		res.PValue = 1.0
		return res, nil
	}
	res.PValue = math.Min(1.0, 2*distuv.UnitNormal.CDF(-math.Abs(res.Z)))
	return res, nil
}

// Verdict renders the significance decision for a p-value.
func Verdict(p float64) string {
	if p < Alpha {
		return Significant
	}
	return NotSignificant
}

// ZScorePercentile maps a z-score to its cumulative normal percentile in [0, 100].
func ZScorePercentile(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return 100 * distuv.UnitNormal.CDF(z)
}

// rankAbs assigns average ranks to |d| and returns the tie correction term
// sum(t^3 - t) over tie groups.
func rankAbs(diffs []float64) ([]float64, float64) {
	idx := make([]int, len(diffs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(diffs[idx[a]]) < math.Abs(diffs[idx[b]])
	})

	ranks := make([]float64, len(diffs))
	var tieTerm float64
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && math.Abs(diffs[idx[j]]) == math.Abs(diffs[idx[i]]) {
			j++
		}
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j
	}
	return ranks, tieTerm
}

// exactTwoSided enumerates the null distribution of W+ for ranks 1..n and
// returns 2*P(W <= w), capped at 1.
func exactTwoSided(statistic float64, n int) float64 {
	total := n * (n + 1) / 2
	w := int(math.Round(statistic))
	if w < 0 {
		w = 0
	}
	if w > total {
		w = total
	}
	if total-w < w {
		w = total - w
	}

	// dp[s] = number of sign assignments producing W+ = s.
	dp := make([]uint64, total+1)
	dp[0] = 1
	for r := 1; r <= n; r++ {
		for s := total; s >= r; s-- {
			dp[s] += dp[s-r]
		}
	}

	var cum uint64
	for s := 0; s <= w; s++ {
		cum += dp[s]
	}
	p := 2 * float64(cum) / math.Ldexp(1, n)
	if p > 1 {
		p = 1
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
