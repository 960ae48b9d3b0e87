// Package benchstats aggregates repeated-run benchmark values: overall and
// per-block summaries plus a paired signed-rank test between the two
// algorithm variants.
package benchstats

import (
	"github.com/montanaflynn/stats"
)

// DefaultBlockSize is the run-block width used when none is configured.
const DefaultBlockSize = 10

// Summary is the shared mean/std primitive used for fitness values and
// convergence rates alike.
type Summary struct {
	N int
	// Mean is undefined for an empty sequence.
	Mean    float64
	Defined bool
	// Std is the population standard deviation, SampleStd uses n-1. Both are
	// zero for fewer than two values.
	Std       float64
	SampleStd float64
}

// Summarize computes mean and standard deviations of values. Non-finite
// values propagate into the result, they are not dropped.
func Summarize(values []float64) Summary {
	s := Summary{N: len(values)}
	if len(values) == 0 {
		return s
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return s
	}
	s.Mean = mean
	s.Defined = true

	if len(values) < 2 {
		return s
	}
	if std, err := stats.StandardDeviationPopulation(values); err == nil {
		s.Std = std
	}
	if std, err := stats.StandardDeviationSample(values); err == nil {
		s.SampleStd = std
	}
	return s
}

// Block is a contiguous 1-based run range [Start, End] with its own summary.
type Block struct {
	Start int
	End   int
	Summary
}

// Blocks partitions values into fixed-size contiguous blocks covering every
// run exactly once. The final block is shorter when len(values) is not a
// multiple of size. A size of zero or less yields a single block.
func Blocks(values []float64, size int) []Block {
	n := len(values)
	if n == 0 {
		return nil
	}
	if size <= 0 || size > n {
		size = n
	}

	blocks := make([]Block, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		blocks = append(blocks, Block{
			Start:   start + 1,
			End:     end,
			Summary: Summarize(values[start:end]),
		})
	}
	return blocks
}
