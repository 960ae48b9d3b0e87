package benchstats

import (
	"fmt"

	"gowoa/domain/benchmark"
)

// Options controls aggregation.
type Options struct {
	BlockSize int
	// ExpectedRuns is the configured run count; zero skips the length check.
	ExpectedRuns int
}

// VariantStats is the recomputed view of one algorithm variant.
type VariantStats struct {
	Algorithm string
	Fitness   Summary
	Blocks    []Block
	// Convergence is recomputed from per-run rates when the optimizer wrote
	// them, otherwise it carries the reported mean/std.
	Convergence           Summary
	ConvergenceRecomputed bool

	AverageEER     *float64
	RuntimeSeconds *float64

	// Reported values as written by the optimizer, kept for audit.
	ReportedMean   *float64
	ReportedStd    *float64
	ReportedBlocks []benchmark.ReportedBlock
}

// FunctionStats is the aggregate for one objective function.
type FunctionStats struct {
	Name           string
	WOA            *VariantStats
	EWOA           *VariantStats
	ElapsedSeconds *float64

	Test           *SignedRank
	ReportedPValue *float64
	Significance   string
	Warnings       []string
}

// Aggregate recomputes summaries for both variants of one function and runs
// the paired test when both are present.
func Aggregate(name string, fr *benchmark.FunctionResult, opts Options) FunctionStats {
	out := FunctionStats{Name: name, ElapsedSeconds: sampleValue(fr.ElapsedSeconds)}

	if fr.WOA != nil {
		out.WOA = aggregateVariant(benchmark.Baseline, fr.WOA, opts.BlockSize)
		out.Warnings = append(out.Warnings, checkRuns(name, benchmark.Baseline, len(fr.WOA.All), opts.ExpectedRuns)...)
	}
	if fr.EWOA != nil {
		out.EWOA = aggregateVariant(benchmark.Enhanced, fr.EWOA, opts.BlockSize)
		out.Warnings = append(out.Warnings, checkRuns(name, benchmark.Enhanced, len(fr.EWOA.All), opts.ExpectedRuns)...)
	}
	if fr.Wilcoxon != nil {
		out.ReportedPValue = sampleValue(fr.Wilcoxon.PValue)
	}

	if fr.WOA != nil && fr.EWOA != nil {
		test, err := WilcoxonSignedRank(benchmark.Floats(fr.WOA.All), benchmark.Floats(fr.EWOA.All))
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: signed-rank test skipped: %v", name, err))
		} else {
			out.Test = &test
			out.Significance = Verdict(test.PValue)
			if test.Dropped > 0 {
				out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %d run pairs with non-finite values excluded from the signed-rank test", name, test.Dropped))
			}
		}
	}
	return out
}

// AggregateAll aggregates every function in payload order.
func AggregateAll(results *benchmark.Results, opts Options) []FunctionStats {
	out := make([]FunctionStats, 0, len(results.Functions))
	for _, name := range results.Functions {
		out = append(out, Aggregate(name, results.ByName[name], opts))
	}
	return out
}

func aggregateVariant(algo string, r *benchmark.AlgorithmResult, blockSize int) *VariantStats {
	values := benchmark.Floats(r.All)
	vs := &VariantStats{
		Algorithm:      algo,
		Fitness:        Summarize(values),
		Blocks:         Blocks(values, blockSize),
		AverageEER:     sampleValue(r.AverageEER),
		RuntimeSeconds: sampleValue(r.RuntimeSeconds),
		ReportedMean:   sampleValue(r.BestMean),
		ReportedStd:    sampleValue(r.BestStd),
		ReportedBlocks: r.RunBlockSummaries,
	}

	if len(r.ConvergenceRates) > 0 {
		vs.Convergence = Summarize(benchmark.Floats(r.ConvergenceRates))
		vs.ConvergenceRecomputed = true
	} else if r.ConvergenceRateMean != nil {
		vs.Convergence = Summary{Mean: float64(*r.ConvergenceRateMean), Defined: true}
		if r.ConvergenceRateStd != nil {
			vs.Convergence.Std = float64(*r.ConvergenceRateStd)
		}
	}
	return vs
}

func checkRuns(name, algo string, got, want int) []string {
	if want <= 0 || got == want {
		return nil
	}
	return []string{fmt.Sprintf("%s/%s: expected %d runs, optimizer returned %d", name, algo, want, got)}
}

func sampleValue(s *benchmark.Sample) *float64 {
	if s == nil {
		return nil
	}
	v := float64(*s)
	return &v
}
