package testkit

import (
	"encoding/json"
	"math"
	"math/rand"

	"gowoa/domain/benchmark"
)

// BenchmarkGeneratorConfig configures synthetic optimizer output
type BenchmarkGeneratorConfig struct {
	Functions []string `json:"functions"`
	Runs      int      `json:"runs"`
	// BaselineMean and EnhancedMean center each variant's best fitness.
	BaselineMean float64 `json:"baseline_mean"`
	EnhancedMean float64 `json:"enhanced_mean"`
	Spread       float64 `json:"spread"`
	// NonFinite replaces that many leading enhanced runs with the NaN tag.
	NonFinite int   `json:"non_finite"`
	Seed      int64 `json:"seed"`
}

// DefaultBenchmarkConfig returns a clearly separated two-function benchmark
func DefaultBenchmarkConfig() BenchmarkGeneratorConfig {
	return BenchmarkGeneratorConfig{
		Functions:    []string{"rosenbrock", "griewank"},
		Runs:         30,
		BaselineMean: 120,
		EnhancedMean: 40,
		Spread:       10,
		Seed:         42,
	}
}

// BenchmarkGenerator produces documents shaped like the optimizer's output
type BenchmarkGenerator struct {
	config BenchmarkGeneratorConfig
	rng    *rand.Rand
}

// NewBenchmarkGenerator creates a deterministic generator
func NewBenchmarkGenerator(config BenchmarkGeneratorConfig) *BenchmarkGenerator {
	return &BenchmarkGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns the document as a generic object, functions in order.
func (g *BenchmarkGenerator) Generate() map[string]any {
	doc := make(map[string]any, len(g.config.Functions))
	for _, fn := range g.config.Functions {
		doc[fn] = map[string]any{
			benchmark.Baseline: g.variant(g.config.BaselineMean, 0),
			benchmark.Enhanced: g.variant(g.config.EnhancedMean, g.config.NonFinite),
			"wilcoxon":         map[string]any{"p_value": 0.5, "statistic": 0},
			"elapsed_s":        1.5,
		}
	}
	return doc
}

// JSON renders the document with functions in configured order.
func (g *BenchmarkGenerator) JSON() []byte {
	doc := g.Generate()
	out := []byte{'{'}
	for i, fn := range g.config.Functions {
		if i > 0 {
			out = append(out, ',')
		}
		key, _ := json.Marshal(fn)
		val, _ := json.Marshal(doc[fn])
		out = append(out, key...)
		out = append(out, ':')
		out = append(out, val...)
	}
	return append(out, '}')
}

func (g *BenchmarkGenerator) variant(center float64, nonFinite int) map[string]any {
	runs := make([]any, g.config.Runs)
	sum := 0.0
	for i := range runs {
		v := math.Abs(center + g.rng.NormFloat64()*g.config.Spread)
		sum += v
		if i < nonFinite {
			runs[i] = "NaN"
			continue
		}
		runs[i] = v
	}
	rates := []any{g.rng.Float64(), g.rng.Float64()}
	third := g.config.Runs / 3
	return map[string]any{
		"best_mean":             sum / float64(g.config.Runs),
		"best_std":              g.config.Spread,
		"average_eer":           0.1 + g.rng.Float64()*0.1,
		"runtime_s":             2 + g.rng.Float64(),
		"convergence_rate_mean": 0.5,
		"convergence_rate_std":  0.1,
		"convergence_rates":     rates,
		"all":                   runs,
		"run_block_summaries": []any{
			map[string]any{"runs": []int{1, third}, "best_mean": center, "best_std": g.config.Spread},
		},
	}
}
