package report

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/domain/benchmark"
	"gowoa/domain/prediction"
	"gowoa/internal/benchstats"
	"gowoa/internal/decision"
	"gowoa/internal/format"
)

func f(v float64) *float64 { return &v }

func find(t *testing.T, rows []Row, category, parameter string) string {
	t.Helper()
	for _, r := range rows {
		if r.Category == category && r.Parameter == parameter {
			return r.Value
		}
	}
	t.Fatalf("row %s/%s not found", category, parameter)
	return ""
}

func sampleResult() *prediction.Result {
	return &prediction.Result{
		FinalPrediction:     prediction.Malignant,
		Probabilities:       map[string]float64{"Malignant": 0.7, "Benign": 0.3},
		DistanceToBenign:    f(2.0),
		DistanceToMalignant: f(1.0),
		Tau:                 f(0.6),
		AbnormalityScores:   map[string]json.Number{"spiculation_index": "0.42", "custom_score": "3"},
		TopFeatureContributors: []prediction.FeatureContribution{
			{Name: "glcm_contrast", Weight: "0.75"},
			{Name: "hist_skew", Weight: "-0.25"},
		},
		ZScores:          map[string]json.Number{"hist_mean": "0", "edge_ratio": "1.959964"},
		BackgroundTissue: &prediction.BackgroundTissue{Code: "B", Text: "Fatty-glandular"},
		Explanation:      &prediction.Explanation{Class: []string{"irregular margin", "dense core"}},
	}
}

func TestPredictionRows(t *testing.T) {
	r := sampleResult()
	rows := Prediction(r, decision.Evaluate(decision.FromResult(r)), 6)

	assert.Equal(t, Row{"Prediction", "final_prediction", "Malignant"}, rows[0])
	assert.Equal(t, "0.300000", find(t, rows, "Probability", "Benign"))
	assert.Equal(t, "0.700000", find(t, rows, "Probability", "confidence"))

	assert.Equal(t, "0.500000", find(t, rows, "Decision", "distance_ratio"))
	assert.Equal(t, "1.200000", find(t, rows, "Decision", "malignant_margin_x"))
	assert.Equal(t, "20.000%", find(t, rows, "Decision", "malignant_margin_pct"))
	assert.Equal(t, "0.833333", find(t, rows, "Decision", "benign_margin_x"))
	assert.Equal(t, "-16.667%", find(t, rows, "Decision", "benign_margin_pct"))
	assert.Contains(t, find(t, rows, "Decision", "decision_verdict"), "→ Malignant")
	assert.Equal(t, format.Absent, find(t, rows, "Decision", "ratio_decision_rule"))
	assert.Equal(t, "true", find(t, rows, "Decision", "decision_matches_probability"))

	assert.Equal(t, "0.420000", find(t, rows, "Abnormality Score", "Spiculation Index Score"))
	assert.Equal(t, "3", find(t, rows, "Abnormality Score", "custom_score"))
	assert.Equal(t, format.Absent, find(t, rows, "Background", "explanation"))
	assert.Equal(t, "irregular margin; dense core", find(t, rows, "Explanation", "class"))

	assert.Equal(t, "0.750000", find(t, rows, "Feature Contribution", "GLCM Contrast (Texture Roughness)"))
	assert.Equal(t, "75.000%", find(t, rows, "Feature Share", "GLCM Contrast (Texture Roughness)"))
	assert.Equal(t, "25.000%", find(t, rows, "Feature Share", "Histogram Skewness (Asymmetry)"))

	assert.Equal(t, "50.00%", find(t, rows, "Z-Score Percentile", "Histogram Mean Intensity (μ)"))
	assert.Equal(t, "97.50%", find(t, rows, "Z-Score Percentile", "Edge Ratio"))

	var zOrder []string
	for _, row := range rows {
		if row.Category == "Z-Score" {
			zOrder = append(zOrder, row.Parameter)
		}
	}
	assert.Equal(t, []string{"Edge Ratio", "Histogram Mean Intensity (μ)"}, zOrder)
}

func TestPredictionRowsUnavailableMetrics(t *testing.T) {
	r := &prediction.Result{
		FinalPrediction:     prediction.Benign,
		DistanceToBenign:    f(0),
		DistanceToMalignant: f(1),
	}
	rows := Prediction(r, decision.Evaluate(decision.FromResult(r)), 6)

	for _, key := range []string{"distance_ratio", "malignant_margin_x", "malignant_margin_pct",
		"benign_margin_x", "benign_margin_pct", "decision_verdict", "decision_matches_probability"} {
		assert.Equal(t, format.Unavailable, find(t, rows, "Decision", key), key)
	}
	assert.Equal(t, format.Absent, find(t, rows, "Decision", "tau"))
	assert.Equal(t, "0.000000", find(t, rows, "Decision", "distance_to_benign"))
	for _, row := range rows {
		assert.NotEmpty(t, row.Value, "%s/%s", row.Category, row.Parameter)
	}
}

func TestComparisonRows(t *testing.T) {
	c := &prediction.Comparison{
		Image:       "case_01.png",
		GroundTruth: "Benign",
		WOA: prediction.ModelEntry{
			Result:        prediction.Result{FinalPrediction: prediction.Malignant, Tau: f(1.0)},
			ReportedRatio: f(0.8), ExecutionTime: f(4.0), Outcome: "FP",
			TopFeatures: []string{"glcm_entropy", "roughness"},
		},
		EWOA: prediction.ModelEntry{
			Result:        prediction.Result{FinalPrediction: prediction.Benign, Tau: f(1.0)},
			ReportedRatio: f(1.3), ExecutionTime: f(3.0), ReportedConfidence: f(0.91),
		},
	}
	rows := Comparison(c, decision.EvaluateComparison(c), 4, []string{"ground truth csv not found"})

	assert.Equal(t, "Benign", find(t, rows, "Comparison", "ground_truth"))
	assert.Equal(t, "false", find(t, rows, "Comparison", "models_agree"))
	assert.Equal(t, "EWOA 25.0% faster", find(t, rows, "Comparison", "time_improvement"))
	assert.Equal(t, "FP", find(t, rows, "WOA", "outcome"))
	assert.Equal(t, "Incorrect", find(t, rows, "WOA", "accuracy"))
	assert.Equal(t, "TN", find(t, rows, "EWOA", "outcome"))
	assert.Equal(t, "0.9100", find(t, rows, "EWOA", "confidence"))
	assert.Equal(t, "GLCM Entropy (Randomness); Surface Roughness Estimate", find(t, rows, "WOA", "top_features"))
	assert.Equal(t, "ground truth csv not found", find(t, rows, "Warning", "message"))
}

func TestComparisonRowsCarryEveryDerivedField(t *testing.T) {
	c := &prediction.Comparison{
		GroundTruth: prediction.NoGroundTruth,
		WOA: prediction.ModelEntry{Result: prediction.Result{
			FinalPrediction:     prediction.Malignant,
			Probabilities:       map[string]float64{"Benign": 0.8, "Malignant": 0.2},
			DistanceToBenign:    f(2.0),
			DistanceToMalignant: f(1.0),
			Tau:                 f(0.6),
		}},
		EWOA: prediction.ModelEntry{Result: prediction.Result{FinalPrediction: prediction.Benign}},
	}
	cd := decision.EvaluateComparison(c)
	require.NotNil(t, cd.WOA.Derived.MatchesProbability)
	require.False(t, *cd.WOA.Derived.MatchesProbability)

	rows := Comparison(c, cd, 6, nil)

	assert.Equal(t, "false", find(t, rows, "WOA", "decision_matches_probability"))
	assert.Equal(t, decision.DisagreementNote, find(t, rows, "WOA", "note"))
	assert.Equal(t, "0.500000", find(t, rows, "WOA", "distance_ratio"))
	assert.Equal(t, "20.000%", find(t, rows, "WOA", "malignant_margin_pct"))
	assert.Equal(t, "-16.667%", find(t, rows, "WOA", "benign_margin_pct"))
	assert.Equal(t, "N/A", find(t, rows, "WOA", "outcome"))

	for _, key := range []string{"distance_ratio", "malignant_margin_x", "malignant_margin_pct",
		"benign_margin_x", "benign_margin_pct", "decision_verdict", "decision_matches_probability"} {
		assert.Equal(t, format.Unavailable, find(t, rows, "EWOA", key), key)
	}
}

func TestPredictionRowsNonFiniteValues(t *testing.T) {
	r := &prediction.Result{
		FinalPrediction:     prediction.Benign,
		Probabilities:       map[string]float64{"Benign": math.NaN(), "Malignant": 0.3},
		DistanceToBenign:    f(math.NaN()),
		DistanceToMalignant: f(1.0),
		Tau:                 f(0.6),
		AbnormalityScores:   map[string]json.Number{"mass": "+Inf"},
		ZScores:             map[string]json.Number{"hist_mean": "NaN", "edge_ratio": "-Inf"},
	}
	rows := Prediction(r, decision.Evaluate(decision.FromResult(r)), 6)

	assert.Equal(t, format.NaN, find(t, rows, "Decision", "distance_to_benign"))
	assert.Equal(t, format.NaN, find(t, rows, "Probability", "Benign"))
	assert.Equal(t, "0.300000", find(t, rows, "Probability", "confidence"))
	assert.Equal(t, format.Unavailable, find(t, rows, "Decision", "distance_ratio"))
	assert.Equal(t, format.Unavailable, find(t, rows, "Decision", "malignant_margin_x"))
	assert.Equal(t, format.PosInf, find(t, rows, "Abnormality Score", "mass"))
	assert.Equal(t, format.NaN, find(t, rows, "Z-Score", "Histogram Mean Intensity (μ)"))
	assert.Equal(t, format.Unavailable, find(t, rows, "Z-Score Percentile", "Histogram Mean Intensity (μ)"))
	assert.Equal(t, format.NegInf, find(t, rows, "Z-Score", "Edge Ratio"))
	assert.Equal(t, "0.00%", find(t, rows, "Z-Score Percentile", "Edge Ratio"))
}

func TestTimeImprovement(t *testing.T) {
	assert.Equal(t, format.Unavailable, TimeImprovement(f(math.NaN()), f(1)))
	assert.Equal(t, "EWOA 50.0% faster", TimeImprovement(f(2), f(1)))
	assert.Equal(t, "EWOA 100.0% slower", TimeImprovement(f(1), f(2)))
	assert.Equal(t, format.Unavailable, TimeImprovement(nil, f(2)))
	assert.Equal(t, format.Unavailable, TimeImprovement(f(0), f(2)))
}

func samples(values ...float64) []benchmark.Sample {
	out := make([]benchmark.Sample, len(values))
	for i, v := range values {
		out[i] = benchmark.Sample(v)
	}
	return out
}

func benchStats() []benchstats.FunctionStats {
	fr := &benchmark.FunctionResult{
		WOA:  &benchmark.AlgorithmResult{All: samples(5, 6, 7, 8)},
		EWOA: &benchmark.AlgorithmResult{All: samples(1, 2, 3, math.NaN())},
	}
	return []benchstats.FunctionStats{benchstats.Aggregate("rosenbrock", fr, benchstats.Options{BlockSize: 3})}
}

func TestBenchmarkRows(t *testing.T) {
	rows := Benchmark(benchStats(), 4)

	assert.Equal(t, "6.5000", find(t, rows, "rosenbrock (WOA)", "Mean Best Fitness"))
	assert.Equal(t, format.Unavailable, find(t, rows, "rosenbrock (WOA)", "Mean EER (0-1)"))
	assert.Equal(t, format.Absent, find(t, rows, "rosenbrock (WOA)", "Reported Mean Best Fitness"))
	assert.Equal(t, "8.0000", find(t, rows, "rosenbrock (WOA)", "Runs 4-4 Mean"))
	assert.Equal(t, "NaN", find(t, rows, "rosenbrock (EWOA)", "Mean Best Fitness"))

	p := find(t, rows, "rosenbrock", "Wilcoxon p-value")
	assert.Len(t, strings.SplitN(p, ".", 2)[1], PValuePrecision)
	assert.Equal(t, "3", find(t, rows, "rosenbrock", "Wilcoxon pairs"))
	assert.Equal(t, benchstats.NotSignificant, find(t, rows, "rosenbrock", "Significance"))
	assert.Contains(t, find(t, rows, "Warning", "rosenbrock"), "non-finite")
}

func TestBenchmarkMarkdown(t *testing.T) {
	md := BenchmarkMarkdown(benchStats(), 4)
	assert.True(t, strings.HasPrefix(md, "# Benchmark Results\n"))
	assert.Contains(t, md, "## rosenbrock")
	assert.Contains(t, md, "| Mean Best Fitness | 6.5000 | NaN |")
	assert.Contains(t, md, "### WOA run blocks")
	assert.Contains(t, md, "| 1-3 | 6.0000 |")
	assert.Contains(t, md, "**Wilcoxon signed-rank:** p = ")
}

func TestMarkdownEscapesCells(t *testing.T) {
	md := Markdown("Prediction", []Row{{"Decision", "note", "a | b\nc"}})
	require.Contains(t, md, "# Prediction")
	assert.Contains(t, md, `| Decision | note | a \| b c |`)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Tissue Density Index", FeatureName("density_index"))
	assert.Equal(t, "unknown_feature", FeatureName("unknown_feature"))
	assert.Equal(t, "Std Dev (Conv. Rate)", MetricName("convergence_rate_std"))
	assert.Equal(t, "Final Error Rate", MetricName("final_error_rate"))
}

func TestRecords(t *testing.T) {
	recs := Records([]Row{{"A", "b", "c"}})
	assert.Equal(t, [][]string{Header, {"A", "b", "c"}}, recs)
}
