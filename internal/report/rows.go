// Package report flattens decoded results and their derived metrics into
// (category, parameter, value) rows and Markdown summaries. Every value is
// rendered through the format package; undefined derived metrics carry the
// unavailable marker and missing raw values the absent glyph.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gowoa/domain/prediction"
	"gowoa/internal/benchstats"
	"gowoa/internal/decision"
	"gowoa/internal/format"
)

// Header is the column header of every flat export.
var Header = []string{"Category", "Parameter", "Value"}

// PercentPrecision is used for margin and share percentages.
const PercentPrecision = 3

// PValuePrecision is used for significance-test p-values.
const PValuePrecision = 8

// Row is one line of the flat export.
type Row struct {
	Category  string `json:"category"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// Strings returns the row as a record for tabular writers
func (r Row) Strings() []string {
	return []string{r.Category, r.Parameter, r.Value}
}

type builder struct {
	rows      []Row
	precision int
}

func (b *builder) add(category, parameter, value string) {
	b.rows = append(b.rows, Row{Category: category, Parameter: parameter, Value: value})
}

func (b *builder) value(category, parameter string, v any) {
	b.add(category, parameter, format.Value(v, b.precision))
}

func (b *builder) metric(category, parameter string, m decision.Metric) {
	b.add(category, parameter, m.Format(b.precision))
}

func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return format.Absent
	}
	return s
}

func flag(v *bool) string {
	if v == nil {
		return format.Unavailable
	}
	return strconv.FormatBool(*v)
}

// Prediction flattens a single-image result. Raw fields come first in the
// order the analysis tool defines them, derived metrics follow their inputs.
func Prediction(r *prediction.Result, d decision.Derived, precision int) []Row {
	b := &builder{precision: precision}

	b.add("Prediction", "final_prediction", text(string(r.FinalPrediction)))
	b.add("Prediction", "rule_prediction", text(string(d.RuleLabel)))
	for _, class := range sortedKeys(r.Probabilities) {
		b.value("Probability", class, r.Probabilities[class])
	}
	b.metric("Probability", "confidence", d.Confidence)

	b.value("Decision", "distance_to_benign", r.DistanceToBenign)
	b.value("Decision", "distance_to_malignant", r.DistanceToMalignant)
	b.value("Decision", "tau", r.Tau)
	b.add("Decision", "ratio_decision_rule", text(r.RatioDecision))
	b.decision("Decision", d)

	b.add("Abnormality", "type", text(r.AbnormalityType))
	for _, key := range sortedKeys(r.AbnormalityScores) {
		b.value("Abnormality Score", FeatureName(key), r.AbnormalityScores[key])
	}

	if bg := r.BackgroundTissue; bg != nil {
		b.add("Background", "code", text(bg.Code))
		b.add("Background", "text", text(bg.Text))
		b.add("Background", "explanation", text(bg.Explain))
	}
	if ex := r.Explanation; ex != nil {
		if len(ex.Class) > 0 {
			b.add("Explanation", "class", strings.Join(ex.Class, "; "))
		}
		if ex.AbnormalitySummary != "" {
			b.add("Explanation", "abnormality_summary", ex.AbnormalitySummary)
		}
	}

	shares := FeatureShares(r.TopFeatureContributors)
	for i, fc := range r.TopFeatureContributors {
		name := FeatureName(fc.Name)
		b.value("Feature Contribution", name, fc.Weight)
		b.add("Feature Share", name, sharePercent(shares[i]))
	}

	for _, key := range sortedKeys(r.ZScores) {
		name := FeatureName(key)
		z := r.ZScores[key]
		b.value("Z-Score", name, z)
		if f, err := z.Float64(); err == nil && !math.IsNaN(f) {
			b.add("Z-Score Percentile", name, format.Percent(benchstats.ZScorePercentile(f), 2))
		} else {
			b.add("Z-Score Percentile", name, format.Unavailable)
		}
	}
	return b.rows
}

// decision emits every derived decision field under category with stable
// parameter names, shared by the prediction and comparison exports.
func (b *builder) decision(category string, d decision.Derived) {
	b.metric(category, "distance_ratio", d.Ratio)
	b.metric(category, "malignant_margin_x", d.MalignantMargin)
	b.add(category, "malignant_margin_pct", d.MalignantMargin.Percent(PercentPrecision))
	b.metric(category, "benign_margin_x", d.BenignMargin)
	b.add(category, "benign_margin_pct", d.BenignMargin.Percent(PercentPrecision))
	if d.Verdict != "" {
		b.add(category, "decision_verdict", d.Verdict)
	} else {
		b.add(category, "decision_verdict", format.Unavailable)
	}
	b.add(category, "decision_matches_probability", flag(d.MatchesProbability))
	if d.Note != "" {
		b.add(category, "note", d.Note)
	}
}

// Comparison flattens a WOA vs EWOA result. Each model is reported under its
// own category with the derived decision and ground-truth outcome.
func Comparison(c *prediction.Comparison, cd decision.ComparisonDecision, precision int, warnings []string) []Row {
	b := &builder{precision: precision}

	b.add("Comparison", "image", text(c.Image))
	if cd.HasTruth {
		b.add("Comparison", "ground_truth", string(cd.Truth))
	} else {
		b.add("Comparison", "ground_truth", prediction.NoGroundTruth)
	}
	b.add("Comparison", "models_agree", strconv.FormatBool(cd.Agree))
	b.add("Comparison", "time_improvement", TimeImprovement(c.WOA.ExecutionTime, c.EWOA.ExecutionTime))

	for _, m := range []struct {
		entry *prediction.ModelEntry
		dec   decision.ModelDecision
	}{{&c.WOA, cd.WOA}, {&c.EWOA, cd.EWOA}} {
		cat := m.dec.Model
		b.add(cat, "prediction", text(string(m.dec.Label)))
		b.add(cat, "reported_prediction", text(string(m.entry.FinalPrediction)))
		b.metric(cat, "confidence", m.dec.Derived.Confidence)
		b.value(cat, "distance_to_benign", m.entry.DistanceToBenign)
		b.value(cat, "distance_to_malignant", m.entry.DistanceToMalignant)
		b.value(cat, "tau", m.entry.Tau)
		b.value(cat, "reported_distance_ratio", m.entry.ReportedRatio)
		b.decision(cat, m.dec.Derived)
		b.value(cat, "execution_time_s", m.entry.ExecutionTime)
		b.add(cat, "outcome", string(m.dec.Outcome))
		b.add(cat, "accuracy", m.dec.Outcome.Accuracy())
		b.add(cat, "reported_outcome", text(m.dec.ReportedOutcome))
		if len(m.entry.TopFeatures) > 0 {
			names := make([]string, len(m.entry.TopFeatures))
			for i, f := range m.entry.TopFeatures {
				names[i] = FeatureName(f)
			}
			b.add(cat, "top_features", strings.Join(names, "; "))
		}
	}

	for _, w := range warnings {
		b.add("Warning", "message", w)
	}
	return b.rows
}

// TimeImprovement describes how much faster EWOA ran than WOA, relative to
// the WOA runtime.
func TimeImprovement(woa, ewoa *float64) string {
	if woa == nil || ewoa == nil || !(*woa > 0) || math.IsNaN(*ewoa) || math.IsInf(*ewoa, 0) || math.IsInf(*woa, 0) {
		return format.Unavailable
	}
	diff := *woa - *ewoa
	pct := diff / *woa * 100
	if diff >= 0 {
		return fmt.Sprintf("EWOA %s%% faster", strconv.FormatFloat(pct, 'f', 1, 64))
	}
	return fmt.Sprintf("EWOA %s%% slower", strconv.FormatFloat(-pct, 'f', 1, 64))
}

// Benchmark flattens aggregated benchmark statistics, one category per
// function and variant.
func Benchmark(stats []benchstats.FunctionStats, precision int) []Row {
	b := &builder{precision: precision}
	for _, fs := range stats {
		for _, vs := range []*benchstats.VariantStats{fs.WOA, fs.EWOA} {
			if vs == nil {
				continue
			}
			cat := fmt.Sprintf("%s (%s)", fs.Name, strings.ToUpper(vs.Algorithm))
			for _, m := range VariantMetrics(vs) {
				b.add(cat, m.Name, m.Format(precision))
			}
			b.value(cat, "Runs", vs.Fitness.N)
			b.value(cat, "Reported Mean Best Fitness", vs.ReportedMean)
			b.value(cat, "Reported Std Dev (Fitness)", vs.ReportedStd)
			for _, blk := range vs.Blocks {
				label := fmt.Sprintf("Runs %d-%d", blk.Start, blk.End)
				b.add(cat, label+" Mean", format.Metric(blk.Mean, blk.Defined, precision))
				b.add(cat, label+" Std", format.Metric(blk.Std, blk.Defined, precision))
			}
		}

		b.value(fs.Name, "Elapsed (s)", fs.ElapsedSeconds)
		if fs.Test != nil {
			b.add(fs.Name, "Wilcoxon p-value", format.Float(fs.Test.PValue, PValuePrecision))
			b.value(fs.Name, "Wilcoxon statistic", fs.Test.Statistic)
			b.value(fs.Name, "Wilcoxon pairs", fs.Test.N)
			b.add(fs.Name, "Significance", fs.Significance)
		} else {
			b.add(fs.Name, "Wilcoxon p-value", format.Unavailable)
			b.add(fs.Name, "Significance", format.Unavailable)
		}
		if fs.ReportedPValue != nil {
			b.add(fs.Name, "Reported p-value", format.Float(*fs.ReportedPValue, PValuePrecision))
		}
		for _, w := range fs.Warnings {
			b.add("Warning", fs.Name, w)
		}
	}
	return b.rows
}

// NamedMetric is a displayed benchmark metric.
type NamedMetric struct {
	Key     string
	Name    string
	Value   float64
	Defined bool
}

// Format renders the metric value
func (m NamedMetric) Format(precision int) string {
	return format.Metric(m.Value, m.Defined, precision)
}

// VariantMetrics returns the displayed metrics of one variant in their fixed
// order. Fitness and convergence come from the recomputed summaries.
func VariantMetrics(vs *benchstats.VariantStats) []NamedMetric {
	named := func(key string, v float64, ok bool) NamedMetric {
		return NamedMetric{Key: key, Name: MetricName(key), Value: v, Defined: ok}
	}
	ptr := func(key string, v *float64) NamedMetric {
		if v == nil {
			return named(key, 0, false)
		}
		return named(key, *v, true)
	}
	return []NamedMetric{
		named("best_mean", vs.Fitness.Mean, vs.Fitness.Defined),
		named("best_std", vs.Fitness.Std, vs.Fitness.Defined),
		ptr("average_eer", vs.AverageEER),
		ptr("runtime_s", vs.RuntimeSeconds),
		named("convergence_rate_mean", vs.Convergence.Mean, vs.Convergence.Defined),
		named("convergence_rate_std", vs.Convergence.Std, vs.Convergence.Defined),
	}
}

// FeatureShares returns each contributor's share of the total absolute weight
// in percent. Shares are undefined when the total is zero or not finite.
func FeatureShares(features []prediction.FeatureContribution) []decision.Metric {
	weights := make([]float64, len(features))
	total := 0.0
	valid := true
	for i, fc := range features {
		w, err := fc.Weight.Float64()
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			valid = false
			continue
		}
		weights[i] = math.Abs(w)
		total += weights[i]
	}

	out := make([]decision.Metric, len(features))
	if !valid || total == 0 {
		return out
	}
	for i, w := range weights {
		out[i] = decision.Metric{Value: w / total * 100, Defined: true}
	}
	return out
}

func sharePercent(m decision.Metric) string {
	if !m.Defined {
		return format.Unavailable
	}
	return format.Percent(m.Value, PercentPrecision)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records converts rows to string records, header first.
func Records(rows []Row) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, Header)
	for _, r := range rows {
		out = append(out, r.Strings())
	}
	return out
}
