// Package decision derives the ratio-rule classification and its margins from
// raw model distances. The ratio rule is authoritative; probability argmax is
// advisory and only reported alongside it.
package decision

import (
	"fmt"
	"math"

	"gowoa/domain/prediction"
	"gowoa/internal/format"
)

// DisagreementNote is surfaced when probability argmax and the ratio rule differ.
const DisagreementNote = "Probabilities disagree; ratio rule used."

// Metric is a derived value that may be undefined. Undefined metrics are
// rendered with the unavailable marker, never as zero.
type Metric struct {
	Value   float64
	Defined bool
}

func defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{Value: v, Defined: true}
}

// Format renders the metric at the given precision
func (m Metric) Format(precision int) string {
	return format.Metric(m.Value, m.Defined, precision)
}

// Percent renders (m-1)*100 with a percent sign, the distance past the
// boundary expressed as a percentage.
func (m Metric) Percent(precision int) string {
	if !m.Defined {
		return format.Unavailable
	}
	return format.Percent((m.Value-1)*100, precision)
}

// Input is the minimal set of values the rule needs. Nil pointers mean the
// model did not report the value.
type Input struct {
	DistanceToBenign    *float64
	DistanceToMalignant *float64
	Tau                 *float64
	// Ratio is used when distances are absent, as in comparison payloads.
	Ratio         *float64
	Probabilities map[string]float64
	Reported      prediction.Label
}

// Derived holds every metric computed from an Input.
type Derived struct {
	Ratio           Metric
	MalignantMargin Metric
	BenignMargin    Metric

	// RuleLabel is empty when the rule could not be evaluated.
	RuleLabel prediction.Label
	Verdict   string

	// ProbabilityLabel is the argmax class; empty without probabilities.
	ProbabilityLabel prediction.Label
	Confidence       Metric

	// MatchesProbability is nil when either side is unavailable.
	MatchesProbability *bool
	// ReportedMatchesRule is nil when the rule could not be evaluated.
	ReportedMatchesRule *bool
	Note                string
}

// Evaluate applies the ratio rule: Malignant when dM <= tau*dB. It is a pure
// function of its input.
func Evaluate(in Input) Derived {
	var d Derived

	d.ProbabilityLabel, d.Confidence = probabilityArgmax(in.Probabilities)

	tau, okTau := positive(in.Tau)
	dB, okB := positive(in.DistanceToBenign)
	dM, okM := finiteNonNegative(in.DistanceToMalignant)

	switch {
	case okTau && okB && okM:
		ratio := dM / dB
		malignant := dM <= tau*dB
		d.RuleLabel = labelFor(malignant)
		d.Verdict = fmt.Sprintf("Check (Malignant if dM ≤ τ·dB): dM=%.4f %s τ·dB=%.4f → %s",
			dM, relation(malignant), tau*dB, d.RuleLabel)
		d.setRatio(ratio, tau)
	case okTau && in.Ratio != nil:
		ratio, ok := finiteNonNegative(in.Ratio)
		if !ok {
			break
		}
		malignant := ratio <= tau
		d.RuleLabel = labelFor(malignant)
		d.Verdict = fmt.Sprintf("Check (Malignant if dM/dB ≤ τ): ratio=%.4f %s τ=%.4f → %s",
			ratio, relation(malignant), tau, d.RuleLabel)
		d.setRatio(ratio, tau)
	}

	if d.RuleLabel != "" && d.ProbabilityLabel != "" {
		match := d.RuleLabel == d.ProbabilityLabel
		d.MatchesProbability = &match
		if !match {
			d.Note = DisagreementNote
		}
	}
	if d.RuleLabel != "" && in.Reported.Valid() {
		match := d.RuleLabel == in.Reported
		d.ReportedMatchesRule = &match
	}
	return d
}

// Label returns the rule label when available, else the reported label.
func (d Derived) Label(reported prediction.Label) prediction.Label {
	if d.RuleLabel != "" {
		return d.RuleLabel
	}
	return reported
}

func (d *Derived) setRatio(ratio, tau float64) {
	d.Ratio = defined(ratio)
	d.BenignMargin = defined(ratio / tau)
	if ratio > 0 {
		d.MalignantMargin = defined(tau / ratio)
	}
}

// FromResult builds the rule input from a decoded prediction payload.
func FromResult(r *prediction.Result) Input {
	return Input{
		DistanceToBenign:    r.DistanceToBenign,
		DistanceToMalignant: r.DistanceToMalignant,
		Tau:                 r.Tau,
		Probabilities:       r.Probabilities,
		Reported:            r.FinalPrediction,
	}
}

// FromEntry builds the rule input from one model block of a comparison.
func FromEntry(e *prediction.ModelEntry) Input {
	in := FromResult(&e.Result)
	in.Ratio = e.ReportedRatio
	return in
}

// probabilityArgmax ignores non-finite probabilities; a class reported as NaN
// counts as absent.
func probabilityArgmax(probs map[string]float64) (prediction.Label, Metric) {
	pB, okB := finiteProbability(probs, prediction.Benign)
	pM, okM := finiteProbability(probs, prediction.Malignant)
	switch {
	case !okB && !okM:
		return "", Metric{}
	case !okM || (okB && pB >= pM):
		return prediction.Benign, defined(pB)
	default:
		return prediction.Malignant, defined(pM)
	}
}

func finiteProbability(probs map[string]float64, class prediction.Label) (float64, bool) {
	p, ok := probs[string(class)]
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

func positive(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, false
	}
	return *v, true
}

func finiteNonNegative(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, false
	}
	return *v, true
}

func labelFor(malignant bool) prediction.Label {
	if malignant {
		return prediction.Malignant
	}
	return prediction.Benign
}

func relation(malignant bool) string {
	if malignant {
		return "≤"
	}
	return ">"
}
