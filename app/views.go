package app

import (
	"gowoa/domain/prediction"
	"gowoa/internal/decision"
	"gowoa/internal/format"
	"gowoa/internal/report"
)

// DecisionView is the rendered form of decision.Derived. Undefined values
// carry the unavailable marker.
type DecisionView struct {
	Label              prediction.Label `json:"label"`
	ReportedLabel      prediction.Label `json:"reported_label,omitempty"`
	Verdict            string           `json:"verdict"`
	DistanceRatio      string           `json:"distance_ratio"`
	MalignantMargin    string           `json:"malignant_margin_x"`
	MalignantMarginPct string           `json:"malignant_margin_pct"`
	BenignMargin       string           `json:"benign_margin_x"`
	BenignMarginPct    string           `json:"benign_margin_pct"`
	Confidence         string           `json:"confidence"`
	ProbabilityLabel   prediction.Label `json:"probability_label,omitempty"`
	MatchesProbability *bool            `json:"decision_matches_probability"`
	Note               string           `json:"note,omitempty"`
}

func viewOf(d decision.Derived, reported prediction.Label, precision int) DecisionView {
	verdict := d.Verdict
	if verdict == "" {
		verdict = format.Unavailable
	}
	return DecisionView{
		Label:              d.Label(reported),
		ReportedLabel:      reported,
		Verdict:            verdict,
		DistanceRatio:      d.Ratio.Format(precision),
		MalignantMargin:    d.MalignantMargin.Format(precision),
		MalignantMarginPct: d.MalignantMargin.Percent(report.PercentPrecision),
		BenignMargin:       d.BenignMargin.Format(precision),
		BenignMarginPct:    d.BenignMargin.Percent(report.PercentPrecision),
		Confidence:         d.Confidence.Format(precision),
		ProbabilityLabel:   d.ProbabilityLabel,
		MatchesProbability: d.MatchesProbability,
		Note:               d.Note,
	}
}

// ModelView is one model's rendered decision in a comparison.
type ModelView struct {
	DecisionView
	Outcome         decision.Outcome `json:"outcome"`
	Accuracy        string           `json:"accuracy"`
	ReportedOutcome string           `json:"reported_outcome,omitempty"`
	ExecutionTime   string           `json:"execution_time_s"`
}

func modelViewOf(md decision.ModelDecision, e *prediction.ModelEntry, precision int) ModelView {
	v := ModelView{
		DecisionView:    viewOf(md.Derived, e.FinalPrediction, precision),
		Outcome:         md.Outcome,
		Accuracy:        md.Outcome.Accuracy(),
		ReportedOutcome: md.ReportedOutcome,
		ExecutionTime:   format.Value(e.ExecutionTime, 3),
	}
	v.Label = md.Label
	return v
}
