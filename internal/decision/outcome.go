package decision

import (
	"gowoa/domain/prediction"
)

// Outcome is a confusion-matrix cell with Malignant as the positive class.
type Outcome string

const (
	TruePositive  Outcome = "TP"
	TrueNegative  Outcome = "TN"
	FalsePositive Outcome = "FP"
	FalseNegative Outcome = "FN"
	NotApplicable Outcome = "N/A"
)

// Accuracy labels for a single prediction against ground truth.
const (
	AccuracyCorrect   = "Correct"
	AccuracyIncorrect = "Incorrect"
)

// Classify crosses a predicted label with ground truth. Without ground truth,
// or with an unknown predicted label, the outcome is not applicable.
func Classify(predicted prediction.Label, truth prediction.Label, hasTruth bool) Outcome {
	if !hasTruth || !truth.Valid() || !predicted.Valid() {
		return NotApplicable
	}
	switch {
	case predicted == prediction.Malignant && truth == prediction.Malignant:
		return TruePositive
	case predicted == prediction.Benign && truth == prediction.Benign:
		return TrueNegative
	case predicted == prediction.Malignant:
		return FalsePositive
	default:
		return FalseNegative
	}
}

// Correct reports whether the outcome is a true classification; nil when not
// applicable.
func (o Outcome) Correct() *bool {
	var v bool
	switch o {
	case TruePositive, TrueNegative:
		v = true
	case FalsePositive, FalseNegative:
		v = false
	default:
		return nil
	}
	return &v
}

// Accuracy renders Correct/Incorrect, or N/A when not applicable
func (o Outcome) Accuracy() string {
	c := o.Correct()
	switch {
	case c == nil:
		return string(NotApplicable)
	case *c:
		return AccuracyCorrect
	default:
		return AccuracyIncorrect
	}
}

// ModelDecision is the derived view of one model in a comparison.
type ModelDecision struct {
	Model   string
	Derived Derived
	// Label is the rule label, falling back to the tool's own label when the
	// rule could not be evaluated.
	Label   prediction.Label
	Outcome Outcome
	// ReportedOutcome is what the comparison tool wrote, kept for audit.
	ReportedOutcome string
}

// ComparisonDecision holds both models evaluated independently.
type ComparisonDecision struct {
	Truth    prediction.Label
	HasTruth bool
	WOA      ModelDecision
	EWOA     ModelDecision
	// Agree reports whether both models reached the same label.
	Agree bool
}

// EvaluateComparison runs the rule for each model separately and derives
// outcomes against the shared ground truth.
func EvaluateComparison(c *prediction.Comparison) ComparisonDecision {
	truth, hasTruth := c.Truth()
	out := ComparisonDecision{Truth: truth, HasTruth: hasTruth}
	out.WOA = evaluateModel("WOA", &c.WOA, truth, hasTruth)
	out.EWOA = evaluateModel("EWOA", &c.EWOA, truth, hasTruth)
	out.Agree = out.WOA.Label == out.EWOA.Label
	return out
}

func evaluateModel(name string, e *prediction.ModelEntry, truth prediction.Label, hasTruth bool) ModelDecision {
	d := Evaluate(FromEntry(e))
	if !d.Confidence.Defined && e.ReportedConfidence != nil {
		d.Confidence = defined(*e.ReportedConfidence)
	}
	label := d.Label(e.FinalPrediction)
	return ModelDecision{
		Model:           name,
		Derived:         d,
		Label:           label,
		Outcome:         Classify(label, truth, hasTruth),
		ReportedOutcome: e.Outcome,
	}
}
