package prediction

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gowoa/domain/core"
)

// Label is a classification class
type Label string

const (
	Benign    Label = "Benign"
	Malignant Label = "Malignant"
)

// Valid reports whether l is one of the two known classes
func (l Label) Valid() bool {
	return l == Benign || l == Malignant
}

func (l Label) String() string { return string(l) }

// ParseLabel accepts Benign/Malignant, B/M, or 0/1 in any case
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "m", "malignant":
		return Malignant, nil
	case "0", "b", "benign":
		return Benign, nil
	}
	return "", core.NewLabelError(s)
}

// NoGroundTruth is the sentinel the comparison tool emits when no label is known
const NoGroundTruth = "N/A (no ground truth)"

// BackgroundTissue describes the breast density category of the image
type BackgroundTissue struct {
	Code    string `json:"code"`
	Text    string `json:"text"`
	Explain string `json:"explain"`
}

// Explanation carries the model's textual reasoning
type Explanation struct {
	Class              []string `json:"class,omitempty"`
	AbnormalitySummary string   `json:"abnormality_summary,omitempty"`
}

// FeatureContribution is one (name, weight) pair, encoded as a 2-element array
type FeatureContribution struct {
	Name   string
	Weight json.Number
}

func (f *FeatureContribution) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("feature contributor must be a [name, weight] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("feature contributor must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Name); err != nil {
		return fmt.Errorf("feature contributor name: %w", err)
	}
	var weight core.Number
	if err := json.Unmarshal(pair[1], &weight); err != nil {
		return fmt.Errorf("feature contributor %q weight: %w", f.Name, err)
	}
	f.Weight = weight.JSONNumber()
	return nil
}

func (f FeatureContribution) MarshalJSON() ([]byte, error) {
	if w, err := f.Weight.Float64(); err == nil && (math.IsNaN(w) || math.IsInf(w, 0)) {
		return json.Marshal([]any{f.Name, f.Weight.String()})
	}
	return json.Marshal([]any{f.Name, f.Weight})
}

// Result is the decoded single-image prediction payload. Raw fields are never
// modified after decoding; derived metrics live in the decision package.
type Result struct {
	FinalPrediction        Label                  `json:"final_prediction"`
	Probabilities          map[string]float64     `json:"probabilities"`
	DistanceToBenign       *float64               `json:"distance_to_benign"`
	DistanceToMalignant    *float64               `json:"distance_to_malignant"`
	Tau                    *float64               `json:"tau"`
	RatioDecision          string                 `json:"ratio_decision,omitempty"`
	AbnormalityScores      map[string]json.Number `json:"abnormality_scores,omitempty"`
	TopFeatureContributors []FeatureContribution  `json:"top_feature_contributors,omitempty"`
	ZScores                map[string]json.Number `json:"zscores,omitempty"`
	BackgroundTissue       *BackgroundTissue      `json:"background_tissue,omitempty"`
	AbnormalityType        string                 `json:"abnormality_type,omitempty"`
	Explanation            *Explanation           `json:"explanation,omitempty"`
}

// ProbabilityBenign returns the Benign probability, 0 when absent
func (r *Result) ProbabilityBenign() float64 {
	return r.Probabilities[string(Benign)]
}

// ProbabilityMalignant returns the Malignant probability, 0 when absent
func (r *Result) ProbabilityMalignant() float64 {
	return r.Probabilities[string(Malignant)]
}

// ModelEntry is one model's block in a comparison payload. It accepts both the
// prediction schema keys and the comparison tool's own keys.
type ModelEntry struct {
	Result

	ExecutionTime      *float64 `json:"Execution Time,omitempty"`
	Correct            *bool    `json:"Correct,omitempty"`
	Outcome            string   `json:"Outcome,omitempty"`
	ReportedRatio      *float64 `json:"Distance Ratio,omitempty"`
	ReportedConfidence *float64 `json:"Confidence,omitempty"`
	TopFeatures        []string `json:"Top Features,omitempty"`

	AliasPrediction Label    `json:"Prediction,omitempty"`
	AliasTau        *float64 `json:"Tau Used,omitempty"`
}

// normalize folds alias keys into the prediction schema fields
func (m *ModelEntry) normalize() {
	if m.FinalPrediction == "" && m.AliasPrediction != "" {
		m.FinalPrediction = m.AliasPrediction
	}
	if m.Tau == nil && m.AliasTau != nil {
		tau := *m.AliasTau
		m.Tau = &tau
	}
}

// Comparison is the decoded WOA vs EWOA payload
type Comparison struct {
	Image                 string     `json:"Image,omitempty"`
	GroundTruth           string     `json:"Ground Truth,omitempty"`
	CorrectClassification string     `json:"Correct Classification,omitempty"`
	WOA                   ModelEntry `json:"WOA"`
	EWOA                  ModelEntry `json:"EWOA"`
}

// Truth returns the ground-truth label when one is known
func (c *Comparison) Truth() (Label, bool) {
	for _, candidate := range []string{c.GroundTruth, c.CorrectClassification} {
		if candidate == "" || candidate == NoGroundTruth {
			continue
		}
		if label, err := ParseLabel(candidate); err == nil {
			return label, true
		}
	}
	return "", false
}
