package prediction

import (
	"encoding/json"
	"fmt"
	"strings"

	"gowoa/domain/core"
)

// Mandatory top-level keys of a single-image prediction payload.
var PredictionKeys = []string{
	"final_prediction",
	"probabilities",
	"distance_to_benign",
	"distance_to_malignant",
	"tau",
}

// Mandatory top-level keys of a comparison payload.
var ComparisonKeys = []string{"WOA", "EWOA"}

// CheckPrediction validates the shape of a generically decoded prediction
// payload. It is used by the executor to decide whether an attempt succeeded.
func CheckPrediction(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return core.ErrNotAnObject
	}
	if missing := missingKeys(obj, PredictionKeys); len(missing) > 0 {
		return core.NewMissingKeysError("prediction", missing)
	}
	return nil
}

// CheckComparison validates that both model blocks are present and carry a
// predicted label under either key spelling.
func CheckComparison(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return core.ErrNotAnObject
	}
	var missing []string
	for _, model := range ComparisonKeys {
		entry, ok := obj[model].(map[string]any)
		if !ok {
			missing = append(missing, model)
			continue
		}
		_, hasFinal := entry["final_prediction"]
		_, hasAlias := entry["Prediction"]
		if !hasFinal && !hasAlias {
			missing = append(missing, model+".final_prediction")
		}
	}
	if len(missing) > 0 {
		return core.NewMissingKeysError("comparison", missing)
	}
	return nil
}

// DecodePrediction validates and decodes a prediction payload. The returned
// map is the generic decode (numbers kept as json.Number) for callers that
// need keys outside the typed schema.
func DecodePrediction(data []byte) (*Result, map[string]any, error) {
	raw, err := core.DecodeJSON(data)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckPrediction(raw); err != nil {
		return nil, nil, err
	}
	obj := raw.(map[string]any)

	var wire wireResult
	if err := json.Unmarshal(core.QuoteNonFinite(data), &wire); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
	}
	result := wire.result()
	if !result.FinalPrediction.Valid() {
		label, err := ParseLabel(string(result.FinalPrediction))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: final_prediction: %v", core.ErrInvalidPayload, err)
		}
		result.FinalPrediction = label
	}
	if result.AbnormalityType == "" {
		result.AbnormalityType = AbnormalityType(obj)
	}
	return &result, obj, nil
}

// DecodeComparison validates and decodes a WOA vs EWOA payload.
func DecodeComparison(data []byte) (*Comparison, map[string]any, error) {
	raw, err := core.DecodeJSON(data)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckComparison(raw); err != nil {
		return nil, nil, err
	}
	obj := raw.(map[string]any)

	var wire wireComparison
	if err := json.Unmarshal(core.QuoteNonFinite(data), &wire); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
	}
	cmp := wire.comparison()
	entries := []*ModelEntry{&cmp.WOA, &cmp.EWOA}
	for i, name := range ComparisonKeys {
		entry := entries[i]
		entry.normalize()
		if !entry.FinalPrediction.Valid() {
			label, err := ParseLabel(string(entry.FinalPrediction))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s prediction: %v", core.ErrInvalidPayload, name, err)
			}
			entry.FinalPrediction = label
		}
		if entry.AbnormalityType == "" {
			if sub, ok := obj[name].(map[string]any); ok {
				entry.AbnormalityType = AbnormalityType(sub)
			}
		}
	}
	return &cmp, obj, nil
}

// AbnormalityType finds the lesion type under any of the spellings the
// analysis tool has used over time.
func AbnormalityType(obj map[string]any) string {
	if s, ok := obj["abnormality_type"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	switch ab := obj["abnormality"].(type) {
	case map[string]any:
		for _, key := range []string{"type", "label"} {
			if s, ok := ab[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case string:
		if strings.TrimSpace(ab) != "" {
			return strings.TrimSpace(ab)
		}
	}
	if s, ok := obj["lesion_type"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// wireResult mirrors Result with number types that accept the non-finite
// tags, so a NaN distance or score reaches the decision engine instead of
// failing the whole decode.
type wireResult struct {
	FinalPrediction        Label                  `json:"final_prediction"`
	Probabilities          map[string]core.Float  `json:"probabilities"`
	DistanceToBenign       *core.Float            `json:"distance_to_benign"`
	DistanceToMalignant    *core.Float            `json:"distance_to_malignant"`
	Tau                    *core.Float            `json:"tau"`
	RatioDecision          string                 `json:"ratio_decision"`
	AbnormalityScores      map[string]core.Number `json:"abnormality_scores"`
	TopFeatureContributors []FeatureContribution  `json:"top_feature_contributors"`
	ZScores                map[string]core.Number `json:"zscores"`
	BackgroundTissue       *BackgroundTissue      `json:"background_tissue"`
	AbnormalityType        string                 `json:"abnormality_type"`
	Explanation            *Explanation           `json:"explanation"`
}

func (w *wireResult) result() Result {
	return Result{
		FinalPrediction:        w.FinalPrediction,
		Probabilities:          floats(w.Probabilities),
		DistanceToBenign:       w.DistanceToBenign.Ptr(),
		DistanceToMalignant:    w.DistanceToMalignant.Ptr(),
		Tau:                    w.Tau.Ptr(),
		RatioDecision:          w.RatioDecision,
		AbnormalityScores:      numbers(w.AbnormalityScores),
		TopFeatureContributors: w.TopFeatureContributors,
		ZScores:                numbers(w.ZScores),
		BackgroundTissue:       w.BackgroundTissue,
		AbnormalityType:        w.AbnormalityType,
		Explanation:            w.Explanation,
	}
}

type wireModelEntry struct {
	wireResult

	ExecutionTime      *core.Float `json:"Execution Time"`
	Correct            *bool       `json:"Correct"`
	Outcome            string      `json:"Outcome"`
	ReportedRatio      *core.Float `json:"Distance Ratio"`
	ReportedConfidence *core.Float `json:"Confidence"`
	TopFeatures        []string    `json:"Top Features"`

	AliasPrediction Label       `json:"Prediction"`
	AliasTau        *core.Float `json:"Tau Used"`
}

func (w *wireModelEntry) entry() ModelEntry {
	return ModelEntry{
		Result:             w.result(),
		ExecutionTime:      w.ExecutionTime.Ptr(),
		Correct:            w.Correct,
		Outcome:            w.Outcome,
		ReportedRatio:      w.ReportedRatio.Ptr(),
		ReportedConfidence: w.ReportedConfidence.Ptr(),
		TopFeatures:        w.TopFeatures,
		AliasPrediction:    w.AliasPrediction,
		AliasTau:           w.AliasTau.Ptr(),
	}
}

type wireComparison struct {
	Image                 string         `json:"Image"`
	GroundTruth           string         `json:"Ground Truth"`
	CorrectClassification string         `json:"Correct Classification"`
	WOA                   wireModelEntry `json:"WOA"`
	EWOA                  wireModelEntry `json:"EWOA"`
}

func (w *wireComparison) comparison() Comparison {
	return Comparison{
		Image:                 w.Image,
		GroundTruth:           w.GroundTruth,
		CorrectClassification: w.CorrectClassification,
		WOA:                   w.WOA.entry(),
		EWOA:                  w.EWOA.entry(),
	}
}

func floats(in map[string]core.Float) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = float64(v)
	}
	return out
}

func numbers(in map[string]core.Number) map[string]json.Number {
	if in == nil {
		return nil
	}
	out := make(map[string]json.Number, len(in))
	for k, v := range in {
		out[k] = v.JSONNumber()
	}
	return out
}

func missingKeys(obj map[string]any, keys []string) []string {
	var missing []string
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
