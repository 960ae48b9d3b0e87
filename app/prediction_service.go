package app

import (
	"context"
	"io"

	"gowoa/domain/core"
	"gowoa/domain/prediction"
	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/internal/decision"
	"gowoa/internal/errors"
	"gowoa/internal/report"
	"gowoa/ports"
)

// PredictionRequest analyzes one image already on disk.
type PredictionRequest struct {
	RequestID core.RequestID
	ImagePath string
	// ModelPath overrides model resolution when set.
	ModelPath string
}

// PredictionReport is the assembled single-image response.
type PredictionReport struct {
	RequestID core.RequestID `json:"request_id"`
	Image     string         `json:"image"`
	Model     string         `json:"model"`
	Attempt   Attempt        `json:"attempt"`
	Decision  DecisionView   `json:"decision"`
	Rows      []report.Row   `json:"rows"`
	Warnings  []string       `json:"warnings,omitempty"`
	// Raw is the tool's own document, re-submittable for export.
	Raw map[string]any `json:"raw"`

	Result  *prediction.Result `json:"-"`
	Derived decision.Derived   `json:"-"`
}

// PredictionService runs the single-image analysis and derives the decision
type PredictionService struct {
	executor Executor
	uploads  ports.UploadStore
	cfg      *config.Config
	logger   *internal.Logger
}

func NewPredictionService(executor Executor, uploads ports.UploadStore, cfg *config.Config, logger *internal.Logger) *PredictionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PredictionService{executor: executor, uploads: uploads, cfg: cfg, logger: logger}
}

// ResolveModel returns the first existing candidate model file. When none
// exists the last candidate is returned with found=false, leaving the error
// to the analysis tool.
func ResolveModel(candidates []string) (path string, found bool) {
	if p, ok := firstExisting(candidates); ok {
		return p, true
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[len(candidates)-1], false
}

// Predict runs the prediction entry points for an image on disk
func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest) (*PredictionReport, error) {
	if req.ImagePath == "" {
		return nil, errors.InvalidInput("image path is required")
	}
	if req.RequestID == "" {
		req.RequestID = core.NewRequestID()
	}

	var warnings []string
	model := req.ModelPath
	if model == "" {
		var found bool
		model, found = ResolveModel(s.cfg.Models.PredictCandidates)
		if !found {
			s.logger.Warn("[Predict] %s: no model file found, trying %s", req.RequestID, model)
			warnings = append(warnings, "no model file found among configured candidates; using "+model)
		}
	}

	inv, err := newInvocation(s.cfg.Runner, "predict", s.cfg.Runner.EntryPoints.Predict,
		[]string{"--model", model, "--image", req.ImagePath}, prediction.CheckPrediction)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[Predict] %s: analyzing %s", req.RequestID, req.ImagePath)
	success, err := s.executor.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}

	rep, err := s.Assemble(success.Payload)
	if err != nil {
		return nil, err
	}
	rep.RequestID = req.RequestID
	rep.Image = req.ImagePath
	rep.Model = model
	rep.Attempt = attemptOf(success)
	rep.Warnings = append(warnings, rep.Warnings...)
	return rep, nil
}

// PredictUpload stores an uploaded image, analyzes it and removes it again.
func (s *PredictionService) PredictUpload(ctx context.Context, name string, body io.Reader) (*PredictionReport, error) {
	id := core.NewRequestID()
	stored, err := s.uploads.Save(ctx, ports.Upload{RequestID: id, OriginalName: name, Body: body})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.uploads.Remove(context.WithoutCancel(ctx), stored); err != nil {
			s.logger.Warn("[Predict] %s: %v", id, err)
		}
	}()

	rep, err := s.Predict(ctx, PredictionRequest{RequestID: id, ImagePath: stored.Path})
	if err != nil {
		return nil, err
	}
	rep.Image = name
	return rep, nil
}

// Assemble decodes a prediction document and derives its report without
// running anything.
func (s *PredictionService) Assemble(payload []byte) (*PredictionReport, error) {
	result, raw, err := prediction.DecodePrediction(payload)
	if err != nil {
		return nil, payloadError("prediction", err)
	}

	precision := s.cfg.Display.Precision
	derived := decision.Evaluate(decision.FromResult(result))
	rep := &PredictionReport{
		Decision: viewOf(derived, result.FinalPrediction, precision),
		Rows:     report.Prediction(result, derived, precision),
		Raw:      raw,
		Result:   result,
		Derived:  derived,
	}
	if derived.Note != "" {
		s.logger.Info("[Predict] %s (rule %s, argmax %s)", derived.Note, derived.RuleLabel, derived.ProbabilityLabel)
	}
	if derived.ReportedMatchesRule != nil && !*derived.ReportedMatchesRule {
		rep.Warnings = append(rep.Warnings, "tool label "+string(result.FinalPrediction)+" differs from ratio rule "+string(derived.RuleLabel))
	}
	return rep, nil
}
