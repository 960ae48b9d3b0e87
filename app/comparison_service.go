package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"gowoa/domain/core"
	"gowoa/domain/prediction"
	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/internal/decision"
	"gowoa/internal/errors"
	"gowoa/internal/report"
	"gowoa/ports"
)

// ComparisonRequest compares both models on one image already on disk.
type ComparisonRequest struct {
	RequestID core.RequestID
	ImagePath string
}

// ComparisonReport is the assembled WOA vs EWOA response.
type ComparisonReport struct {
	RequestID       core.RequestID `json:"request_id"`
	Image           string         `json:"image"`
	GroundTruth     string         `json:"ground_truth"`
	GroundTruthCSV  string         `json:"ground_truth_csv,omitempty"`
	Attempt         Attempt        `json:"attempt"`
	WOA             ModelView      `json:"woa"`
	EWOA            ModelView      `json:"ewoa"`
	ModelsAgree     bool           `json:"models_agree"`
	TimeImprovement string         `json:"time_improvement"`
	Rows            []report.Row   `json:"rows"`
	Warnings        []string       `json:"warnings,omitempty"`
	Raw             map[string]any `json:"raw"`

	Comparison *prediction.Comparison      `json:"-"`
	Decision   decision.ComparisonDecision `json:"-"`
}

// ComparisonService runs both models on one image and scores each against
// the ground truth when one is known
type ComparisonService struct {
	executor Executor
	uploads  ports.UploadStore
	cfg      *config.Config
	logger   *internal.Logger
}

func NewComparisonService(executor Executor, uploads ports.UploadStore, cfg *config.Config, logger *internal.Logger) *ComparisonService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ComparisonService{executor: executor, uploads: uploads, cfg: cfg, logger: logger}
}

// GroundTruthCandidates lists the CSV locations examined, in order.
func GroundTruthCandidates(cfg *config.Config) []string {
	candidates := []string{
		cfg.Models.GroundTruthCSV,
		filepath.Join(cfg.Runner.Workdir, "data", "ground_truth.csv"),
		filepath.Join(cfg.Runner.Workdir, "php", "data", "ground_truth.csv"),
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Compare runs the comparison entry points
func (s *ComparisonService) Compare(ctx context.Context, req ComparisonRequest) (*ComparisonReport, error) {
	if req.ImagePath == "" {
		return nil, errors.InvalidInput("image path is required")
	}
	if req.RequestID == "" {
		req.RequestID = core.NewRequestID()
	}

	var warnings []string
	for _, model := range []string{s.cfg.Models.EWOA, s.cfg.Models.WOA} {
		if _, ok := firstExisting([]string{model}); !ok {
			s.logger.Error("[Compare] %s: model not found: %s", req.RequestID, model)
			warnings = append(warnings, "model not found: "+model)
		}
	}

	args := []string{"--image", req.ImagePath, "--ewoa", s.cfg.Models.EWOA, "--woa", s.cfg.Models.WOA}
	csvCandidates := GroundTruthCandidates(s.cfg)
	csvPath, hasCSV := firstExisting(csvCandidates)
	if hasCSV {
		args = append(args, "--csv", csvPath)
	}
	s.logger.Debug("[Compare] %s: ground truth csv candidates %v, selected %q", req.RequestID, csvCandidates, csvPath)

	inv, err := newInvocation(s.cfg.Runner, "compare", s.cfg.Runner.EntryPoints.Compare, args, prediction.CheckComparison)
	if err != nil {
		return nil, err
	}

	success, err := s.executor.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}

	rep, err := s.Assemble(success.Payload, warnings)
	if err != nil {
		return nil, err
	}
	rep.RequestID = req.RequestID
	if rep.Image == "" {
		rep.Image = filepath.Base(req.ImagePath)
	}
	rep.GroundTruthCSV = csvPath
	rep.Attempt = attemptOf(success)
	if !rep.Decision.HasTruth {
		msg := "no ground truth for this image; csv candidates examined: " + strings.Join(csvCandidates, ", ")
		if !hasCSV {
			msg = "no ground-truth csv found; examined: " + strings.Join(csvCandidates, ", ")
		}
		rep.Warnings = append(rep.Warnings, msg)
		rep.Rows = append(rep.Rows, report.Row{Category: "Warning", Parameter: "message", Value: msg})
	}
	return rep, nil
}

// CompareUpload stores the image under its original name so the tool can
// match it against the ground-truth csv, then compares and cleans up.
func (s *ComparisonService) CompareUpload(ctx context.Context, name string, body io.Reader) (*ComparisonReport, error) {
	id := core.NewRequestID()
	stored, err := s.uploads.Save(ctx, ports.Upload{RequestID: id, OriginalName: name, Body: body, KeepName: true})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.uploads.Remove(context.WithoutCancel(ctx), stored); err != nil {
			s.logger.Warn("[Compare] %s: %v", id, err)
		}
	}()
	return s.Compare(ctx, ComparisonRequest{RequestID: id, ImagePath: stored.Path})
}

// Assemble decodes a comparison document and derives both model decisions.
func (s *ComparisonService) Assemble(payload []byte, warnings []string) (*ComparisonReport, error) {
	cmp, raw, err := prediction.DecodeComparison(payload)
	if err != nil {
		return nil, payloadError("comparison", err)
	}

	precision := s.cfg.Display.Precision
	cd := decision.EvaluateComparison(cmp)
	truth := prediction.NoGroundTruth
	if cd.HasTruth {
		truth = string(cd.Truth)
	}
	return &ComparisonReport{
		Image:           cmp.Image,
		GroundTruth:     truth,
		WOA:             modelViewOf(cd.WOA, &cmp.WOA, precision),
		EWOA:            modelViewOf(cd.EWOA, &cmp.EWOA, precision),
		ModelsAgree:     cd.Agree,
		TimeImprovement: report.TimeImprovement(cmp.WOA.ExecutionTime, cmp.EWOA.ExecutionTime),
		Rows:            report.Comparison(cmp, cd, precision, warnings),
		Warnings:        warnings,
		Raw:             raw,
		Comparison:      cmp,
		Decision:        cd,
	}, nil
}
