// Package testkit provides configuration, fixtures and fakes shared by the
// service and transport tests.
package testkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/internal/format"
	"gowoa/ports"
)

// PredictionJSON is a well-formed prediction document whose ratio rule
// (dM=1.0 <= 0.6*2.0) agrees with the probability argmax.
const PredictionJSON = `{
  "final_prediction": "Malignant",
  "probabilities": {"Benign": 0.3, "Malignant": 0.7},
  "distance_to_benign": 2.0,
  "distance_to_malignant": 1.0,
  "tau": 0.6,
  "abnormality_scores": {"spiculation_index": 0.42, "texture_disorder": 0.8},
  "top_feature_contributors": [["glcm_contrast", 0.5], ["hist_skew", 0.25]],
  "zscores": {"hist_mean": 1.2, "edge_ratio": -0.4},
  "background_tissue": {"code": "G", "text": "Fatty-glandular", "explain": "Mixed fat and glandular tissue"},
  "abnormality": {"type": "CALC"},
  "explanation": {"class": ["irregular margin"], "abnormality_summary": "Calcification cluster"}
}`

// DisagreeingPredictionJSON has the rule and the argmax pointing at
// different classes.
const DisagreeingPredictionJSON = `{
  "final_prediction": "Benign",
  "probabilities": {"Benign": 0.9, "Malignant": 0.1},
  "distance_to_benign": 2.0,
  "distance_to_malignant": 1.0,
  "tau": 0.6
}`

// ComparisonJSON is a comparison document with ground truth, using the
// comparison tool's own key spellings.
const ComparisonJSON = `{
  "Image": "mdb001.pgm",
  "Ground Truth": "M",
  "Correct Classification": "Malignant",
  "WOA": {"Prediction": "Benign", "Confidence": 0.61, "Distance Ratio": 1.4, "Tau Used": 1.0,
          "Execution Time": 4.0, "Correct": false, "Outcome": "FN", "Top Features": ["glcm_entropy"]},
  "EWOA": {"Prediction": "Malignant", "Confidence": 0.83, "Distance Ratio": 0.7, "Tau Used": 1.0,
           "Execution Time": 3.0, "Correct": true, "Outcome": "TP", "Top Features": ["roughness"]}
}`

// NoTruthComparisonJSON carries the no-ground-truth sentinel.
const NoTruthComparisonJSON = `{
  "Image": "unknown.png",
  "Ground Truth": "N/A (no ground truth)",
  "Correct Classification": "N/A (no ground truth)",
  "WOA": {"Prediction": "Benign", "Distance Ratio": 1.2, "Tau Used": 1.0},
  "EWOA": {"Prediction": "Benign", "Distance Ratio": 1.1, "Tau Used": 1.0}
}`

// TestKit builds an immutable configuration rooted at a temporary workdir
type TestKit struct {
	t       testing.TB
	workdir string
	cfg     *config.Config
}

// NewTestKit creates a kit with defaults equivalent to an empty environment
func NewTestKit(t testing.TB) *TestKit {
	t.Helper()
	workdir := t.TempDir()
	cfg := &config.Config{
		Runner: config.RunnerConfig{
			Python:      "python3",
			Workdir:     workdir,
			ModuleFlag:  "-m",
			PathEnv:     "PYTHONPATH",
			WaitDelay:   time.Second,
			EntryPoints: config.DefaultEntryPoints(),
		},
		Models: config.ModelConfig{
			WOA:  filepath.Join(workdir, "models", "model_woa.json"),
			EWOA: filepath.Join(workdir, "models", "model_final_ewoa.json"),
			PredictCandidates: []string{
				filepath.Join(workdir, "models", "model_final_ewoa.json"),
				filepath.Join(workdir, "models", "model.json"),
				filepath.Join(workdir, "models", "model_ewoa.json"),
			},
		},
		Upload:  config.UploadConfig{Dir: filepath.Join(workdir, "uploads"), MaxBytes: 1 << 20},
		Server:  config.ServerConfig{Port: "0", GinMode: "test"},
		Admin:   config.AdminConfig{Port: "0"},
		Display: config.DisplayConfig{Precision: format.DefaultPrecision},
		Benchmark: config.BenchmarkConfig{
			Functions:  []string{"rosenbrock", "griewank"},
			Algorithm:  "both",
			Runs:       30,
			Iterations: 500,
			Population: 30,
			Dimension:  30,
			BlockSize:  10,
		},
	}
	return &TestKit{t: t, workdir: workdir, cfg: cfg}
}

// Workdir returns the kit's working directory
func (k *TestKit) Workdir() string { return k.workdir }

// Config returns the kit configuration. Tests may adjust it before handing
// it to constructors.
func (k *TestKit) Config() *config.Config { return k.cfg }

// Touch creates a file relative to the workdir and returns its path.
func (k *TestKit) Touch(rel string, content string) string {
	k.t.Helper()
	path := filepath.Join(k.workdir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		k.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		k.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Logger returns a logger that only reports errors
func Logger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

// FixedSeedSource always returns the same seed
type FixedSeedSource struct {
	Seed int64
}

var _ ports.SeedSource = FixedSeedSource{}

// NextSeed returns the fixed seed
func (s FixedSeedSource) NextSeed(context.Context) int64 { return s.Seed }
