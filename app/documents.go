package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"gowoa/domain/core"
	"gowoa/internal/errors"
	"gowoa/internal/report"
)

// Kind names one of the three report shapes
type Kind string

const (
	KindPrediction Kind = "prediction"
	KindComparison Kind = "comparison"
	KindBenchmark  Kind = "benchmark"
)

// ParseKind accepts a report kind in any case
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPrediction, KindComparison, KindBenchmark:
		return k, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown report kind %q (want prediction, comparison or benchmark)", s))
}

// Document is an assembled report ready for export or rendering.
type Document struct {
	Kind     Kind         `json:"kind"`
	Title    string       `json:"title"`
	Rows     []report.Row `json:"rows"`
	Markdown string       `json:"markdown"`
	Warnings []string     `json:"warnings,omitempty"`
}

// DocumentOptions tune benchmark re-assembly. Zero values use the defaults.
type DocumentOptions struct {
	Functions []string
	BlockSize int
}

// Documents rebuilds reports from payloads a client already holds, so export
// needs no server-side session.
type Documents struct {
	prediction *PredictionService
	comparison *ComparisonService
	benchmark  *BenchmarkService
}

func NewDocuments(prediction *PredictionService, comparison *ComparisonService, benchmark *BenchmarkService) *Documents {
	return &Documents{prediction: prediction, comparison: comparison, benchmark: benchmark}
}

// Build assembles payload as a report of the given kind. The payload may be
// the tool's own document or a previously returned report carrying it under
// "raw".
func (d *Documents) Build(kind Kind, payload []byte, opts DocumentOptions) (*Document, error) {
	payload, err := UnwrapRaw(payload)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPrediction:
		rep, err := d.prediction.Assemble(payload)
		if err != nil {
			return nil, err
		}
		return rep.Document(), nil
	case KindComparison:
		rep, err := d.comparison.Assemble(payload, nil)
		if err != nil {
			return nil, err
		}
		return rep.Document(), nil
	case KindBenchmark:
		var functions []string
		for _, fn := range opts.Functions {
			if fn = strings.ToLower(strings.TrimSpace(fn)); fn != "" {
				functions = append(functions, fn)
			}
		}
		rep, err := d.benchmark.Assemble(payload, functions, opts.BlockSize)
		if err != nil {
			return nil, err
		}
		return rep.Document(), nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("unknown report kind %q", kind))
}

func markdownDocument(kind Kind, title string, rows []report.Row, warnings []string) *Document {
	return &Document{Kind: kind, Title: title, Rows: rows, Markdown: report.Markdown(title, rows), Warnings: warnings}
}

// UnwrapRaw returns the "raw" member of a previously returned report, or
// payload unchanged when it is already a tool document.
func UnwrapRaw(payload []byte) ([]byte, error) {
	decoded, err := core.DecodeJSON(payload)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, errors.InvalidInput("report payload must be a JSON object")
	}
	raw, hasRaw := obj["raw"].(map[string]any)
	_, hasRows := obj["rows"]
	if !hasRaw || !hasRows {
		return payload, nil
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode raw payload")
	}
	return out, nil
}

// Document returns the report as an exportable document
func (r *PredictionReport) Document() *Document {
	return markdownDocument(KindPrediction, "Prediction Results", r.Rows, r.Warnings)
}

// Document returns the report as an exportable document
func (r *ComparisonReport) Document() *Document {
	return markdownDocument(KindComparison, "WOA vs EWOA Comparison", r.Rows, r.Warnings)
}

// Document returns the report as an exportable document
func (r *BenchmarkReport) Document() *Document {
	return &Document{Kind: KindBenchmark, Title: "Benchmark Results", Rows: r.Rows, Markdown: r.Markdown, Warnings: r.Warnings}
}
