package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gowoa/domain/benchmark"
	"gowoa/domain/core"
	"gowoa/internal"
	"gowoa/internal/benchstats"
	"gowoa/internal/config"
	"gowoa/internal/errors"
	"gowoa/internal/format"
	"gowoa/internal/report"
	"gowoa/ports"
)

// BenchmarkOverrides adjusts the configured optimizer defaults. Zero values
// keep the default; a nil Seed draws a fresh one.
type BenchmarkOverrides struct {
	Functions  []string `json:"functions,omitempty"`
	Algorithm  string   `json:"algo,omitempty"`
	Population int      `json:"pop,omitempty"`
	Iterations int      `json:"iters,omitempty"`
	Runs       int      `json:"runs,omitempty"`
	Dimension  int      `json:"dim,omitempty"`
	Seed       *int64   `json:"seed,omitempty"`
	BlockSize  int      `json:"block_size,omitempty"`
}

// FunctionSummary is the headline of one function's comparison.
type FunctionSummary struct {
	Name         string   `json:"name"`
	WOAMean      string   `json:"woa_mean"`
	EWOAMean     string   `json:"ewoa_mean"`
	PValue       string   `json:"p_value"`
	Significance string   `json:"significance"`
	Warnings     []string `json:"warnings,omitempty"`
}

// BenchmarkReport is the assembled optimizer response.
type BenchmarkReport struct {
	RequestID core.RequestID    `json:"request_id"`
	Request   benchmark.Request `json:"request"`
	Attempt   Attempt           `json:"attempt"`
	Functions []FunctionSummary `json:"functions"`
	Rows      []report.Row      `json:"rows"`
	Markdown  string            `json:"markdown"`
	Warnings  []string          `json:"warnings,omitempty"`
	Raw       map[string]any    `json:"raw"`

	Results *benchmark.Results         `json:"-"`
	Stats   []benchstats.FunctionStats `json:"-"`
}

// BenchmarkService runs the optimizer comparison and recomputes its statistics
type BenchmarkService struct {
	executor Executor
	seeds    ports.SeedSource
	cfg      *config.Config
	logger   *internal.Logger
}

func NewBenchmarkService(executor Executor, seeds ports.SeedSource, cfg *config.Config, logger *internal.Logger) *BenchmarkService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if seeds == nil {
		seeds = NewRandomSeedSource()
	}
	return &BenchmarkService{executor: executor, seeds: seeds, cfg: cfg, logger: logger}
}

// BuildRequest merges overrides into the configured defaults and validates
// the result.
func (s *BenchmarkService) BuildRequest(ctx context.Context, o BenchmarkOverrides) (benchmark.Request, error) {
	d := s.cfg.Benchmark
	req := benchmark.Request{
		Functions:  d.Functions,
		Algorithm:  d.Algorithm,
		Population: d.Population,
		Iterations: d.Iterations,
		Runs:       d.Runs,
		Dimension:  d.Dimension,
	}
	if len(o.Functions) > 0 {
		req.Functions = nil
		for _, fn := range o.Functions {
			req.Functions = append(req.Functions, strings.ToLower(strings.TrimSpace(fn)))
		}
	}
	if o.Algorithm != "" {
		req.Algorithm = strings.ToLower(o.Algorithm)
	}
	if o.Population != 0 {
		req.Population = o.Population
	}
	if o.Iterations != 0 {
		req.Iterations = o.Iterations
	}
	if o.Runs != 0 {
		req.Runs = o.Runs
	}
	if o.Dimension != 0 {
		req.Dimension = o.Dimension
	}
	if o.Seed != nil {
		req.Seed = *o.Seed
	} else {
		req.Seed = s.seeds.NextSeed(ctx)
	}

	if err := req.Validate(); err != nil {
		return req, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return req, nil
}

// Run executes the optimizer and aggregates its runs
func (s *BenchmarkService) Run(ctx context.Context, o BenchmarkOverrides) (*BenchmarkReport, error) {
	req, err := s.BuildRequest(ctx, o)
	if err != nil {
		return nil, err
	}
	id := core.NewRequestID()

	functions := req.Functions
	inv, err := newInvocation(s.cfg.Runner, "benchmark", s.cfg.Runner.EntryPoints.Benchmark, req.Args(),
		func(decoded any) error { return benchmark.Check(decoded, functions) })
	if err != nil {
		return nil, err
	}

	s.logger.Info("[Benchmark] %s: %s, %d runs x %d iterations, seed %d",
		id, strings.Join(req.Functions, ","), req.Runs, req.Iterations, req.Seed)
	success, err := s.executor.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}

	rep, err := s.assemble(success.Payload, req.Functions, benchstats.Options{
		BlockSize:    s.blockSize(o.BlockSize),
		ExpectedRuns: req.Runs,
	})
	if err != nil {
		return nil, err
	}
	rep.RequestID = id
	rep.Request = req
	rep.Attempt = attemptOf(success)

	for _, fn := range req.Functions {
		if _, ok := rep.Results.Get(fn); !ok {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: not returned by the optimizer", fn))
		}
	}
	return rep, nil
}

// Assemble decodes a benchmark document without running anything. An empty
// function list accepts every top-level key.
func (s *BenchmarkService) Assemble(payload []byte, functions []string, blockSize int) (*BenchmarkReport, error) {
	if len(functions) == 0 {
		raw, err := core.DecodeJSON(payload)
		if err != nil {
			return nil, payloadError("benchmark", err)
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, payloadError("benchmark", core.ErrNotAnObject)
		}
		for k := range obj {
			functions = append(functions, k)
		}
		sort.Strings(functions)
	}
	return s.assemble(payload, functions, benchstats.Options{BlockSize: s.blockSize(blockSize)})
}

func (s *BenchmarkService) assemble(payload []byte, functions []string, opts benchstats.Options) (*BenchmarkReport, error) {
	results, err := benchmark.Decode(payload, functions)
	if err != nil {
		return nil, payloadError("benchmark", err)
	}
	raw, err := core.DecodeJSON(payload)
	if err != nil {
		return nil, payloadError("benchmark", err)
	}

	precision := s.cfg.Display.Precision
	stats := benchstats.AggregateAll(results, opts)
	rep := &BenchmarkReport{
		Rows:     report.Benchmark(stats, precision),
		Markdown: report.BenchmarkMarkdown(stats, precision),
		Raw:      raw.(map[string]any),
		Results:  results,
		Stats:    stats,
	}
	for _, fs := range stats {
		rep.Functions = append(rep.Functions, summarize(fs, precision))
		rep.Warnings = append(rep.Warnings, fs.Warnings...)
		for _, w := range fs.Warnings {
			s.logger.Warn("[Benchmark] %s", w)
		}
	}
	return rep, nil
}

func (s *BenchmarkService) blockSize(override int) int {
	if override > 0 {
		return override
	}
	if s.cfg.Benchmark.BlockSize != 0 {
		return s.cfg.Benchmark.BlockSize
	}
	return benchstats.DefaultBlockSize
}

func summarize(fs benchstats.FunctionStats, precision int) FunctionSummary {
	mean := func(vs *benchstats.VariantStats) string {
		if vs == nil {
			return format.Absent
		}
		return format.Metric(vs.Fitness.Mean, vs.Fitness.Defined, precision)
	}
	sum := FunctionSummary{
		Name:         fs.Name,
		WOAMean:      mean(fs.WOA),
		EWOAMean:     mean(fs.EWOA),
		PValue:       format.Unavailable,
		Significance: format.Unavailable,
		Warnings:     fs.Warnings,
	}
	if fs.Test != nil {
		sum.PValue = format.Float(fs.Test.PValue, report.PValuePrecision)
		sum.Significance = fs.Significance
	}
	return sum
}
