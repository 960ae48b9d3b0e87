package benchmark

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gowoa/domain/core"
)

// Algorithm variants produced by the optimizer. Baseline is WOA, enhanced is EWOA.
const (
	Baseline = "woa"
	Enhanced = "ewoa"
)

// Sample is one run value. It decodes from a JSON number, null (NaN), or the
// string tags NaN, Infinity and -Infinity.
type Sample float64

func (s *Sample) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*s = Sample(math.NaN())
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return err
		}
		v, err := parseTag(tag)
		if err != nil {
			return err
		}
		*s = Sample(v)
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("run value %s is not numeric", text)
	}
	*s = Sample(v)
	return nil
}

func (s Sample) MarshalJSON() ([]byte, error) {
	v := float64(s)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(v)
}

// Finite reports whether the sample is an ordinary number
func (s Sample) Finite() bool {
	v := float64(s)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseTag(tag string) (float64, error) {
	v, err := core.ParseFloatTag(tag)
	if err != nil {
		return 0, fmt.Errorf("run value %q is not numeric", tag)
	}
	return v, nil
}

// Floats converts samples to plain float64 values
func Floats(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

// ReportedBlock is a run block summary as written by the optimizer.
type ReportedBlock struct {
	Runs     [2]int  `json:"runs"`
	BestMean *Sample `json:"best_mean"`
	BestStd  *Sample `json:"best_std"`
}

// AlgorithmResult is one variant's repeated-run output for one function.
type AlgorithmResult struct {
	BestMean            *Sample         `json:"best_mean"`
	BestStd             *Sample         `json:"best_std"`
	AverageEER          *Sample         `json:"average_eer"`
	RuntimeSeconds      *Sample         `json:"runtime_s"`
	ConvergenceRateMean *Sample         `json:"convergence_rate_mean"`
	ConvergenceRateStd  *Sample         `json:"convergence_rate_std"`
	All                 []Sample        `json:"all"`
	RunBlockSummaries   []ReportedBlock `json:"run_block_summaries,omitempty"`
	ConvergenceRates    []Sample        `json:"convergence_rates,omitempty"`
}

// ReportedWilcoxon is the optimizer's own signed-rank test, when it ran one.
type ReportedWilcoxon struct {
	PValue    *Sample `json:"p_value"`
	Statistic *Sample `json:"statistic,omitempty"`
}

// FunctionResult groups both variants for one objective function.
type FunctionResult struct {
	WOA            *AlgorithmResult  `json:"woa,omitempty"`
	EWOA           *AlgorithmResult  `json:"ewoa,omitempty"`
	Wilcoxon       *ReportedWilcoxon `json:"wilcoxon,omitempty"`
	ElapsedSeconds *Sample           `json:"elapsed_s,omitempty"`
}

// Variant returns the result for the named algorithm, nil when absent
func (f *FunctionResult) Variant(name string) *AlgorithmResult {
	switch strings.ToLower(name) {
	case Baseline:
		return f.WOA
	case Enhanced:
		return f.EWOA
	}
	return nil
}

// Results is the decoded benchmark payload. Functions keeps the order the
// optimizer wrote them in; names are lowercased.
type Results struct {
	Functions []string
	ByName    map[string]*FunctionResult
}

// Get returns the result for one function
func (r *Results) Get(name string) (*FunctionResult, bool) {
	f, ok := r.ByName[strings.ToLower(name)]
	return f, ok
}

// Request is the parameter set of one benchmark invocation.
type Request struct {
	Functions  []string `json:"functions"`
	Algorithm  string   `json:"algo"`
	Population int      `json:"pop"`
	Iterations int      `json:"iters"`
	Runs       int      `json:"runs"`
	Seed       int64    `json:"seed"`
	Dimension  int      `json:"dim"`
}

// Args renders the request as optimizer command-line flags
func (r Request) Args() []string {
	args := []string{"--functions"}
	args = append(args, r.Functions...)
	args = append(args,
		"--algo", r.Algorithm,
		"--pop", strconv.Itoa(r.Population),
		"--iters", strconv.Itoa(r.Iterations),
		"--runs", strconv.Itoa(r.Runs),
		"--seed", strconv.FormatInt(r.Seed, 10),
		"--dim", strconv.Itoa(r.Dimension),
	)
	return args
}
