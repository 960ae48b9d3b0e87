package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gowoa/internal/errors"
)

// EntryPoints lists candidate module identifiers per operation, tried in
// order. The lists are data so new tool layouts need no code change.
type EntryPoints struct {
	Predict   []string `yaml:"predict"`
	Compare   []string `yaml:"compare"`
	Benchmark []string `yaml:"benchmark"`
}

// DefaultEntryPoints returns the module layouts the analysis tool has shipped with
func DefaultEntryPoints() EntryPoints {
	return EntryPoints{
		Predict:   []string{"woa_tool.cli predict"},
		Compare:   []string{"woa_tool.compare_predict"},
		Benchmark: []string{"woa_tool.cli bench", "woa_tool.bench", "woa_tool.benchmark", "woa_tool.tools.bench"},
	}
}

// LoadEntryPoints reads a YAML entry-point file. Operations missing from the
// file keep their defaults.
func LoadEntryPoints(path string) (EntryPoints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EntryPoints{}, errors.ConfigInvalid(fmt.Sprintf("cannot read entry-point file %s: %v", path, err))
	}
	return ParseEntryPoints(data)
}

// ParseEntryPoints decodes entry points from YAML, rejecting unknown keys.
func ParseEntryPoints(data []byte) (EntryPoints, error) {
	var file EntryPoints
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return EntryPoints{}, errors.ConfigInvalid(fmt.Sprintf("invalid entry-point file: %v", err))
	}

	out := DefaultEntryPoints()
	if file.Predict != nil {
		out.Predict = file.Predict
	}
	if file.Compare != nil {
		out.Compare = file.Compare
	}
	if file.Benchmark != nil {
		out.Benchmark = file.Benchmark
	}
	return out, out.Validate()
}

// Validate rejects blank identifiers. Empty lists are allowed and surface as
// an exhausted-candidates failure at call time.
func (e EntryPoints) Validate() error {
	for name, list := range map[string][]string{"predict": e.Predict, "compare": e.Compare, "benchmark": e.Benchmark} {
		for i, c := range list {
			if strings.TrimSpace(c) == "" {
				return errors.ConfigInvalid(fmt.Sprintf("entry point %s[%d] is blank", name, i))
			}
		}
	}
	return nil
}
