package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gowoa/domain/core"
)

// Validate checks a request before it is turned into command-line flags.
func (r Request) Validate() error {
	if len(r.Functions) == 0 {
		return fmt.Errorf("%w: at least one objective function is required", core.ErrInvalidPayload)
	}
	for _, fn := range r.Functions {
		if strings.TrimSpace(fn) == "" || strings.HasPrefix(fn, "-") {
			return fmt.Errorf("%w: invalid function name %q", core.ErrInvalidPayload, fn)
		}
	}
	switch r.Algorithm {
	case Baseline, Enhanced, "both":
	default:
		return fmt.Errorf("%w: algo must be woa, ewoa or both, got %q", core.ErrInvalidPayload, r.Algorithm)
	}
	if r.Population <= 0 || r.Iterations <= 0 || r.Runs <= 0 || r.Dimension <= 0 {
		return fmt.Errorf("%w: pop, iters, runs and dim must be positive", core.ErrInvalidPayload)
	}
	return nil
}

// Check validates a generically decoded benchmark payload. Function names
// match case-insensitively. At least one of the requested functions must be
// present (the optimizer skips names it does
// not know), and every present function must carry an algorithm block with
// its run values.
func Check(raw any, functions []string) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return core.ErrNotAnObject
	}
	if len(obj) == 0 {
		return core.NewMissingKeysError("benchmark", lowerAll(functions))
	}

	byName := make(map[string]any, len(obj))
	for k, v := range obj {
		byName[strings.ToLower(k)] = v
	}

	found := 0
	var missing []string
	for _, fn := range lowerAll(functions) {
		entry, ok := byName[fn]
		if !ok {
			continue
		}
		found++
		fnObj, ok := entry.(map[string]any)
		if !ok {
			missing = append(missing, fn)
			continue
		}
		variants := 0
		for _, algo := range []string{Baseline, Enhanced} {
			block, ok := fnObj[algo].(map[string]any)
			if !ok {
				continue
			}
			variants++
			if _, ok := block["all"]; !ok {
				missing = append(missing, fn+"."+algo+".all")
			}
		}
		if variants == 0 {
			missing = append(missing, fn+".woa|ewoa")
		}
	}
	if found == 0 && len(functions) > 0 {
		return core.NewMissingKeysError("benchmark", lowerAll(functions))
	}
	if len(missing) > 0 {
		return core.NewMissingKeysError("benchmark", missing)
	}
	return nil
}

// Decode parses a benchmark payload, preserving function order. Function
// names match case-insensitively and are stored lowercased.
func Decode(data []byte, functions []string) (*Results, error) {
	raw, err := core.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := Check(raw, functions); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(core.QuoteNonFinite(data)))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
	}
	wanted := make(map[string]bool, len(functions))
	for _, fn := range lowerAll(functions) {
		wanted[fn] = true
	}
	results := &Results{ByName: make(map[string]*FunctionResult)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
		}
		key, _ := tok.(string)
		name := strings.ToLower(key)
		if !wanted[name] {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("%w: %v", core.ErrInvalidPayload, err)
			}
			continue
		}
		var fn FunctionResult
		if err := dec.Decode(&fn); err != nil {
			return nil, fmt.Errorf("%w: function %q: %v", core.ErrInvalidPayload, name, err)
		}
		if _, dup := results.ByName[name]; !dup {
			results.Functions = append(results.Functions, name)
		}
		results.ByName[name] = &fn
	}
	return results, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
