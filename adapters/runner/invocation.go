package runner

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Validator checks the generically decoded stdout document. A non-nil error
// marks the attempt as malformed output and triggers fallback.
type Validator func(decoded any) error

// InvocationConfig is the mutable input to NewInvocation.
type InvocationConfig struct {
	// Name labels the invocation in logs and errors ("predict", "benchmark").
	Name       string
	Executable string
	Workdir    string
	// ModuleFlag precedes each candidate, e.g. "-m" for python modules.
	// Empty means candidates are passed as-is.
	ModuleFlag string
	// Candidates are tried in order. A candidate may contain several
	// whitespace-separated tokens, e.g. "woa_tool.cli bench".
	Candidates []string
	Args       []string
	// PathEnv names the module-search-path variable that receives Workdir.
	PathEnv   string
	Env       map[string]string
	Timeout   time.Duration
	WaitDelay time.Duration
	Validate  Validator
}

// Invocation is an immutable external-process template.
type Invocation struct {
	name       string
	executable string
	workdir    string
	moduleFlag string
	candidates []string
	args       []string
	env        []string
	timeout    time.Duration
	waitDelay  time.Duration
	validate   Validator
}

// NewInvocation copies cfg into an immutable Invocation.
func NewInvocation(cfg InvocationConfig) (*Invocation, error) {
	if strings.TrimSpace(cfg.Executable) == "" {
		return nil, fmt.Errorf("invocation %q: executable is required", cfg.Name)
	}
	if cfg.Timeout < 0 || cfg.WaitDelay < 0 {
		return nil, fmt.Errorf("invocation %q: timeout and wait delay must not be negative", cfg.Name)
	}

	inv := &Invocation{
		name:       cfg.Name,
		executable: cfg.Executable,
		workdir:    cfg.Workdir,
		moduleFlag: cfg.ModuleFlag,
		args:       append([]string(nil), cfg.Args...),
		timeout:    cfg.Timeout,
		waitDelay:  cfg.WaitDelay,
		validate:   cfg.Validate,
	}
	for _, c := range cfg.Candidates {
		if c = strings.TrimSpace(c); c != "" {
			inv.candidates = append(inv.candidates, c)
		}
	}

	if cfg.PathEnv != "" && cfg.Workdir != "" {
		inv.env = append(inv.env, cfg.PathEnv+"="+prependPath(cfg.Workdir, os.Getenv(cfg.PathEnv)))
	}
	for _, k := range sortedKeys(cfg.Env) {
		inv.env = append(inv.env, k+"="+cfg.Env[k])
	}
	return inv, nil
}

// Name returns the invocation label
func (inv *Invocation) Name() string { return inv.name }

// Candidates returns a copy of the ordered candidate list
func (inv *Invocation) Candidates() []string {
	return append([]string(nil), inv.candidates...)
}

// Timeout returns the per-attempt limit, zero meaning none
func (inv *Invocation) Timeout() time.Duration { return inv.timeout }

// Argv builds the argument vector (without the executable) for a candidate.
func (inv *Invocation) Argv(candidate string) []string {
	var argv []string
	if inv.moduleFlag != "" {
		argv = append(argv, inv.moduleFlag)
	}
	argv = append(argv, strings.Fields(candidate)...)
	return append(argv, inv.args...)
}

// CommandLine renders the full command for logs and diagnostics.
func (inv *Invocation) CommandLine(candidate string) string {
	parts := append([]string{inv.executable}, inv.Argv(candidate)...)
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// Environ returns the inherited environment with the invocation's additions
// applied last so they win.
func (inv *Invocation) Environ() []string {
	base := os.Environ()
	overridden := make(map[string]bool, len(inv.env))
	for _, kv := range inv.env {
		overridden[envKey(kv)] = true
	}
	out := make([]string, 0, len(base)+len(inv.env))
	for _, kv := range base {
		if !overridden[envKey(kv)] {
			out = append(out, kv)
		}
	}
	return append(out, inv.env...)
}

// WithArgs returns a copy with a different argument list.
func (inv *Invocation) WithArgs(args ...string) *Invocation {
	cp := *inv
	cp.candidates = append([]string(nil), inv.candidates...)
	cp.env = append([]string(nil), inv.env...)
	cp.args = append([]string(nil), args...)
	return &cp
}

func envKey(kv string) string {
	if i := strings.IndexByte(kv, '='); i >= 0 {
		return kv[:i]
	}
	return kv
}

func prependPath(dir, existing string) string {
	if existing == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + existing
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
