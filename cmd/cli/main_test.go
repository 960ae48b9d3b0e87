package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/internal/testkit"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WOA_WORKDIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "ERROR")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatMarkdownFromFile(t *testing.T) {
	in := writeFile(t, "prediction.json", testkit.PredictionJSON)
	out, err := run(t, "", "format", "--kind", "prediction", "--in", in, "--output", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Prediction Results\n"))
	assert.Contains(t, out, "| Decision | malignant_margin_x | 1.200000 |")
}

func TestFormatTableFromStdin(t *testing.T) {
	out, err := run(t, testkit.ComparisonJSON, "format", "--kind", "comparison")
	require.NoError(t, err)
	assert.Contains(t, out, "WOA vs EWOA Comparison")
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "EWOA 25.0% faster")
}

func TestFormatJSONBenchmark(t *testing.T) {
	payload := testkit.NewBenchmarkGenerator(testkit.DefaultBenchmarkConfig()).JSON()
	out, err := run(t, string(payload), "format", "--kind", "benchmark", "--functions", "griewank", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "benchmark"`)
	assert.Contains(t, out, "griewank")
	assert.NotContains(t, out, "rosenbrock")
}

func TestExportWritesFileByExtension(t *testing.T) {
	in := writeFile(t, "prediction.json", testkit.PredictionJSON)
	dest := filepath.Join(t.TempDir(), "prediction.csv")

	out, err := run(t, "", "export", "--kind", "prediction", "--in", in, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Category,Parameter,Value\r\n"))
}

func TestRejectsUnknownOutputAndKind(t *testing.T) {
	_, err := run(t, testkit.PredictionJSON, "format", "--kind", "prediction", "--output", "yaml")
	assert.ErrorContains(t, err, "unsupported --output")

	_, err = run(t, testkit.PredictionJSON, "format", "--kind", "session")
	assert.ErrorContains(t, err, "unknown report kind")
}

func TestPredictWithFakeInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	script := writeFile(t, "fake-python", "#!/bin/sh\ncat <<'JSON'\n"+testkit.PredictionJSON+"\nJSON\n")
	require.NoError(t, os.Chmod(script, 0o755))
	t.Setenv("WOA_PYTHON", script)

	out, err := run(t, "", "predict", "--image", "scan.png", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "Malignant"`)
	assert.Contains(t, out, `"entry_point": "woa_tool.cli predict"`)
}

func TestPredictFailureShowsLastAttempt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	script := writeFile(t, "fake-python", "#!/bin/sh\necho 'No module named woa_tool' >&2\nexit 1\n")
	require.NoError(t, os.Chmod(script, 0o755))
	t.Setenv("WOA_PYTHON", script)

	_, err := run(t, "", "predict", "--image", "scan.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all_candidates_exhausted")
	assert.Contains(t, err.Error(), "No module named woa_tool")
}
