package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/domain/benchmark"
)

func TestBenchmarkGeneratorDecodes(t *testing.T) {
	cfg := DefaultBenchmarkConfig()
	cfg.NonFinite = 2

	results, err := benchmark.Decode(NewBenchmarkGenerator(cfg).JSON(), cfg.Functions)
	require.NoError(t, err)
	assert.Equal(t, cfg.Functions, results.Functions)

	fr, ok := results.Get("rosenbrock")
	require.True(t, ok)
	require.Len(t, fr.WOA.All, cfg.Runs)
	assert.False(t, fr.EWOA.All[0].Finite())
	assert.True(t, fr.EWOA.All[2].Finite())
}

func TestBenchmarkGeneratorDeterministic(t *testing.T) {
	a := NewBenchmarkGenerator(DefaultBenchmarkConfig()).JSON()
	b := NewBenchmarkGenerator(DefaultBenchmarkConfig()).JSON()
	assert.Equal(t, string(a), string(b))
}
