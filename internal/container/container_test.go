package container

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/adapters/runner"
	"gowoa/app"
	"gowoa/internal/testkit"
)

func TestNewWiresDefaults(t *testing.T) {
	kit := testkit.NewTestKit(t)
	c, err := New(kit.Config(), testkit.Logger())
	require.NoError(t, err)

	assert.IsType(t, &runner.Executor{}, c.Executor)
	assert.NotNil(t, c.Seeds)
	assert.Nil(t, c.Uploads)
	assert.NotNil(t, c.Prediction)
	assert.NotNil(t, c.Comparison)
	assert.NotNil(t, c.Benchmark)
	assert.NotNil(t, c.Documents)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestOptionsAndUploads(t *testing.T) {
	kit := testkit.NewTestKit(t)
	seeds := testkit.FixedSeedSource{Seed: 3}
	c, err := New(kit.Config(), testkit.Logger(), WithSeedSource(seeds))
	require.NoError(t, err)
	assert.Equal(t, seeds, c.Seeds)

	req, err := c.Benchmark.BuildRequest(context.Background(), app.BenchmarkOverrides{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), req.Seed)

	require.NoError(t, c.InitUploads())
	require.NotNil(t, c.Uploads)
	info, err := os.Stat(kit.Config().Upload.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
