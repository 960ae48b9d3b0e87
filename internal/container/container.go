package container

import (
	"context"
	"fmt"

	"gowoa/adapters/runner"
	"gowoa/adapters/upload"
	"gowoa/app"
	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Executor app.Executor
	Seeds    ports.SeedSource
	Uploads  ports.UploadStore

	// Result assemblers
	Prediction *app.PredictionService
	Comparison *app.ComparisonService
	Benchmark  *app.BenchmarkService
	Documents  *app.Documents
}

// Option overrides a default dependency
type Option func(*Container)

// WithExecutor replaces the process executor
func WithExecutor(executor app.Executor) Option {
	return func(c *Container) { c.Executor = executor }
}

// WithSeedSource replaces the benchmark seed source
func WithSeedSource(seeds ports.SeedSource) Option {
	return func(c *Container) { c.Seeds = seeds }
}

// New creates a new dependency injection container. Upload storage is not
// initialized; call InitUploads when serving uploads.
func New(cfg *config.Config, logger *internal.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	if c.Executor == nil {
		c.Executor = runner.NewExecutor(runner.NewOSRunner(), logger)
	}
	if c.Seeds == nil {
		c.Seeds = app.NewRandomSeedSource()
	}

	c.initServices()
	return c, nil
}

// InitUploads creates the upload store and rebinds the services to it
func (c *Container) InitUploads() error {
	store, err := upload.NewLocalStore(c.Config.Upload.Dir, c.Config.Upload.MaxBytes, c.Logger)
	if err != nil {
		return err
	}
	c.Uploads = store
	c.initServices()
	c.Logger.Info("[Container] uploads stored under %s", store.Root())
	return nil
}

func (c *Container) initServices() {
	c.Prediction = app.NewPredictionService(c.Executor, c.Uploads, c.Config, c.Logger)
	c.Comparison = app.NewComparisonService(c.Executor, c.Uploads, c.Config, c.Logger)
	c.Benchmark = app.NewBenchmarkService(c.Executor, c.Seeds, c.Config, c.Logger)
	c.Documents = app.NewDocuments(c.Prediction, c.Comparison, c.Benchmark)
}

// Shutdown flushes buffered log output
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Debug("[Container] shutting down")
	_ = c.Logger.Sync()
	return nil
}
