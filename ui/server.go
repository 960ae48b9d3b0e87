package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gowoa/app"
	"gowoa/internal"
	"gowoa/internal/config"
)

// Services are the result assemblers the API exposes
type Services struct {
	Prediction *app.PredictionService
	Comparison *app.ComparisonService
	Benchmark  *app.BenchmarkService
}

// Server is the JSON API for prediction, comparison and benchmarking
type Server struct {
	router   *gin.Engine
	services Services
	cfg      *config.Config
	logger   *internal.Logger
	now      func() time.Time
}

// NewServer creates the API server with its routes registered
func NewServer(cfg *config.Config, services Services, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	s := &Server{
		router:   gin.New(),
		services: services,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the routed gin engine
func (s *Server) Handler() http.Handler { return s.router }

// Start serves the API until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	return serve(ctx, &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}, s.logger, "API")
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/predict", s.handlePredict)
	api.POST("/compare", s.handleCompare)
	api.POST("/benchmark", s.handleBenchmark)
	api.POST("/export/:kind", s.handleExport)
	api.POST("/report/:kind", s.handleReport)
}

// serve runs srv until ctx is canceled and then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *internal.Logger, name string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("[%s] listening on %s", name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("[%s] shutting down", name)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
