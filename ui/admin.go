package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gowoa/internal"
	"gowoa/internal/config"
)

// Check is one named readiness probe
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Admin serves liveness, readiness and profiling on a separate listener
type Admin struct {
	router *chi.Mux
	checks []Check
	logger *internal.Logger
}

// NewAdmin creates the admin router. Readiness uses DefaultChecks(cfg) plus
// any extra checks.
func NewAdmin(cfg *config.Config, logger *internal.Logger, extra ...Check) *Admin {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &Admin{
		router: chi.NewRouter(),
		checks: append(DefaultChecks(cfg), extra...),
		logger: logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Handler returns the routed admin mux
func (a *Admin) Handler() http.Handler { return a.router }

// Start serves the admin endpoints until ctx is done.
func (a *Admin) Start(ctx context.Context, addr string) error {
	return serve(ctx, &http.Server{Addr: addr, Handler: a.router, ReadHeaderTimeout: 10 * time.Second}, a.logger, "Admin")
}

func (a *Admin) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *Admin) setupRoutes() {
	a.router.Get("/healthz", a.handleHealthz)
	a.router.Get("/readyz", a.handleReadyz)
	a.router.Mount("/debug", middleware.Profiler())
}

func (a *Admin) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *Admin) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(a.checks))
	for _, check := range a.checks {
		if err := check.Run(ctx); err != nil {
			a.logger.Warn("[Admin] readiness check %s failed: %v", check.Name, err)
			results[check.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}
	writeJSON(w, status, results)
}

// DefaultChecks verifies the interpreter resolves and the workdir exists.
func DefaultChecks(cfg *config.Config) []Check {
	return []Check{
		{Name: "python", Run: func(context.Context) error {
			_, err := exec.LookPath(cfg.Runner.Python)
			return err
		}},
		{Name: "workdir", Run: func(context.Context) error {
			info, err := os.Stat(cfg.Runner.Workdir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", cfg.Runner.Workdir)
			}
			return nil
		}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
