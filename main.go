package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/internal/container"
	"gowoa/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	logger := internal.NewDefaultLogger()
	internal.DefaultLogger = logger

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.InitUploads(); err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	server := ui.NewServer(appConfig, ui.Services{
		Prediction: appContainer.Prediction,
		Comparison: appContainer.Comparison,
		Benchmark:  appContainer.Benchmark,
	}, logger)
	g.Go(func() error {
		return server.Start(ctx, ":"+appConfig.Server.Port)
	})

	if appConfig.Admin.Enabled {
		admin := ui.NewAdmin(appConfig, logger)
		g.Go(func() error {
			return admin.Start(ctx, ":"+appConfig.Admin.Port)
		})
	}

	logger.Info("[Main] gowoa started (python %s, workdir %s)", appConfig.Runner.Python, appConfig.Runner.Workdir)
	if err := g.Wait(); err != nil {
		logger.Error("[Main] server failed: %v", err)
		os.Exit(1)
	}
	logger.Info("[Main] shutdown complete")
}
