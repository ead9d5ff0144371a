package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/logger"
	"github.com/fatma123m/SmartPool/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize the logger
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "smartpool-pipeline")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Create the service
	pipelineService, err := service.NewPipelineService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create pipeline service",
			zap.Error(err),
		)
	}
	defer pipelineService.Stop()

	// 4. Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Start the service
	serviceErrChan := make(chan error, 1)
	go func() {
		if err := pipelineService.Start(ctx); err != nil {
			serviceErrChan <- err
		}
	}()

	// 6. Wait for a signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
	case err := <-serviceErrChan:
		log.Fatal("Service error",
			zap.Error(err),
		)
	}

	log.Info("Pipeline service stopped")
}
