package main

import (
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/shopworks/fulfillment/internal/config"
	"github.com/shopworks/fulfillment/internal/infrastructure"
	"github.com/shopworks/fulfillment/internal/pkg/logging"
	"github.com/shopworks/fulfillment/internal/temporal"
)

func main() {
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName+"-worker", cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	repos, err := infrastructure.NewRepositories(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("repositories_init_error", zap.Error(err))
	}

	temporalClient, err := temporal.Dial(cfg, logger)
	if err != nil {
		logger.Fatal("temporal_dial_error", zap.Error(err))
	}
	defer temporalClient.Close()

	w := temporal.NewWorker(temporalClient, cfg, repos)

	logger.Info("worker_start", zap.String("task_queue", cfg.TaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker_error", zap.Error(err))
	}
	logger.Info("worker_stopped")
}
