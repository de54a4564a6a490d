package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopworks/fulfillment/internal/config"
	"github.com/shopworks/fulfillment/internal/infrastructure"
	"github.com/shopworks/fulfillment/internal/infrastructure/seed"
	"github.com/shopworks/fulfillment/internal/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName+"-seed", cfg.Env)
	defer func() { _ = logger.Sync() }()

	repos, err := infrastructure.NewRepositories(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("repositories_init_error", zap.Error(err))
	}

	if err := seed.Users(context.Background(), repos.Users, logger); err != nil {
		logger.Fatal("seed_error", zap.Error(err))
	}
}
