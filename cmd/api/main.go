package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopworks/fulfillment/internal/config"
	"github.com/shopworks/fulfillment/internal/infrastructure"
	"github.com/shopworks/fulfillment/internal/infrastructure/seed"
	"github.com/shopworks/fulfillment/internal/pkg/logging"
	httptransport "github.com/shopworks/fulfillment/internal/presentation/http"
	"github.com/shopworks/fulfillment/internal/temporal"
)

func main() {
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName+"-api", cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	repos, err := infrastructure.NewRepositories(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("repositories_init_error", zap.Error(err))
	}

	if cfg.SeedUsers {
		if err := seed.Users(context.Background(), repos.Users, logger); err != nil {
			logger.Fatal("seed_error", zap.Error(err))
		}
	}

	temporalClient, err := temporal.Dial(cfg, logger)
	if err != nil {
		logger.Fatal("temporal_dial_error", zap.Error(err))
	}
	defer temporalClient.Close()

	metrics := httptransport.NewMetrics(prometheus.DefaultRegisterer)
	handler := httptransport.NewHandler(
		repos.Orders, repos.Products, temporalClient, cfg.TaskQueue, logger, metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
