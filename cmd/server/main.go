package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sharehub/internal/api"
	"sharehub/internal/config"
	"sharehub/internal/database"
	"sharehub/internal/logging"
	"sharehub/internal/metrics"
	"sharehub/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := applySeed(cfg, db, &logger); err != nil {
		return err
	}

	users := service.NewUserService(db, db, db, db, &logger)
	items := service.NewItemService(db, db, db, db, db, &logger)
	bookings := service.NewBookingService(db, db, db, &logger)
	requests := service.NewRequestService(db, db, db, &logger)

	server := api.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), users, items, bookings, requests, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Build(cfg.Logging, cfg.App, "server")
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logger, closer, nil
}

func applySeed(cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
	if cfg.Seed.Path == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Seed.Path); err != nil {
		logger.Warn().Str("seed_path", cfg.Seed.Path).Msg("seed file not found, skipping")
		return nil
	}

	seed, err := database.LoadSeed(cfg.Seed.Path)
	if err != nil {
		return err
	}
	return db.ApplySeed(context.Background(), seed)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
