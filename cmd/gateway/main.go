package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"sharehub/internal/config"
	"sharehub/internal/gateway"
	"sharehub/internal/logging"
	"sharehub/internal/metrics"
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

	metrics.Register()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	proxy := gateway.NewProxy(cfg.Gateway.ServerURL, &logger)
	server := gateway.NewServer(fmt.Sprintf(":%d", cfg.Gateway.Port), proxy, buildLimiter(cfg, redisClient, &logger), &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("gateway stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("gateway shutdown")
	}

	logger.Info().Msg("gateway stopped")
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

	logger, closer, err := logging.Build(cfg.Logging, cfg.App, "gateway")
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildLimiter prefers the redis-backed limiter and keeps a local
// token-bucket fallback so throttling survives a redis outage.
func buildLimiter(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) gateway.Limiter {
	rl := cfg.Gateway.RateLimit
	if !rl.Enabled {
		return nil
	}

	window := time.Duration(rl.WindowSeconds) * time.Second
	memory := gateway.NewMemoryLimiter(float64(rl.Requests)/window.Seconds(), rl.Burst)
	if redisClient == nil {
		return memory
	}
	return gateway.NewFailoverLimiter(gateway.NewRedisLimiter(redisClient, rl.Requests, window), memory, logger)
}
