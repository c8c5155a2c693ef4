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

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/logging"
	"shareit/internal/memstore"
	"shareit/internal/metrics"
	"shareit/internal/ratelimit"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func(c io.Closer) { _ = c.Close() }(closer)
	}
	logger := baseLogger.With().Str("component", "server").Logger()

	store, err := openStore(cfg, &logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	reporter := export.NewReporter(store, &logger, cfg.Exports.Path)
	reportWorker := worker.NewReportWorker(reporter, &logger, worker.RetryPolicy{})
	go reportWorker.Start(ctx)

	userService := service.NewUserService(store, &logger)
	itemService := service.NewItemService(store, &logger)
	bookingService := service.NewBookingService(store, &logger, reportWorker)

	limiter := buildLimiter(ctx, cfg, &logger)

	handler := api.NewHandler(userService, itemService, bookingService)
	server := api.NewServer(cfg.Server, handler, limiter, &logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func openStore(cfg *config.Config, logger *zerolog.Logger) (domain.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Info().Msg("using in-memory store")
		return memstore.New(), nil
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info().Str("path", cfg.Database.Path).Msg("sqlite store ready")
	return db, nil
}

// buildLimiter returns nil when rate limiting is disabled. With Redis
// configured the Redis limiter runs in front of the in-memory fallback.
func buildLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	memory := ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, window)

	if cfg.Redis.Address == "" {
		return memory
	}

	client := ratelimit.NewRedisClient(cfg.Redis)
	if err := ratelimit.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, rate limiting may fall back to memory")
	}

	primary := ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, window)
	return ratelimit.NewFailoverLimiter(primary, memory, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
