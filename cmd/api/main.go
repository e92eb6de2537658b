package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SriRamz25/payshield/internal/api/rest"
	"github.com/SriRamz25/payshield/internal/infrastructure/cache"
	"github.com/SriRamz25/payshield/internal/infrastructure/config"
	"github.com/SriRamz25/payshield/internal/infrastructure/database"
	"github.com/SriRamz25/payshield/internal/infrastructure/predictor"
	"github.com/SriRamz25/payshield/internal/infrastructure/repository"
	"github.com/SriRamz25/payshield/internal/infrastructure/telemetry"
	"github.com/SriRamz25/payshield/internal/service/amount"
	"github.com/SriRamz25/payshield/internal/service/assessment"
	"github.com/SriRamz25/payshield/internal/service/receiver"
	"github.com/SriRamz25/payshield/internal/service/relationship"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProvider, err := telemetry.InitializeOpenTelemetry(ctx, &telemetry.Config{
		ServiceName:    "payshield",
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		BatchTimeout:   cfg.Telemetry.BatchTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	pool, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisCache, err := cache.NewRedisCache(&cfg.Redis, zapLogger)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	contextRepo := repository.NewContextRepository(pool, cfg.Risk.HistoryWindowDays)
	provider := cache.NewCachedContextProvider(
		contextRepo, redisCache,
		cfg.Risk.SenderCacheTTL, cfg.Risk.ReceiverCacheTTL,
		zapLogger,
	)
	eventRepo := repository.NewRiskEventRepository(pool)

	var pred receiver.Predictor
	if cfg.Predictor.Enabled && cfg.Predictor.URL != "" {
		pred = predictor.NewHTTPClient(&cfg.Predictor)
	} else {
		logger.Info("fraud predictor disabled, receiver scoring is rule-based only")
	}

	service := assessment.NewService(
		provider,
		eventRepo,
		relationship.NewScorer(),
		amount.NewScorer(),
		receiver.NewScorer(pred, cfg.Predictor.Timeout, logger),
		cfg.Risk.MaxFactors,
		logger,
	)

	handler := rest.NewHandler(service, eventRepo, logger)
	health := rest.NewHealthHandler(
		rest.CheckFunc{CheckName: "postgres", Fn: pool.Ping},
		rest.CheckFunc{CheckName: "redis", Fn: func(ctx context.Context) error {
			return redisCache.Set(ctx, "payshield:health", "ok", time.Minute)
		}},
	)

	server := rest.NewServer(&cfg.Server, handler, health, logger)

	logger.Info("starting risk engine",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)
	return server.Start(ctx)
}
