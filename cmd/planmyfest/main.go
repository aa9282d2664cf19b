package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redhatsam09/planmyfest1/internal/adapter/httpapi"
	kafkaadapter "github.com/redhatsam09/planmyfest1/internal/adapter/kafka"
	"github.com/redhatsam09/planmyfest1/internal/adapter/statsapi"
	"github.com/redhatsam09/planmyfest1/internal/config"
	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/engine"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Statistics backend (feature-flagged via STATS_ENABLED / STATS_API_URL).
	var odds domain.OddsClient
	if cfg.StatsEnabled {
		client := statsapi.NewClient(cfg.StatsAPIURL, cfg.StatsTimeout, logger, metrics)
		odds = statsapi.NewCachedClient(client, cfg.StatsCacheSize, metrics)
		metrics.OddsEnabled.Set(1)
		logger.Info("statistics backend enabled",
			"url", cfg.StatsAPIURL, "cache_size", cfg.StatsCacheSize, "timeout", cfg.StatsTimeout)
	} else {
		logger.Info("statistics backend disabled")
	}

	// Summary sink (feature-flagged via KAFKA_ENABLED).
	var publisher engine.SummaryPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSummaryTopic, logger)
		publisher = writer
		logger.Info("summary sink enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("summary sink disabled")
	}

	eng := engine.New(odds, publisher, logger, metrics, engine.Config{
		DataSourceName: cfg.DataSourceName,
		DataSourceURL:  cfg.DataSourceURL,
		OddsStartYear:  cfg.OddsStartYear,
		OddsEndYear:    cfg.OddsEndYear,
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
