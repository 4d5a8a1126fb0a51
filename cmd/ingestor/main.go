package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/config"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/power-monitoring/internal/http"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/logging"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/repository"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/service"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/source"
)

// ingestor runs only the sampling loop, for deployments where the API is
// served by a separate process.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := logging.Setup(config.LogLevel(), config.LogFormat())

	db, err := database.Connect(config.DatabaseDSN(), database.Options{
		MaxOpenConns: config.MaxOpenConns(),
		MaxIdleConns: config.MaxIdleConns(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema")
	}

	src, closeSource, err := source.FromConfig(ctx, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry source")
	}
	defer closeSource()

	reg := prometheus.NewRegistry()
	if addr := config.MetricsAddr(); addr != "" {
		app := httpHandlers.NewMetricsApp(reg)
		go func() {
			if err := app.Listen(addr); err != nil {
				log.Error().Err(err).Msg("metrics listener")
			}
		}()
		defer app.Shutdown()
	}

	sched := service.NewScheduler(src, repository.NewMetrics(db),
		config.IngestPeriod(), config.IngestTimeout(), metrics.New(reg), logger)

	log.Info().Str("source", config.SourceDriver()).Dur("period", config.IngestPeriod()).Msg("ingestor running; Ctrl+C to stop")
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("scheduler stopped")
	}
	log.Info().Msg("ingestor stopped")
}
