package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/config"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/power-monitoring/internal/http"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/logging"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/repository"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/service"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/source"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/tariff"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := logging.Setup(config.LogLevel(), config.LogFormat())

	loc, err := config.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("timezone")
	}

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
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var insight service.InsightGenerator
	if key := config.GeminiAPIKey(); key != "" {
		gc, err := service.NewGeminiClient(ctx, key, config.GeminiModel())
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client")
		}
		insight = gc
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; ai insight disabled")
	}

	svcs, err := service.New(db, service.Options{
		Source:        src,
		Location:      loc,
		Tariff:        tariff.Default(),
		IngestPeriod:  config.IngestPeriod(),
		IngestTimeout: config.IngestTimeout(),
		QueryTimeout:  config.QueryTimeout(),
		JWTSecret:     []byte(config.JWTSecret()),
		TokenTTL:      config.TokenTTL(),
		Insight:       insight,
		Metrics:       metrics.New(reg),
		Logger:        logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("services")
	}

	app := httpHandlers.NewApp(svcs, reg, config.CORSOrigins(), logger)
	addr := config.APIAddr()

	var g errgroup.Group
	g.Go(func() error {
		if err := svcs.Scheduler.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("source", config.SourceDriver()).Msg("api listening")
		if err := app.Listen(addr); err != nil {
			stop()
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
	log.Info().Msg("shutdown complete")
}
