package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/service"
)

// NewApp builds the fiber app with middleware, health, metrics and API routes.
func NewApp(svcs *service.Services, gatherer prometheus.Gatherer, origins []string, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: strings.Join(origins, ",")}))

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	if gatherer != nil {
		app.Get("/metrics", metricsHandler(gatherer))
	}

	Register(app, svcs, logger)
	return app
}

// NewMetricsApp serves only /metrics, for processes without the API.
func NewMetricsApp(gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Get("/metrics", metricsHandler(gatherer))
	return app
}

func metricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
