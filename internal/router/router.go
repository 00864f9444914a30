// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/reservas/internal/config"
	"github.com/iliyamo/reservas/internal/handler"
	"github.com/iliyamo/reservas/internal/metrics"
	"github.com/iliyamo/reservas/internal/middleware"
)

// Options carries everything RegisterRoutes needs besides the handler.
// Redis, Metrics and Gatherer may be nil.
type Options struct {
	Logger         *slog.Logger
	CORSOrigins    []string
	Redis          *redis.Client
	Cache          config.CacheConfig
	RateLimit      config.RateLimitConfig
	Metrics        *metrics.ReservationMetrics
	Gatherer       prometheus.Gatherer
	MetricsEnabled bool
}

// New returns an Echo instance with global middleware installed and all
// routes registered.
func New(h *handler.ReservationHandler, opts Options) *echo.Echo {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// Order matters: Recover wraps everything, and the request id must be
	// set before the logger reads it.
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(opts.Logger))
	// The browser UI is served from another origin.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: origins}))

	RegisterRoutes(e, h, opts)
	return e
}

// RegisterRoutes maps the health check, the /reservas resource and, when
// enabled, the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.ReservationHandler, opts Options) {
	// Liveness check, outside the rate limiter and the cache.
	e.GET("/healthz", handler.Health)

	// Prometheus scrape endpoint for the registry the metrics were created on.
	if opts.MetricsEnabled {
		g := opts.Gatherer
		if g == nil {
			g = prometheus.DefaultGatherer
		}
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}

	// The reservation resource. The limiter runs first so rejected requests
	// never reach the cache; both are no-ops unless enabled in config.
	r := e.Group("/reservas",
		middleware.RateLimit(opts.RateLimit, opts.Redis, opts.Metrics, opts.Logger),
		middleware.ResponseCache(opts.Cache, opts.Redis, opts.Logger),
	)
	// GET /reservas lists every reservation in insertion order.
	r.GET("", h.List)
	// POST /reservas creates one and answers 201 with the stored record.
	r.POST("", h.Create)
	// PUT /reservas/:id replaces name and datetime of an existing record.
	r.PUT("/:id", h.Update)
	// DELETE /reservas/:id always answers 204.
	r.DELETE("/:id", h.Delete)
}
