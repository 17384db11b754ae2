// Package main is the entry point for the Kjørefore API server.
//
// It loads the configuration, builds the provider clients (or their local
// stubs), assembles the weather cache, trip service and search engine,
// mounts the HTTP chassis, and starts listening with graceful shutdown on
// SIGINT/SIGTERM. A background scheduler sweeps expired cache entries on a
// fixed interval.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"kjorefore/internal/api/handlers"
	"kjorefore/internal/config"
	"kjorefore/internal/core"
	"kjorefore/internal/external"
	"kjorefore/internal/search"
	"kjorefore/internal/trip"
	"kjorefore/internal/types"
	"kjorefore/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("kjorefore API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	appLogger := types.SlogLogger{L: logger}
	clock := types.RealClock{}
	ctx := context.Background()

	// Build the server chassis first so its closer registry is available.
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Weather cache backend: Postgres when DATABASE_URL is set, otherwise
	// in-memory.
	var store weather.Store
	if cfg.Database.URL.Unmask() != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL.Unmask())
		if err != nil {
			return fmt.Errorf("creating database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("pinging database: %w", err)
		}

		pgStore, err := weather.NewPGStore(pool)
		if err != nil {
			return fmt.Errorf("creating cache store: %w", err)
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring cache schema: %w", err)
		}

		store = pgStore
		srv.HealthProbes = append(srv.HealthProbes, dbProbe{pool: pool})
		srv.OnShutdown(func(context.Context) error {
			pool.Close()
			return nil
		})
		logger.Info("weather cache backed by postgres")
	} else {
		store = weather.NewMemoryStore()
		logger.Info("weather cache backed by memory")
	}

	// Provider clients. Local mode boots against stubs so the service runs
	// without credentials or network access.
	var (
		directions external.DirectionsProvider
		forecaster weather.Fetcher
		geocoder   external.GeocodingProvider
	)
	if cfg.Environment == "local" {
		directions = external.NewStubDirectionsProvider(logger)
		forecaster = external.NewStubForecastProvider(logger, clock)
		geocoder = external.NewStubGeocodingProvider(logger)
	} else {
		httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
		userAgent := cfg.Providers.UserAgent()

		directions = external.NewDirectionsClient(
			external.NewBaseClient(httpClient, "directions", external.DefaultRetryPolicy(),
				userAgent, types.ErrCodeUpstreamDirections),
			cfg.Providers.DirectionsBaseURL,
			cfg.Providers.DirectionsAPIKey,
		)
		forecaster = external.NewMetNoClient(
			external.NewBaseClient(httpClient, "forecast", external.DefaultRetryPolicy(),
				userAgent, types.ErrCodeUpstreamForecast),
			cfg.Providers.ForecastBaseURL,
		)
		geocoder = external.NewGeocodeClient(
			external.NewBaseClient(httpClient, "geocode", external.DefaultRetryPolicy(),
				userAgent, types.ErrCodeUpstreamGeocode),
			cfg.Providers.GeocodeBaseURL,
		)
	}

	// Domain services.
	weatherClient := weather.NewClient(forecaster, store, clock, appLogger,
		weather.WithTTL(cfg.Weather.CacheTTL))
	tripService := trip.NewService(directions, geocoder, weatherClient, appLogger)
	searchEngine := search.NewEngine(tripService, weatherClient, appLogger)

	// Background cache sweep.
	scheduler, err := newSweepScheduler(ctx, cfg.Weather.SweepInterval, weatherClient, logger)
	if err != nil {
		return fmt.Errorf("creating sweep scheduler: %w", err)
	}
	scheduler.Start()
	srv.OnShutdown(func(context.Context) error {
		return scheduler.Shutdown()
	})

	// HTTP handlers.
	routeHandler := handlers.NewRouteHandler(tripService, srv.Validator, logger)
	optimalHandler := handlers.NewOptimalTimeHandler(searchEngine, srv.Validator, logger)

	srv.RegisterV1(func(r chi.Router) {
		routeHandler.RegisterRoutes(r)
		optimalHandler.RegisterRoutes(r)
	})

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// newSweepScheduler registers the periodic expired-entry sweep.
func newSweepScheduler(ctx context.Context, interval time.Duration, client *weather.Client, logger *slog.Logger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed := client.SweepCache(ctx)
			if removed > 0 {
				logger.Info("weather cache sweep", "removed", removed)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("weather-cache-sweep"),
	)
	if err != nil {
		return nil, err
	}

	return scheduler, nil
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}

// dbProbe checks Postgres connectivity for the /health endpoint.
type dbProbe struct {
	pool *pgxpool.Pool
}

func (p dbProbe) Name() string                    { return "database" }
func (p dbProbe) Check(ctx context.Context) error { return p.pool.Ping(ctx) }
