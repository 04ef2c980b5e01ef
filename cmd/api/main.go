package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/ticket-metrics-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-metrics-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-metrics-backend/internal/adapters/secondary/csvfile"
	"github.com/lorrc/ticket-metrics-backend/internal/adapters/secondary/freshservice"
	"github.com/lorrc/ticket-metrics-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/ticket-metrics-backend/internal/auth"
	"github.com/lorrc/ticket-metrics-backend/internal/config"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
	"github.com/lorrc/ticket-metrics-backend/internal/core/services"
	"github.com/lorrc/ticket-metrics-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"reference_source", cfg.ReferenceData.Source,
	)

	// 3. Initialize Reference Data Backend
	ctx := context.Background()

	var refRepo ports.ReferenceDataRepository
	var healthChecker httpAdapter.HealthChecker

	switch cfg.ReferenceData.Source {
	case config.ReferenceSourcePostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			logger.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}

		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
		poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		logger.Info("database connection established")

		refRepo = postgres.NewReferenceRepository(pool)
		healthChecker = pool

	default:
		refRepo = csvfile.NewReferenceRepository(cfg.ReferenceData.CSVDir, logger)
	}

	// Reference data is immutable for the lifetime of the process; cache it
	// behind a one-shot loader.
	refCache := services.NewReferenceCache(refRepo, logger)

	// 4. Initialize Optional Bearer Identity
	var tokenManager *auth.TokenManager
	if cfg.JWT.Secret != "" {
		tokenManager = auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	}

	// 5. Initialize Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Ticket Source (Secondary Adapter)
	ticketSource := freshservice.NewClient(freshservice.Config{
		BaseURL:    cfg.FreshService.BaseURL,
		APIKey:     cfg.FreshService.APIKey,
		PageSize:   cfg.FreshService.PageSize,
		MaxPages:   cfg.FreshService.MaxPages,
		HTTPClient: &http.Client{Timeout: cfg.FreshService.RequestTimeout},
	}, logger)

	// Services (Core)
	accessService := services.NewAccessService(refCache, logger)
	metricsService := services.NewMetricsService(accessService, ticketSource, cfg.FreshService.BaseURL, logger)

	// Handlers (Primary Adapters)
	metricsHandler := httpAdapter.NewMetricsHandler(metricsService, errorHandler, logger)
	usersHandler := httpAdapter.NewUsersHandler(accessService, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(healthChecker, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if tokenManager != nil {
			r.Use(mw.OptionalIdentity(tokenManager))
		}

		r.Route("/metrics", metricsHandler.RegisterRoutes)
		r.Route("/users", usersHandler.RegisterRoutes)
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
