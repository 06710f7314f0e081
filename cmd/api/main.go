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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/crewpulse/workload-backend/internal/adapters/primary/http"
	mw "github.com/crewpulse/workload-backend/internal/adapters/primary/http/middleware"
	"github.com/crewpulse/workload-backend/internal/adapters/primary/websocket"
	"github.com/crewpulse/workload-backend/internal/adapters/secondary/directory"
	"github.com/crewpulse/workload-backend/internal/adapters/secondary/jira"
	"github.com/crewpulse/workload-backend/internal/adapters/secondary/postgres"
	"github.com/crewpulse/workload-backend/internal/adapters/secondary/slack"
	"github.com/crewpulse/workload-backend/internal/auth"
	"github.com/crewpulse/workload-backend/internal/config"
	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/services"
	"github.com/crewpulse/workload-backend/internal/infrastructure/cache"
	"github.com/crewpulse/workload-backend/internal/infrastructure/logging"
	"github.com/crewpulse/workload-backend/internal/infrastructure/metrics"
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
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
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

	// 4. Initialize Security, Metrics & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.New(registry)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, webhookRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		webhookRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.WebhookRPS,
			BurstSize:         cfg.RateLimit.WebhookBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Secondary Adapters
	eventStore := postgres.NewWorkloadEventRepository(pool)
	ticketSource := jira.NewTicketSource(jira.Config{
		BaseURL:  cfg.Jira.BaseURL,
		Email:    cfg.Jira.Email,
		APIToken: cfg.Jira.APIToken,
		Timeout:  cfg.Jira.Timeout,
	}, logger)
	riskNotifier := slack.NewWebhookNotifier(slack.Config{
		WebhookURL: cfg.Slack.WebhookURL,
		Channel:    cfg.Slack.Channel,
		Timeout:    cfg.Slack.Timeout,
	}, logger)
	teamDirectory, err := directory.NewStaticDirectory(cfg.Engine.DirectoryFile, logger)
	if err != nil {
		logger.Error("failed to load team directory", "error", err)
		os.Exit(1)
	}

	// Services (Core)
	profileCache := cache.New(cfg.Engine.ProfileCacheTTL)
	capacityService := services.NewCapacityService(ticketSource, teamDirectory, eventStore, profileCache, engineMetrics, logger)
	impactService := services.NewImpactService(capacityService, teamDirectory, engineMetrics, logger)
	distributionService := services.NewDistributionService(capacityService, teamDirectory, hub, logger)
	riskService := services.NewRiskService(ticketSource, domain.TicketSignalModel{}, riskNotifier, engineMetrics, logger)

	// Handlers (Primary Adapters)
	capacityHandler := httpAdapter.NewCapacityHandler(capacityService, errorHandler, logger)
	impactHandler := httpAdapter.NewImpactHandler(impactService, errorHandler, logger)
	distributionHandler := httpAdapter.NewDistributionHandler(distributionService, errorHandler, logger)
	webhookHandler := httpAdapter.NewWebhookHandler(riskService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleReadiness)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Webhook routes with stricter rate limiting; callers authenticate
		// with a shared token at the ticket system side, not JWT.
		r.Group(func(r chi.Router) {
			if webhookRateLimiter != nil {
				r.Use(webhookRateLimiter.Middleware)
			}
			r.Route("/webhooks", webhookHandler.RegisterRoutes)
		})

		// WebSocket route (authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/teams/{teamID}", func(r chi.Router) {
				capacityHandler.RegisterRoutes(r)
				distributionHandler.RegisterRoutes(r)
			})
			r.Route("/assignments", impactHandler.RegisterRoutes)
		})
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Drain in-flight risk notifications before exiting.
	riskService.Shutdown()

	logger.Info("server shutdown complete")
}
