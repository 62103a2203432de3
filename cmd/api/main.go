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

	httpAdapter "github.com/calliko/statuspage-backend/internal/adapters/primary/http"
	mw "github.com/calliko/statuspage-backend/internal/adapters/primary/http/middleware"
	"github.com/calliko/statuspage-backend/internal/adapters/primary/websocket"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/cache"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/email"
	"github.com/calliko/statuspage-backend/internal/adapters/secondary/postgres"
	"github.com/calliko/statuspage-backend/internal/auth"
	"github.com/calliko/statuspage-backend/internal/config"
	"github.com/calliko/statuspage-backend/internal/core/ports"
	"github.com/calliko/statuspage-backend/internal/core/services"
	"github.com/calliko/statuspage-backend/internal/infrastructure/logging"
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

	// 4. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter, publicRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})

		publicRateLimiter = mw.NewRateLimiter(mw.PublicRateLimiterConfig())
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	orgRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	incidentRepo := postgres.NewIncidentRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRepository(pool)

	// Public status cache (Secondary Adapter)
	var statusCache ports.StatusCache = cache.NoopStatusCache{}
	if cfg.Cache.Enabled {
		ristrettoCache, err := cache.NewRistrettoStatusCache(cfg.Cache.TTL)
		if err != nil {
			logger.Error("failed to initialize status cache", "error", err)
			os.Exit(1)
		}
		defer ristrettoCache.Close()
		statusCache = ristrettoCache
	}

	// Notifier (Secondary Adapter)
	notifier := email.NewMockSMTPNotifier(logger)

	// Services (Core)
	authService := services.NewAuthService(userRepo, orgRepo, teamRepo)
	serviceManager := services.NewServiceManager(serviceRepo, hub, statusCache)
	incidentService := services.NewIncidentService(incidentRepo, serviceRepo, hub, statusCache)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, serviceRepo, hub, statusCache)
	publicStatusService := services.NewPublicStatusService(orgRepo, serviceRepo, incidentRepo, maintenanceRepo, statusCache)
	teamService := services.NewTeamService(teamRepo, orgRepo, userRepo, notifier, cfg.App.ClientURL)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler)
	serviceHandler := httpAdapter.NewServiceHandler(serviceManager, errorHandler)
	incidentHandler := httpAdapter.NewIncidentHandler(incidentService, errorHandler)
	maintenanceHandler := httpAdapter.NewMaintenanceHandler(maintenanceService, errorHandler)
	teamHandler := httpAdapter.NewTeamHandler(teamService, tokenManager, errorHandler)
	publicHandler := httpAdapter.NewPublicHandler(publicStatusService, errorHandler)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, publicStatusService, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, hub, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// Public status pages with a generous read-only limit
		r.Group(func(r chi.Router) {
			if publicRateLimiter != nil {
				r.Use(publicRateLimiter.Middleware)
			}
			r.Route("/public", publicHandler.RegisterRoutes)
		})

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Use(mw.ActorMiddleware(teamRepo))

			r.Route("/services", serviceHandler.RegisterRoutes)
			r.Route("/incidents", incidentHandler.RegisterRoutes)
			r.Route("/maintenance", maintenanceHandler.RegisterRoutes)
			r.Route("/teams", teamHandler.RegisterRoutes)
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

	// Drain pending invite emails before exiting.
	teamService.Shutdown()

	logger.Info("server shutdown complete")
}
