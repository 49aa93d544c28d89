package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/handlers"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/SscSPs/bookkeeping_app/internal/platform/metrics"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bookkeeping_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), logger, skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying pending migrations")
	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, skipMigrations bool) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if !skipMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	rateLimiter, closeLimiter, err := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:     cfg.RateLimit,
		RedisURL: cfg.RateLimitRedisURL,
		Prefix:   "bookkeeping",
	})
	if err != nil {
		return fmt.Errorf("initialize rate limiter: %w", err)
	}
	defer func() {
		if cerr := closeLimiter(); cerr != nil {
			logger.Error("Error closing rate limiter store", slog.String("error", cerr.Error()))
		}
	}()

	repos := pgsql.NewRepositoryProvider(dbPool, cfg.LockTimeout)
	serviceContainer := services.NewServiceContainer(repos, services.WithPaymentMetrics(recorder))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader)
		corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
		r.Use(cors.New(corsConfig))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		Limiter:  rateLimiter,
		Recorder: recorder,
		Gatherer: registry,
	})

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to run: %w", err)
	}
	return nil
}
