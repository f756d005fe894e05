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

	"github.com/SscSPs/pos_core/internal/cache"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/core/services"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/SscSPs/pos_core/internal/handlers"
	"github.com/SscSPs/pos_core/internal/jobs"
	"github.com/SscSPs/pos_core/internal/metrics"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/SscSPs/pos_core/internal/platform/config"
	"github.com/SscSPs/pos_core/internal/platform/observability"
	"github.com/SscSPs/pos_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/pos_core/internal/repositories/memory"
	"github.com/SscSPs/pos_core/pkg/database"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := observability.SetupTracingSDK(ctx, cfg)
	if err != nil {
		logger.Error("Failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("Failed to shut down tracing", slog.String("error", err.Error()))
		}
	}()

	// --- Storage ---
	var factory portsrepo.UnitOfWorkFactory
	healthChecks := map[string]handlers.HealthCheck{}
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        cfg.DatabaseMaxConn,
			LockTimeout:     cfg.DatabaseLockTimeout,
			ApplicationName: cfg.ServiceName,
		})
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		factory = pgsql.NewUnitOfWorkFactory(dbPool)
		if cfg.EnableDBCheck {
			healthChecks["database"] = dbPool.Ping
		}
	} else {
		logger.Warn("No database configured, state is kept in memory and lost on restart")
		factory = memory.NewStore()
	}

	// --- Product cache ---
	var productCache cache.ProductCache = cache.NewMemoryProductCache()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisProductCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("Redis unreachable, using in-process product cache",
				slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			_ = redisCache.Close()
		} else {
			defer redisCache.Close()
			productCache = redisCache
			if cfg.EnableDBCheck {
				healthChecks["redis"] = redisCache.Ping
			}
		}
	}

	// --- Events ---
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName, tp)
		if err != nil {
			logger.Error("Failed to create kafka publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("Failed to close kafka publisher", slog.String("error", err.Error()))
			}
		}()
		publisher = kafkaPublisher
	}

	serviceContainer := services.NewServiceContainer(cfg, factory,
		services.WithTracerProvider(tp),
		services.WithEventPublisher(publisher),
		services.WithProductCache(productCache, cfg.ProductCacheTTL),
	)

	metrics.InitMetrics(middleware.HttpRequestsTotal, middleware.HttpRequestDuration)

	// --- Background jobs ---
	scheduler, err := jobs.NewScheduler(serviceContainer.Reservation, jobs.Settings{
		SweepInterval:     cfg.ReservationSweepInterval,
		PurgeInterval:     cfg.PurgeInterval,
		PurgeInitialDelay: cfg.PurgeInitialDelay,
		Retention:         cfg.ReservationRetention,
	}, logger)
	if err != nil {
		logger.Error("Failed to schedule background jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- HTTP ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, tp, healthChecks); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}
