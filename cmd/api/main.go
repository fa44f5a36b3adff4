// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/Kukusha-yon/carecorner-sub000/internal/admin"
	"github.com/Kukusha-yon/carecorner-sub000/internal/audit"
	"github.com/Kukusha-yon/carecorner-sub000/internal/auth"
	"github.com/Kukusha-yon/carecorner-sub000/internal/catalog"
	"github.com/Kukusha-yon/carecorner-sub000/internal/config"
	"github.com/Kukusha-yon/carecorner-sub000/internal/content"
	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
	"github.com/Kukusha-yon/carecorner-sub000/internal/events"
	"github.com/Kukusha-yon/carecorner-sub000/internal/health"
	"github.com/Kukusha-yon/carecorner-sub000/internal/images"
	"github.com/Kukusha-yon/carecorner-sub000/internal/middleware"
	"github.com/Kukusha-yon/carecorner-sub000/internal/order"
	"github.com/Kukusha-yon/carecorner-sub000/internal/server"
	"github.com/Kukusha-yon/carecorner-sub000/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	//nolint:errcheck // a missing .env is fine; env vars may come from elsewhere
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	var uploader images.Uploader
	if cfg.Cloudinary.Enabled() {
		cld, cldErr := images.NewCloudinaryUploader(cfg.Cloudinary)
		if cldErr != nil {
			return cldErr
		}
		uploader = cld
		logger.Info("cloudinary initialized",
			"cloud_name", cfg.Cloudinary.CloudName,
		)
	} else {
		logger.Warn("cloudinary not configured, image uploads disabled")
	}

	producer := events.NewProducer(cfg.Kafka, logger)
	producer.Start()
	if producer != nil {
		logger.Info("kafka producer started",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
	}

	auditRepo := audit.NewRepository(db.DB)
	auditRecorder := audit.NewRecorder(auditRepo, logger)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	productRepo := catalog.NewProductRepository(db.DB)
	arrivalRepo := catalog.NewNewArrivalRepository(db.DB)
	catalogCache := catalog.NewCache(redis.Client, cfg.Cache.ProductTTL, logger)
	catalogSvc := catalog.NewService(
		productRepo,
		arrivalRepo,
		catalogCache,
		uploader,
		auditRecorder,
		logger,
	)
	catalogHandler := catalog.NewHandler(catalogSvc)

	resolver := catalog.NewResolver(productRepo, arrivalRepo)

	orderRepo := order.NewRepository(db.DB)
	orderSvc := order.NewService(
		db.DB,
		orderRepo,
		resolver,
		productRepo,
		catalogCache,
		producer,
		auditRecorder,
		logger,
	)
	orderHandler := order.NewHandler(orderSvc)

	featuredRepo := content.NewFeaturedRepository(db.DB)
	partnerRepo := content.NewPartnerRepository(db.DB)
	settingRepo := content.NewSettingRepository(db.DB)
	contentSvc := content.NewService(
		featuredRepo,
		partnerRepo,
		settingRepo,
		redis.Client,
		cfg.Cache.SettingTTL,
		uploader,
		auditRecorder,
		logger,
	)
	contentHandler := content.NewHandler(contentSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		AuditRepo:  auditRepo,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())
	router.Handle("/metrics", middleware.MetricsHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/api", func(r chi.Router) {
		healthHandler.RegisterAPIRoutes(r)

		authHandler.RegisterRoutes(r, authenticator)
		catalogHandler.RegisterRoutes(r, authenticator, adminOnly)
		orderHandler.RegisterRoutes(r, authenticator)
		orderHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		contentHandler.RegisterRoutes(r, authenticator, adminOnly)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := producer.Close(shutdownCtx); err != nil {
		logger.Error("kafka producer close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
