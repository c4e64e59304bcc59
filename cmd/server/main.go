package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shareit-lending/service-shareit/internal/application"
	"github.com/shareit-lending/service-shareit/internal/common/database"
	"github.com/shareit-lending/service-shareit/internal/common/health"
	"github.com/shareit-lending/service-shareit/internal/common/kafka"
	"github.com/shareit-lending/service-shareit/internal/common/logger"
	"github.com/shareit-lending/service-shareit/internal/common/metrics"
	"github.com/shareit-lending/service-shareit/internal/common/middleware"
	"github.com/shareit-lending/service-shareit/internal/common/ratelimit"
	"github.com/shareit-lending/service-shareit/internal/config"
	"github.com/shareit-lending/service-shareit/internal/events"
	"github.com/shareit-lending/service-shareit/internal/handler"
	"github.com/shareit-lending/service-shareit/internal/repository"
	"go.uber.org/zap"
)

const serviceName = "service-shareit"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.Bool("kafka_enabled", cfg.KafkaConfig.Enabled),
		zap.Bool("redis_enabled", cfg.RedisConfig.Enabled),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := database.RunMigrations(cfg.DBConfig.URL(), cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	metrics.Register()

	// Event publisher: Kafka when enabled, otherwise events are dropped
	var publisher application.EventPublisher = kafka.DiscardPublisher{}
	if cfg.KafkaConfig.Enabled {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	healthHandler := health.NewHandler(db, serviceName)

	// Rate limiter: Redis when enabled, otherwise per-process
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitConfig.Requests, cfg.RateLimitConfig.Window)
	if cfg.RedisConfig.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = rdb.Close() }()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitConfig.Requests, cfg.RateLimitConfig.Window, log)
		healthHandler.AddChecker("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)

	// Initialize application services
	clock := application.SystemClock()
	topic := cfg.KafkaConfig.Topic

	bookingService := application.NewBookingService(bookingRepo, itemRepo, userRepo, publisher, topic, clock, log)
	itemService := application.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, publisher, topic, clock, log)
	userService := application.NewUserService(userRepo, log)
	requestService := application.NewRequestService(requestRepo, itemRepo, userRepo, clock, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the audit consumer in a goroutine
	if cfg.KafkaConfig.Enabled {
		auditConsumer := events.NewAuditConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.GroupPrefix+"-audit",
			topic,
			log,
		)
		defer func() { _ = auditConsumer.Close() }()

		go func() {
			log.Info("starting booking event audit consumer")
			if err := auditConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking event audit consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Operational routes are not rate limited
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("")
	api.Use(middleware.RateLimitMiddleware(limiter, log))

	handler.NewBookingHandler(bookingService).RegisterRoutes(api)
	handler.NewItemHandler(itemService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewRequestHandler(requestService).RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
