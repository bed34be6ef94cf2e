package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esuka/transfer-backend/internal/api"
	"github.com/esuka/transfer-backend/internal/api/middleware"
	"github.com/esuka/transfer-backend/internal/config"
	"github.com/esuka/transfer-backend/internal/db"
	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/esuka/transfer-backend/internal/observability"
	"github.com/esuka/transfer-backend/internal/rates"
	"github.com/esuka/transfer-backend/internal/repository"
	"github.com/esuka/transfer-backend/internal/service"
	"github.com/esuka/transfer-backend/internal/worker"
)

// Run bootstraps the HTTP server and notification dispatcher, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTIssuer(cfg.JWTIssuer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MigrationsPath != "" {
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied", zap.String("path", cfg.MigrationsPath))
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn("redis url not set, exchange rate caching disabled")
	}

	var events notifier.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier, err := notifier.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		events = kafkaNotifier
	} else {
		events = notifier.NewNoOpNotifier()
		logger.Warn("kafka brokers not set, notifications disabled")
	}
	defer events.Close()

	repo := repository.NewRepository(pool)
	store := repository.NewStore(pool)

	var redisCmd redis.Cmdable
	if redisClient != nil {
		redisCmd = redisClient
	}
	rateSource := rates.NewCachedSource(repo, redisCmd, cfg.RateCacheTTL)

	dispatcher := worker.NewNotificationDispatcher(events, cfg.NotificationQueueSize)
	stopDispatcher := dispatcher.Run(ctx)
	logger.Info("notification dispatcher started", zap.Int("queue_size", cfg.NotificationQueueSize))

	authSvc := service.NewAuthService(repo, dispatcher)
	settlementSvc := service.NewSettlementService(repo, repo, rateSource, store, dispatcher)
	accountSvc := service.NewAccountService(repo, repo)
	referenceSvc := service.NewReferenceService(repo, rateSource, dispatcher)

	router := api.NewRouter(cfg, logger, pool, redisCmd, authSvc, settlementSvc, accountSvc, referenceSvc)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("stopping notification dispatcher")
	stopDispatcher()

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
