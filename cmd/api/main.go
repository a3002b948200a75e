package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drone-pickup/internal/core/cache"
	"drone-pickup/internal/core/config"
	"drone-pickup/internal/core/logger"
	"drone-pickup/internal/core/scheduler"
	"drone-pickup/internal/core/server"
	catalogadapter "drone-pickup/internal/features/catalog/adapters"
	cataloghandler "drone-pickup/internal/features/catalog/handler"
	catalogservice "drone-pickup/internal/features/catalog/service"
	orderadapter "drone-pickup/internal/features/orders/adapters"
	orderhandler "drone-pickup/internal/features/orders/handler"
	orderservice "drone-pickup/internal/features/orders/service"
	sessionadapter "drone-pickup/internal/features/session/adapters"
	sessionhandler "drone-pickup/internal/features/session/handler"
	"drone-pickup/internal/features/session/ports"
	sessionservice "drone-pickup/internal/features/session/service"

	"go.uber.org/zap"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// @title Drone Pickup API
// @version 1.0
// @description Session navigator backend for drone food pickup.
// @contact.name API Support
// @contact.email support@drone-pickup.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newCache(ctx, cfg, l)
	defer store.Close()

	// Catalog
	catalog := catalogadapter.NewStaticCatalog()
	catalogHdl := cataloghandler.NewCatalogHandler(catalogservice.NewCatalogService(catalog))

	// Sessions
	var notifier ports.CheckoutNotifier
	if cfg.Checkout.WebhookURL != "" {
		notifier = sessionadapter.NewWebhookNotifier(cfg.Checkout.WebhookURL, cfg.Checkout.WebhookTimeout)
		l.Info("Checkout webhook enabled")
	}

	timers := scheduler.New()
	defer timers.Stop()

	sessionSvc := sessionservice.NewSessionService(
		catalog,
		sessionadapter.NewCacheSessionRepository(store, cfg.Session.TTL),
		notifier,
		timers,
		sessionservice.Options{
			OrderStepDelay: cfg.Session.OrderStepDelay,
			AuthDelay:      cfg.Auth.Delay,
			UnlockDelay:    cfg.Session.UnlockDelay,
			IdleTTL:        cfg.Session.IdleTTL,
			OrderingURL:    cfg.Checkout.OrderingURL,
			StrictOTP:      cfg.Auth.StrictOTP,
			MaxAttempts:    cfg.Auth.MaxAttempts,
			ExposeCodes:    !cfg.IsProduction(),
			NotifyTimeout:  cfg.Checkout.WebhookTimeout,
		},
	)
	defer sessionSvc.Close()

	if n, err := sessionSvc.ResumeAll(ctx); err != nil {
		l.Warn("Failed to resume sessions", zap.Error(err))
	} else if n > 0 {
		l.Info("Sessions resumed", zap.Int("count", n))
	}
	go sessionSvc.RunSweeper(ctx, sweepInterval)

	sessionHdl := sessionhandler.NewSessionHandler(sessionSvc)

	// Order tracking reads through the live sessions
	orderSvc := orderservice.NewOrderService(orderadapter.NewSessionAdapter(sessionSvc))
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	srv := server.New(cfg)

	// Register Routes
	catalogHdl.Register(srv.App)
	sessionHdl.Register(srv.App)
	orderHdl.Register(srv.App)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed to start", zap.Error(err))
		}
	case <-ctx.Done():
		l.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// newCache connects to Redis when REDIS_URL is set and falls back to the
// in-process store otherwise.
func newCache(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) cache.Cache {
	if cfg.Redis.URL == "" {
		l.Info("REDIS_URL not set, sessions kept in memory")
		return cache.NewMemoryAdapter()
	}

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")
	return redisCache
}
