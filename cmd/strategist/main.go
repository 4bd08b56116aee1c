// cmd/strategist/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"strategist-pipeline/internal/api"
	"strategist-pipeline/internal/common/config"
	"strategist-pipeline/internal/common/database"
	"strategist-pipeline/internal/common/logger"
	"strategist-pipeline/internal/common/observability"
	"strategist-pipeline/internal/pipeline"
	"strategist-pipeline/internal/pipeline/llm"
	"strategist-pipeline/internal/pipeline/ratelimit"
	"strategist-pipeline/internal/pipeline/validator"
	"strategist-pipeline/pkg/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	if cfg.Logging.SanitizePII {
		log = logger.NewSanitizing(log)
	}

	zapLog.Info("starting strategist pipeline",
		zap.String("environment", cfg.App.Environment),
		zap.String("sessionBackend", cfg.Session.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	cat, err := catalog.Default()
	if err != nil {
		zapLog.Fatal("field catalog load failed", zap.Error(err))
	}

	// Session-scoped state (quota timestamps, phase-1 results) lives in
	// redis when configured, so restarts do not reset quotas mid-window.
	var (
		limiterStore ratelimit.Store
		sessionStore pipeline.SessionStore
		sessionTTL   = time.Duration(cfg.Session.TTLSeconds) * time.Second
	)
	if cfg.Session.Backend == "redis" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			zapLog.Fatal("redis ping failed", zap.Error(err))
		}
		zapLog.Info("redis connected", zap.String("address", cfg.Database.Redis.Address))

		limiterStore = ratelimit.NewRedisStore(rdb.GetClient())
		sessionStore = pipeline.NewRedisSessionStore(rdb.GetClient(), sessionTTL)
	} else {
		limiterStore = ratelimit.NewMemoryStore()
		sessionStore = pipeline.NewMemorySessionStore(sessionTTL)
	}

	limiter := ratelimit.New(
		limiterStore,
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.Disabled,
	)
	if cfg.RateLimit.Disabled {
		zapLog.Warn("rate limiting is disabled by configuration")
	}

	client := llm.NewClient(cfg.Provider, log)
	probeCtx, cancelProbe := context.WithTimeout(ctx, 15*time.Second)
	if err := client.ValidateConnection(probeCtx); err != nil {
		zapLog.Warn("provider connection probe failed", zap.Error(err))
	} else {
		zapLog.Info("provider reachable", zap.String("model", cfg.Provider.Model))
	}
	cancelProbe()

	p := pipeline.New(validator.New(cat), limiter, client, sessionStore, log, obs)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.NewServer(p, log).Routes(),
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	zapLog.Info("strategist pipeline stopped gracefully")
}
