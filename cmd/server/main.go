// Package main is the entry point for the CodeCard backend: a service that
// aggregates public coding-platform profiles (GitHub, LeetCode, Codeforces),
// computes a per-platform skill score, maintains a leaderboard, and serves
// shareable profile cards with QR codes.
//
// The layout follows Clean Architecture:
//   - Domain: scoring formulas, player and leaderboard invariants
//   - Application: card assembly orchestration
//   - Infrastructure: postgres, redis, platform API clients, QR rendering
//   - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codecard-hub/codecard-backend/config"
	"github.com/codecard-hub/codecard-backend/internal/application/profile"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/codeforces"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/githubapi"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/leetcode"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/persistence/postgres"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/persistence/redis"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/qr"
	httpserver "github.com/codecard-hub/codecard-backend/internal/interface/http"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
	"github.com/codecard-hub/codecard-backend/pkg/ratelimit"
	"github.com/codecard-hub/codecard-backend/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})
	log.Info("starting CodeCard backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. PostgreSQL
	// The database may still be coming up when we boot (compose, k8s), so
	// the initial connection is retried with backoff.
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	var conn *postgres.Connection
	err = retry.StartupProbeRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		conn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close()
	log.Info("connected to postgres")

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations applied")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Redis (optional)
	// The cache is an optimization; a missing or unreachable Redis only
	// costs latency, so any failure here downgrades to running without it.
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache     *redis.Cache
		cardCache *redis.CardCache
	)
	if !cfg.Redis.Disabled {
		cache, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, running without card cache", logger.Err(err))
			cache = nil
		} else {
			cardCache = redis.NewCardCache(cache, cfg.Redis.CardTTL)
			defer cache.Close()
			log.Info("connected to redis")
		}
	} else {
		log.Info("redis disabled by configuration")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Platform API clients
	// ─────────────────────────────────────────────────────────────────────────
	githubClient := githubapi.NewClient(githubapi.ClientConfig{
		BaseURL:           cfg.GitHub.BaseURL,
		Token:             cfg.GitHub.Token,
		Timeout:           cfg.GitHub.RequestTimeout,
		RateLimiterConfig: limiterConfig(ratelimit.GitHubConfig(), cfg.GitHub.RateLimit, cfg.GitHub.RateLimitBurst),
		BreakerThreshold:  cfg.GitHub.CircuitBreakerThreshold,
		BreakerTimeout:    cfg.GitHub.CircuitBreakerTimeout,
		Logger:            log,
		Debug:             cfg.App.Debug,
	})

	leetcodeClient := leetcode.NewClient(leetcode.ClientConfig{
		BaseURL:           cfg.LeetCode.BaseURL,
		Timeout:           cfg.LeetCode.RequestTimeout,
		RateLimiterConfig: limiterConfig(ratelimit.LeetCodeConfig(), cfg.LeetCode.RateLimit, cfg.LeetCode.RateLimitBurst),
		BreakerThreshold:  cfg.LeetCode.CircuitBreakerThreshold,
		BreakerTimeout:    cfg.LeetCode.CircuitBreakerTimeout,
		Logger:            log,
		Debug:             cfg.App.Debug,
	})

	codeforcesClient := codeforces.NewClient(codeforces.ClientConfig{
		BaseURL:           cfg.Codeforces.BaseURL,
		Timeout:           cfg.Codeforces.RequestTimeout,
		RateLimiterConfig: limiterConfig(ratelimit.CodeforcesConfig(), cfg.Codeforces.RateLimit, cfg.Codeforces.RateLimitBurst),
		BreakerThreshold:  cfg.Codeforces.CircuitBreakerThreshold,
		BreakerTimeout:    cfg.Codeforces.CircuitBreakerTimeout,
		Logger:            log,
		Debug:             cfg.App.Debug,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Application service
	// ─────────────────────────────────────────────────────────────────────────
	store := postgres.NewLeaderboardStore(conn)

	serviceCfg := profile.Config{
		GitHub:         githubClient,
		LeetCode:       leetcodeClient,
		Codeforces:     codeforcesClient,
		Store:          store,
		Encoder:        qr.NewEncoder(cfg.Card.QRSize),
		ProfileBaseURL: cfg.Card.ProfileBaseURL,
		Logger:         log,
	}
	if cardCache != nil {
		serviceCfg.Cache = cardCache
	}
	profileService := profile.NewService(serviceCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins

	deps := httpserver.Dependencies{
		Profile:  profileService,
		Database: conn,
		Logger:   log,
	}
	if cache != nil {
		deps.Cache = cache
	}

	server := httpserver.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. Shutdown
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Err(err))
	}

	log.Info("shutdown complete")
	return nil
}

// connectRedis builds a cache from either the URL or the discrete settings.
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Cache, error) {
	var (
		cache *redis.Cache
		err   error
	)
	if cfg.URL != "" {
		cache, err = redis.NewCacheFromURL(cfg.URL)
	} else {
		rc := redis.DefaultConfig()
		rc.Host = cfg.Host
		rc.Port = cfg.Port
		rc.Password = cfg.Password
		rc.DB = cfg.DB
		rc.PoolSize = cfg.PoolSize
		rc.MinIdleConns = cfg.MinIdleConns
		rc.DialTimeout = cfg.DialTimeout
		rc.ReadTimeout = cfg.ReadTimeout
		rc.WriteTimeout = cfg.WriteTimeout
		cache, err = redis.NewCache(rc)
	}
	if err != nil {
		return nil, err
	}
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}

// limiterConfig overlays the configured rate on a per-platform preset.
func limiterConfig(preset ratelimit.Config, rps float64, burst int) ratelimit.Config {
	if rps > 0 {
		preset.RequestsPerSecond = rps
	}
	if burst > 0 {
		preset.BurstSize = burst
	}
	return preset
}
