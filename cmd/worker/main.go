package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fuelops/backend-fuel/internal/config"
	"github.com/fuelops/backend-fuel/internal/finance"
	"github.com/fuelops/backend-fuel/internal/lock"
	"github.com/fuelops/backend-fuel/internal/obs"
)

const overdueScanLockKey = "worker:overdue-scan"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	financeSvc := &finance.Service{Store: &finance.PGStore{Pool: pool}}
	locker := lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff}

	logger.Info().Dur("interval", cfg.OverdueScanInterval).Msg("worker starting")

	runOverdueScan(ctx, financeSvc, locker, cfg, logger)
	ticker := time.NewTicker(cfg.OverdueScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopping")
			return
		case <-ticker.C:
			runOverdueScan(ctx, financeSvc, locker, cfg, logger)
		}
	}
}

// runOverdueScan marks unpaid past-due installments as OVERDUE. The Redis lock
// keeps multiple worker replicas from scanning at the same time.
func runOverdueScan(ctx context.Context, svc *finance.Service, locker lock.Locker, cfg *config.Config, logger zerolog.Logger) {
	err := locker.TryWithLock(ctx, overdueScanLockKey, cfg.OverdueScanLockTTL, func(ctx context.Context) error {
		marked, err := svc.MarkOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		if marked > 0 {
			logger.Info().Int64("installments", marked).Msg("marked overdue installments")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			logger.Debug().Msg("overdue scan already running elsewhere")
			return
		}
		logger.Error().Err(err).Msg("overdue scan failed")
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}
