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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/balanceledger/internal/adapter/http"
	"github.com/iho/balanceledger/internal/adapter/http/handler"
	"github.com/iho/balanceledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/balanceledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/balanceledger/internal/adapter/repository/redis"
	"github.com/iho/balanceledger/internal/infrastructure/config"
	"github.com/iho/balanceledger/internal/infrastructure/logger"
	"github.com/iho/balanceledger/internal/infrastructure/metrics"
	"github.com/iho/balanceledger/internal/infrastructure/postgres"
	"github.com/iho/balanceledger/internal/infrastructure/redis"
	"github.com/iho/balanceledger/internal/usecase"
)

const rateLimiterCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	location, err := cfg.TransactionIDLocation()
	if err != nil {
		return err
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseConnectTimeout,
		Logger:         &log,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to Redis
	var redisClient *goredis.Client
	if redisEnabled(cfg) {
		redisClient, err = redis.NewClientWithRetry(ctx, cfg.RedisURL, cfg.DatabaseConnectTimeout, log)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled; idempotency keys and balance caching are off")
	}

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	counterRepo := postgresRepo.NewCounterRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		redisPinger      handler.Pinger
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisPinger = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Initialize use cases
	clock := usecase.SystemClock{}
	sequence := usecase.NewSequenceGenerator(counterRepo, cfg.CounterID, location)
	transactionUC := usecase.NewTransactionUseCase(usecase.TransactionUseCaseConfig{
		TxManager:   txManager,
		Sequence:    sequence,
		BalanceRepo: balanceRepo,
		HistoryRepo: historyRepo,
		IDGen:       idGen,
		Clock:       clock,
		Cache:       cache,
		Recorder:    appMetrics,
		Logger:      &log,
		Timeout:     cfg.DatabaseTimeout,
	})
	historyUC := usecase.NewHistoryUseCase(historyRepo)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, cache, cfg.BalanceCacheTTL, log)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo, counterRepo, cfg.CounterID, clock)

	// A missing counter row would fail every operation; refuse to start instead.
	if err := reconciliationUC.VerifyCounter(ctx); err != nil {
		return fmt.Errorf("verify transaction counter: %w", err)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
		WithHitCounter(appMetrics.RateLimitHits)
	rateLimiter.StartCleanup(ctx, rateLimiterCleanupInterval)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, historyUC),
		HistoryHandler:     handler.NewHistoryHandler(historyUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisPinger),
		IdempotencyStore:   idempotencyStore,
		IdempotencyOptions: []middleware.IdempotencyOption{
			middleware.WithIdempotencyTTL(cfg.IdempotencyTTL),
			middleware.WithReplayCounter(appMetrics.IdempotencyReplays),
			middleware.WithIdempotencyLogger(log),
		},
		RateLimiter:    rateLimiter,
		MetricsHandler: promhttp.Handler(),
		Logger:         &log,
	})

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func redisEnabled(cfg *config.Config) bool {
	return cfg.RedisURL != ""
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
