package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/balanceledger/internal/adapter/http/handler"
	"github.com/iho/balanceledger/internal/adapter/http/middleware"
	"github.com/iho/balanceledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	HistoryHandler     *handler.HistoryHandler
	BalanceHandler     *handler.BalanceHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyOptions []middleware.IdempotencyOption
	RateLimiter        *middleware.RateLimiter
	MetricsHandler     http.Handler
	Logger             *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger).Wrap)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyOptions...).Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/deposit", cfg.TransactionHandler.Deposit)
			r.Post("/withdraw", cfg.TransactionHandler.Withdraw)
			r.Post("/transfer", cfg.TransactionHandler.Transfer)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/history", cfg.HistoryHandler.List)
			r.Get("/balances", cfg.BalanceHandler.List)
			r.Get("/balances/{currency}", cfg.BalanceHandler.Get)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	// Legacy Transaction controller routes.
	r.Route("/api/Transaction", func(r chi.Router) {
		r.Put("/setor", cfg.TransactionHandler.Deposit)
		r.Put("/tarik", cfg.TransactionHandler.Withdraw)
		r.Put("/transfer", cfg.TransactionHandler.Transfer)
		r.Post("/setor", cfg.TransactionHandler.Deposit)
		r.Post("/tarik", cfg.TransactionHandler.Withdraw)
		r.Post("/transfer", cfg.TransactionHandler.Transfer)
		r.Get("/history", cfg.HistoryHandler.List)
	})

	return r
}
