package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Rollbacks         *prometheus.CounterVec
	OperationAmount   *prometheus.HistogramVec
	TransactionIDs    prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balanceledger_operations_total",
				Help: "Total ledger operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "balanceledger_operation_duration_seconds",
				Help:    "Duration of ledger units of work",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balanceledger_rollbacks_total",
				Help: "Units of work rolled back, by the last stage reached",
			},
			[]string{"operation", "stage"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "balanceledger_operation_amount",
				Help:    "Committed operation amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
		TransactionIDs: factory.NewCounter(prometheus.CounterOpts{
			Name: "balanceledger_transaction_ids_issued_total",
			Help: "Transaction identifiers issued by committed operations",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "balanceledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),

		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "balanceledger_idempotency_replays_total",
			Help: "Responses replayed from the idempotency store",
		}),
	}
}

// RecordOperation implements usecase.OperationRecorder.
func (m *Metrics) RecordOperation(kind domain.OperationKind, outcome usecase.Outcome, stage domain.Stage, duration time.Duration) {
	m.Operations.WithLabelValues(string(kind), string(outcome)).Inc()

	// Rejections before the unit opened never reach the store.
	if duration > 0 {
		m.OperationDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	}

	switch {
	case outcome == usecase.OutcomeCommitted:
		m.TransactionIDs.Inc()
	case outcome != usecase.OutcomeInvalid:
		m.Rollbacks.WithLabelValues(string(kind), string(stage)).Inc()
	}
}

// RecordAmount implements usecase.OperationRecorder.
func (m *Metrics) RecordAmount(kind domain.OperationKind, amount decimal.Decimal) {
	m.OperationAmount.WithLabelValues(string(kind)).Observe(amount.InexactFloat64())
}

var _ usecase.OperationRecorder = (*Metrics)(nil)
