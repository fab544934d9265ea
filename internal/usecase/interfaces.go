package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
)

// CounterRepository defines data access for the transaction counter.
type CounterRepository interface {
	// GetForUpdate reads the last issued value and locks the row until tx ends.
	GetForUpdate(ctx context.Context, tx Transaction, counterID string) (int64, error)
	Set(ctx context.Context, tx Transaction, counterID string, value int64) error
	Get(ctx context.Context, counterID string) (int64, error)
}

// BalanceRepository defines data access for balances.
type BalanceRepository interface {
	// Adjust adds delta to the balance, creating the row when absent.
	// It never rejects a negative result.
	Adjust(ctx context.Context, tx Transaction, accountID, currencyID string, delta decimal.Decimal) error
	// GetTx reads the balance as seen by tx. Absent rows read as zero.
	GetTx(ctx context.Context, tx Transaction, accountID, currencyID string) (decimal.Decimal, error)
	// Get reads the committed balance. Absent rows read as zero.
	Get(ctx context.Context, accountID, currencyID string) (decimal.Decimal, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Balance, error)
}

// HistoryRepository defines data access for history entries.
type HistoryRepository interface {
	Append(ctx context.Context, tx Transaction, entry *domain.HistoryEntry) error
	List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.HistoryEntry, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	Totals(ctx context.Context) (totalBalance, totalHistory decimal.Decimal, err error)
	FindDiscrepancies(ctx context.Context) ([]*Discrepancy, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// OperationRecorder receives the outcome of every coordinated operation.
type OperationRecorder interface {
	RecordOperation(kind domain.OperationKind, outcome Outcome, stage domain.Stage, duration time.Duration)
	RecordAmount(kind domain.OperationKind, amount decimal.Decimal)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
