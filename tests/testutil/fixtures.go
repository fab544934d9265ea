package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/iho/balanceledger/internal/adapter/repository/postgres"
	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/infrastructure/postgres"
	"github.com/iho/balanceledger/internal/infrastructure/postgres/generated"
	"github.com/iho/balanceledger/internal/usecase"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped when DATABASE_URL is not set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	// Tests run from the package directory; walk up to find migrations.
	migrationsPath := "internal/infrastructure/postgres/migrations"
	for _, candidate := range []string{
		migrationsPath,
		"../../" + migrationsPath,
		"../../../" + migrationsPath,
	} {
		if _, err := os.Stat(candidate); err == nil {
			migrationsPath = candidate
			break
		}
	}

	if err := postgres.NewMigrator(dbURL, migrationsPath, zerolog.Nop()).Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 2)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes balances and history and rewinds the counter.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE BOS_History RESTART IDENTITY;
		TRUNCATE TABLE BOS_Balance;
		INSERT INTO BOS_Counter (szCounterId, iLastNumber) VALUES ('001-COU', 0)
		ON CONFLICT (szCounterId) DO UPDATE SET iLastNumber = 0;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// DeleteCounter removes the counter row.
func (db *TestDB) DeleteCounter(ctx context.Context, counterID string) {
	db.t.Helper()

	if _, err := db.Pool.Exec(ctx, `DELETE FROM BOS_Counter WHERE szCounterId = $1`, counterID); err != nil {
		db.t.Fatalf("failed to delete counter: %v", err)
	}
}

// CounterValue returns the last issued counter value.
func (db *TestDB) CounterValue(ctx context.Context) int64 {
	db.t.Helper()

	v, err := db.Queries.GetCounter(ctx, domain.DefaultCounterID)
	if err != nil {
		db.t.Fatalf("failed to read counter: %v", err)
	}
	return v
}

// HistoryCount returns the number of history rows.
func (db *TestDB) HistoryCount(ctx context.Context) int {
	db.t.Helper()

	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM BOS_History`).Scan(&n); err != nil {
		db.t.Fatalf("failed to count history: %v", err)
	}
	return n
}

// Ledger bundles the use cases wired against a TestDB.
type Ledger struct {
	Transactions   *usecase.TransactionUseCase
	History        *usecase.HistoryUseCase
	Balances       *usecase.BalanceUseCase
	Reconciliation *usecase.ReconciliationUseCase
}

// NewLedger wires the use cases against the test database without a cache.
func (db *TestDB) NewLedger() *Ledger {
	pool := db.Pool
	counterRepo := postgresRepo.NewCounterRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)

	return &Ledger{
		Transactions: usecase.NewTransactionUseCase(usecase.TransactionUseCaseConfig{
			TxManager:   postgresRepo.NewTxManager(pool),
			Sequence:    usecase.NewSequenceGenerator(counterRepo, domain.DefaultCounterID, time.UTC),
			BalanceRepo: balanceRepo,
			HistoryRepo: historyRepo,
			IDGen:       postgresRepo.NewULIDGenerator(),
		}),
		History:        usecase.NewHistoryUseCase(historyRepo),
		Balances:       usecase.NewBalanceUseCase(balanceRepo, nil, 0, zerolog.Nop()),
		Reconciliation: usecase.NewReconciliationUseCase(postgresRepo.NewLedgerRepository(pool), counterRepo, domain.DefaultCounterID, usecase.SystemClock{}),
	}
}

// Fund deposits amount into a fresh account and returns its ID.
func (l *Ledger) Fund(t *testing.T, currency string, amount decimal.Decimal) string {
	t.Helper()

	id := GenerateID()
	if _, err := l.Transactions.Deposit(context.Background(), usecase.DepositInput{
		AccountID:  id,
		CurrencyID: currency,
		Amount:     amount,
		Note:       "fixture",
	}); err != nil {
		t.Fatalf("failed to fund account: %v", err)
	}
	return id
}

// Balance returns the committed balance of an account.
func (l *Ledger) Balance(t *testing.T, accountID, currency string) decimal.Decimal {
	t.Helper()

	b, err := l.Balances.GetBalance(context.Background(), accountID, currency)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return b.Amount
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
