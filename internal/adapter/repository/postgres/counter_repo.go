package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/infrastructure/postgres/generated"
	"github.com/iho/balanceledger/internal/usecase"
)

// CounterRepository implements usecase.CounterRepository over BOS_Counter.
type CounterRepository struct {
	queries *generated.Queries
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(pool *pgxpool.Pool) *CounterRepository {
	return newCounterRepository(pool)
}

func newCounterRepository(db generated.DBTX) *CounterRepository {
	return &CounterRepository{queries: generated.New(db)}
}

// GetForUpdate reads the last issued number and locks the counter row.
func (r *CounterRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, counterID string) (int64, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return 0, err
	}

	last, err := queries.GetCounterForUpdate(ctx, counterID)
	if err != nil {
		return 0, counterError(counterID, err)
	}

	return last, nil
}

// Set stores the last issued number.
func (r *CounterRepository) Set(ctx context.Context, tx usecase.Transaction, counterID string, value int64) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	affected, err := queries.SetCounter(ctx, generated.SetCounterParams{
		CounterID:  counterID,
		LastNumber: value,
	})
	if err != nil {
		return wrapStoreError("set counter", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCounterNotProvisioned, counterID)
	}

	return nil
}

// Get reads the last issued number outside any unit of work.
func (r *CounterRepository) Get(ctx context.Context, counterID string) (int64, error) {
	last, err := r.queries.GetCounter(ctx, counterID)
	if err != nil {
		return 0, counterError(counterID, err)
	}

	return last, nil
}

func counterError(counterID string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrCounterNotProvisioned, counterID)
	}

	return wrapStoreError("get counter", err)
}
