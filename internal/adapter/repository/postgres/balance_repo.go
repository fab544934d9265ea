package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/infrastructure/postgres/generated"
	"github.com/iho/balanceledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository over BOS_Balance.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return newBalanceRepository(pool)
}

func newBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{queries: generated.New(db)}
}

// Adjust adds delta to the balance in one upsert statement, so concurrent
// adjustments of the same row never lose an update.
func (r *BalanceRepository) Adjust(ctx context.Context, tx usecase.Transaction, accountID, currencyID string, delta decimal.Decimal) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.AdjustBalance(ctx, generated.AdjustBalanceParams{
		AccountID:  accountID,
		CurrencyID: currencyID,
		Amount:     decimalToNumeric(delta),
	})

	return wrapStoreError("adjust balance", err)
}

// GetTx reads the balance within tx.
func (r *BalanceRepository) GetTx(ctx context.Context, tx usecase.Transaction, accountID, currencyID string) (decimal.Decimal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return decimal.Zero, err
	}

	return getBalance(ctx, queries, accountID, currencyID)
}

// Get reads the committed balance.
func (r *BalanceRepository) Get(ctx context.Context, accountID, currencyID string) (decimal.Decimal, error) {
	return getBalance(ctx, r.queries, accountID, currencyID)
}

// ListByAccount lists balances of every currency an account holds.
func (r *BalanceRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Balance, error) {
	rows, err := r.queries.ListBalancesByAccount(ctx, accountID)
	if err != nil {
		return nil, wrapStoreError("list balances", err)
	}

	balances := make([]*domain.Balance, 0, len(rows))
	for _, row := range rows {
		amount, err := numericToDecimal(row.Amount)
		if err != nil {
			return nil, wrapStoreError("list balances", err)
		}

		balances = append(balances, &domain.Balance{
			AccountID:  row.AccountID,
			CurrencyID: row.CurrencyID,
			Amount:     amount,
		})
	}

	return balances, nil
}

func getBalance(ctx context.Context, queries *generated.Queries, accountID, currencyID string) (decimal.Decimal, error) {
	n, err := queries.GetBalance(ctx, generated.GetBalanceParams{
		AccountID:  accountID,
		CurrencyID: currencyID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, wrapStoreError("get balance", err)
	}

	amount, err := numericToDecimal(n)
	if err != nil {
		return decimal.Zero, wrapStoreError("get balance", err)
	}

	return amount, nil
}
