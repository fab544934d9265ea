package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/infrastructure/postgres/generated"
	"github.com/iho/balanceledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals sums every balance and every history amount.
func (r *LedgerRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.GetLedgerTotals(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, wrapStoreError("ledger totals", err)
	}

	totalBalance, err := numericToDecimal(row.TotalBalance)
	if err != nil {
		return decimal.Zero, decimal.Zero, wrapStoreError("ledger totals", err)
	}

	totalHistory, err := numericToDecimal(row.TotalHistory)
	if err != nil {
		return decimal.Zero, decimal.Zero, wrapStoreError("ledger totals", err)
	}

	return totalBalance, totalHistory, nil
}

// FindDiscrepancies lists balances that are negative or differ from the sum
// of their history.
func (r *LedgerRepository) FindDiscrepancies(ctx context.Context) ([]*usecase.Discrepancy, error) {
	rows, err := r.queries.FindBalanceDiscrepancies(ctx)
	if err != nil {
		return nil, wrapStoreError("find discrepancies", err)
	}

	out := make([]*usecase.Discrepancy, 0, len(rows))
	for _, row := range rows {
		recorded, err := numericToDecimal(row.Amount)
		if err != nil {
			return nil, wrapStoreError("find discrepancies", err)
		}

		calculated, err := numericToDecimal(row.HistoryTotal)
		if err != nil {
			return nil, wrapStoreError("find discrepancies", err)
		}

		out = append(out, &usecase.Discrepancy{
			AccountID:         row.AccountID,
			CurrencyID:        row.CurrencyID,
			RecordedBalance:   recorded,
			CalculatedBalance: calculated,
		})
	}

	return out, nil
}
