package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/infrastructure/postgres/generated"
	"github.com/iho/balanceledger/internal/usecase"
)

// HistoryRepository implements usecase.HistoryRepository over BOS_History.
type HistoryRepository struct {
	queries *generated.Queries
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return newHistoryRepository(pool)
}

func newHistoryRepository(db generated.DBTX) *HistoryRepository {
	return &HistoryRepository{queries: generated.New(db)}
}

// Append inserts one entry within tx.
func (r *HistoryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.HistoryEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.InsertHistoryEntry(ctx, generated.InsertHistoryEntryParams{
		EntryID:       entry.EntryID,
		TransactionID: entry.TransactionID,
		AccountID:     entry.AccountID,
		CurrencyID:    entry.CurrencyID,
		Timestamp:     timeToPgTimestamptz(entry.Timestamp),
		Amount:        decimalToNumeric(entry.Amount),
		Note:          entry.Note,
	})

	return wrapStoreError("append history", err)
}

// List returns an account's entries in ascending timestamp order, insertion
// order breaking ties.
func (r *HistoryRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error) {
	rows, err := r.queries.ListHistory(ctx, generated.ListHistoryParams{
		AccountID: filter.AccountID,
		StartTime: optionalTimestamptz(filter.Start),
		EndTime:   optionalTimestamptz(filter.End),
	})
	if err != nil {
		return nil, wrapStoreError("list history", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := toHistoryEntry(row.EntryID, row.TransactionID, row.AccountID, row.CurrencyID, row.Note, row.Timestamp, row.Amount)
		if err != nil {
			return nil, wrapStoreError("list history", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListByTransaction returns the entries written under one transaction ID.
func (r *HistoryRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.HistoryEntry, error) {
	rows, err := r.queries.ListHistoryByTransaction(ctx, transactionID)
	if err != nil {
		return nil, wrapStoreError("list transaction history", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := toHistoryEntry(row.EntryID, row.TransactionID, row.AccountID, row.CurrencyID, row.Note, row.Timestamp, row.Amount)
		if err != nil {
			return nil, wrapStoreError("list transaction history", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func toHistoryEntry(entryID, transactionID, accountID, currencyID, note string, ts pgtype.Timestamptz, amount pgtype.Numeric) (*domain.HistoryEntry, error) {
	value, err := numericToDecimal(amount)
	if err != nil {
		return nil, err
	}

	return &domain.HistoryEntry{
		EntryID:       entryID,
		TransactionID: transactionID,
		AccountID:     accountID,
		CurrencyID:    currencyID,
		Note:          note,
		Timestamp:     ts.Time.UTC(),
		Amount:        value,
	}, nil
}
