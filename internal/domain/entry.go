package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is an immutable record of one signed amount applied to one
// account under one transaction identifier.
type HistoryEntry struct {
	Timestamp     time.Time
	EntryID       string
	TransactionID string
	AccountID     string
	CurrencyID    string
	Note          string
	Amount        decimal.Decimal
}

// IsCredit reports whether the entry increased the balance.
func (e *HistoryEntry) IsCredit() bool {
	return e.Amount.IsPositive()
}

// HistoryFilter selects history entries for one account.
// Start and End are inclusive when set.
type HistoryFilter struct {
	Start     *time.Time
	End       *time.Time
	AccountID string
}
