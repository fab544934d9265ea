package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransactionResponse is returned by every committed operation.
type TransactionResponse struct {
	TransactionID string `json:"transactionId"`
}

// TransactionFromDomain converts a committed result to a response.
func TransactionFromDomain(r *domain.TransactionResult) *TransactionResponse {
	return &TransactionResponse{TransactionID: r.TransactionID}
}

// HistoryEntryResponse represents one history row.
type HistoryEntryResponse struct {
	TransactionID   string          `json:"transactionId"`
	AccountID       string          `json:"accountId"`
	CurrencyID      string          `json:"currencyId"`
	TransactionDate time.Time       `json:"transactionDate"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       string          `json:"direction"`
	Note            string          `json:"note"`
}

// Entry directions.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// HistoryFromDomain converts history entries to responses.
func HistoryFromDomain(entries []*domain.HistoryEntry) []*HistoryEntryResponse {
	result := make([]*HistoryEntryResponse, len(entries))
	for i, e := range entries {
		direction := DirectionDebit
		if e.IsCredit() {
			direction = DirectionCredit
		}

		result[i] = &HistoryEntryResponse{
			TransactionID:   e.TransactionID,
			AccountID:       e.AccountID,
			CurrencyID:      e.CurrencyID,
			TransactionDate: e.Timestamp,
			Amount:          e.Amount,
			Direction:       direction,
			Note:            e.Note,
		}
	}
	return result
}

// TransactionDetailResponse lists the entries of one operation.
type TransactionDetailResponse struct {
	TransactionID string                  `json:"transactionId"`
	Entries       []*HistoryEntryResponse `json:"entries"`
}

// BalanceResponse represents one balance.
type BalanceResponse struct {
	AccountID  string          `json:"accountId"`
	CurrencyID string          `json:"currencyId"`
	Amount     decimal.Decimal `json:"amount"`
}

// BalanceFromDomain converts a balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		AccountID:  b.AccountID,
		CurrencyID: b.CurrencyID,
		Amount:     b.Amount,
	}
}

// BalancesFromDomain converts balances to responses.
func BalancesFromDomain(balances []*domain.Balance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// DiscrepancyResponse represents a balance that disagrees with its history.
type DiscrepancyResponse struct {
	AccountID         string          `json:"accountId"`
	CurrencyID        string          `json:"currencyId"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	CheckedAt        time.Time              `json:"checkedAt"`
	Status           string                 `json:"status"`
	TotalBalance     decimal.Decimal        `json:"totalBalance"`
	TotalHistory     decimal.Decimal        `json:"totalHistory"`
	Discrepancies    []*DiscrepancyResponse `json:"discrepancies"`
	LastCounterValue int64                  `json:"lastCounterValue"`
	Consistent       bool                   `json:"consistent"`
}

// ConsistencyFromReport converts a report to a response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}

	discrepancies := make([]*DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = &DiscrepancyResponse{
			AccountID:         d.AccountID,
			CurrencyID:        d.CurrencyID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference(),
		}
	}

	return &ConsistencyResponse{
		CheckedAt:        r.CheckedAt,
		Status:           status,
		TotalBalance:     r.TotalBalance,
		TotalHistory:     r.TotalHistory,
		Discrepancies:    discrepancies,
		LastCounterValue: r.LastCounterValue,
		Consistent:       r.Consistent,
	}
}
