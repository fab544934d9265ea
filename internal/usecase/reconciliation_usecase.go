package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Discrepancy is a balance row that disagrees with its history or is negative.
type Discrepancy struct {
	AccountID         string
	CurrencyID        string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
}

// Difference returns recorded minus calculated.
func (d *Discrepancy) Difference() decimal.Decimal {
	return d.RecordedBalance.Sub(d.CalculatedBalance)
}

// ReconciliationUseCase checks that balances equal the sum of their history.
type ReconciliationUseCase struct {
	ledgerRepo  LedgerRepository
	counterRepo CounterRepository
	counterID   string
	clock       Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository, counterRepo CounterRepository, counterID string, clock Clock) *ReconciliationUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &ReconciliationUseCase{
		ledgerRepo:  ledgerRepo,
		counterRepo: counterRepo,
		counterID:   counterID,
		clock:       clock,
	}
}

// ConsistencyReport is the result of a ledger-wide check.
type ConsistencyReport struct {
	CheckedAt        time.Time
	TotalBalance     decimal.Decimal
	TotalHistory     decimal.Decimal
	Discrepancies    []*Discrepancy
	LastCounterValue int64
	Consistent       bool
}

// CheckLedgerConsistency verifies every balance equals the sum of its
// history amounts and is not negative.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, totalHistory, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}

	discrepancies, err := uc.ledgerRepo.FindDiscrepancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger discrepancies: %w", err)
	}

	last, err := uc.counterRepo.Get(ctx, uc.counterID)
	if err != nil {
		return nil, err
	}

	if discrepancies == nil {
		discrepancies = []*Discrepancy{}
	}

	return &ConsistencyReport{
		CheckedAt:        uc.clock.Now(),
		TotalBalance:     totalBalance,
		TotalHistory:     totalHistory,
		Discrepancies:    discrepancies,
		LastCounterValue: last,
		Consistent:       totalBalance.Equal(totalHistory) && len(discrepancies) == 0,
	}, nil
}

// VerifyCounter confirms the transaction counter row exists.
func (uc *ReconciliationUseCase) VerifyCounter(ctx context.Context) error {
	_, err := uc.counterRepo.Get(ctx, uc.counterID)
	return err
}
