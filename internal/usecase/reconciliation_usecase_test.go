package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
	"github.com/iho/balanceledger/internal/usecase/mocks"
)

func TestReconciliationUseCase_CheckLedgerConsistency(t *testing.T) {
	tests := []struct {
		name           string
		totalBalance   decimal.Decimal
		totalHistory   decimal.Decimal
		discrepancies  []*usecase.Discrepancy
		wantConsistent bool
	}{
		{
			name:           "consistent ledger",
			totalBalance:   decimal.NewFromInt(100),
			totalHistory:   decimal.NewFromInt(100),
			wantConsistent: true,
		},
		{
			name:         "totals differ",
			totalBalance: decimal.NewFromInt(100),
			totalHistory: decimal.NewFromInt(90),
		},
		{
			name:         "row discrepancy",
			totalBalance: decimal.NewFromInt(100),
			totalHistory: decimal.NewFromInt(100),
			discrepancies: []*usecase.Discrepancy{
				{AccountID: "A", CurrencyID: "USD", RecordedBalance: decimal.NewFromInt(60), CalculatedBalance: decimal.NewFromInt(50)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
			counterRepo := mocks.NewMockCounterRepository(ctrl)

			ledgerRepo.EXPECT().Totals(gomock.Any()).Return(tt.totalBalance, tt.totalHistory, nil)
			ledgerRepo.EXPECT().FindDiscrepancies(gomock.Any()).Return(tt.discrepancies, nil)
			counterRepo.EXPECT().Get(gomock.Any(), domain.DefaultCounterID).Return(int64(7), nil)

			uc := usecase.NewReconciliationUseCase(ledgerRepo, counterRepo, domain.DefaultCounterID, fixedClock{t: testNow})
			report, err := uc.CheckLedgerConsistency(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if report.Consistent != tt.wantConsistent {
				t.Errorf("Consistent = %v, want %v", report.Consistent, tt.wantConsistent)
			}
			if report.LastCounterValue != 7 {
				t.Errorf("LastCounterValue = %d, want 7", report.LastCounterValue)
			}
			if report.Discrepancies == nil {
				t.Error("expected non-nil discrepancies")
			}
			if !report.CheckedAt.Equal(testNow) {
				t.Errorf("CheckedAt = %v", report.CheckedAt)
			}
		})
	}
}

func TestReconciliationUseCase_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	counterRepo := mocks.NewMockCounterRepository(ctrl)
	uc := usecase.NewReconciliationUseCase(ledgerRepo, counterRepo, domain.DefaultCounterID, nil)

	dbErr := errors.New("db down")
	ledgerRepo.EXPECT().Totals(gomock.Any()).Return(decimal.Zero, decimal.Zero, dbErr)

	if _, err := uc.CheckLedgerConsistency(context.Background()); !errors.Is(err, dbErr) {
		t.Fatalf("expected db error, got %v", err)
	}

	counterRepo.EXPECT().Get(gomock.Any(), domain.DefaultCounterID).Return(int64(0), domain.ErrCounterNotProvisioned)
	if err := uc.VerifyCounter(context.Background()); !errors.Is(err, domain.ErrCounterNotProvisioned) {
		t.Fatalf("expected ErrCounterNotProvisioned, got %v", err)
	}
}

func TestDiscrepancy_Difference(t *testing.T) {
	d := &usecase.Discrepancy{RecordedBalance: decimal.NewFromInt(60), CalculatedBalance: decimal.NewFromInt(50)}
	if !d.Difference().Equal(decimal.NewFromInt(10)) {
		t.Errorf("Difference() = %s, want 10", d.Difference())
	}
}
