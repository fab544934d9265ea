package usecase

import (
	"context"
	"time"

	"github.com/iho/balanceledger/internal/domain"
)

// HistoryUseCase handles history queries.
type HistoryUseCase struct {
	historyRepo HistoryRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(historyRepo HistoryRepository) *HistoryUseCase {
	return &HistoryUseCase{
		historyRepo: historyRepo,
	}
}

// GetHistoryInput represents input for listing history entries.
type GetHistoryInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
}

// GetHistory lists entries for an account in ascending timestamp order,
// optionally bounded by inclusive start and end dates.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, input GetHistoryInput) ([]*domain.HistoryEntry, error) {
	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	if err := domain.ValidateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.List(ctx, domain.HistoryFilter{
		AccountID: domain.NormalizeAccountID(input.AccountID),
		Start:     input.StartDate,
		End:       input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}

	return entries, nil
}

// GetTransaction lists the entries written under one transaction identifier.
func (uc *HistoryUseCase) GetTransaction(ctx context.Context, transactionID string) ([]*domain.HistoryEntry, error) {
	if _, _, err := domain.ParseTransactionID(transactionID); err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return entries, nil
}
