package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/usecase"
)

// TransactionRequest is the body of deposit and withdraw requests.
type TransactionRequest struct {
	AccountID  string          `json:"accountId"`
	CurrencyID string          `json:"currencyId"`
	Note       string          `json:"note"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToDepositInput converts to deposit use case input.
func (r *TransactionRequest) ToDepositInput() usecase.DepositInput {
	return usecase.DepositInput{
		AccountID:  r.AccountID,
		CurrencyID: r.CurrencyID,
		Note:       r.Note,
		Amount:     r.Amount,
	}
}

// ToWithdrawInput converts to withdraw use case input.
func (r *TransactionRequest) ToWithdrawInput() usecase.WithdrawInput {
	return usecase.WithdrawInput{
		AccountID:  r.AccountID,
		CurrencyID: r.CurrencyID,
		Note:       r.Note,
		Amount:     r.Amount,
	}
}

// TransferRequest is the body of a transfer request.
type TransferRequest struct {
	SourceAccountID  string          `json:"sourceAccountId"`
	CurrencyID       string          `json:"currencyId"`
	TargetAccountIDs []string        `json:"targetAccountIds"`
	Amount           decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		SourceAccountID:  r.SourceAccountID,
		CurrencyID:       r.CurrencyID,
		TargetAccountIDs: r.TargetAccountIDs,
		Amount:           r.Amount,
	}
}
