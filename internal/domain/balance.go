package domain

import "github.com/shopspring/decimal"

// Balance is the amount held by one account in one currency.
type Balance struct {
	AccountID  string
	CurrencyID string
	Amount     decimal.Decimal
}

// BalanceKey identifies a balance row.
type BalanceKey struct {
	AccountID  string
	CurrencyID string
}

// Key returns the balance's identifying key.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{AccountID: b.AccountID, CurrencyID: b.CurrencyID}
}

// IsSufficient reports whether the balance is a valid committed state.
func (b *Balance) IsSufficient() bool {
	return !b.Amount.IsNegative()
}
