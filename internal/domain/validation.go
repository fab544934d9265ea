package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrMissingAccountID     = errors.New("account ID is required")
	ErrMissingCurrency      = errors.New("currency ID is required")
	ErrInvalidAccountID     = errors.New("invalid account ID")
	ErrInvalidCurrency      = errors.New("invalid currency ID")
	ErrNoTargetAccounts     = errors.New("at least one target account is required")
	ErrInvalidDateRange     = errors.New("start date is after end date")
	ErrInvalidTransactionID = errors.New("invalid transaction ID")
	ErrEmptyPlan            = errors.New("operation has no balance adjustments")
)

// Validation constants
const (
	MaxAccountIDLength  = 50
	MaxCurrencyIDLength = 10
	MaxNoteLength       = 255
	MaxTargetAccounts   = 100
	MaxAmount           = "1000000000000" // 1 trillion
	MaxAmountScale      = 18              // NUMERIC(38, 18)
)

// ValidateAccountID validates an account identifier.
func ValidateAccountID(id string) error {
	id = NormalizeAccountID(id)

	if id == "" {
		return ErrMissingAccountID
	}

	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidAccountID, MaxAccountIDLength)
	}

	return nil
}

// NormalizeAccountID trims an account identifier.
func NormalizeAccountID(id string) string {
	return strings.TrimSpace(id)
}

// NormalizeAccountIDs trims every identifier of a target list.
func NormalizeAccountIDs(ids []string) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = NormalizeAccountID(id)
	}
	return result
}

// NormalizeCurrency trims and upper-cases a currency identifier.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateCurrency validates a currency identifier.
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)

	if currency == "" {
		return ErrMissingCurrency
	}

	if len(currency) > MaxCurrencyIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidCurrency, MaxCurrencyIDLength)
	}

	for _, r := range currency {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
		}
	}

	return nil
}

// ValidateAmount validates an operation amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateTargets validates the target list of a transfer.
func ValidateTargets(targets []string) error {
	if len(targets) == 0 {
		return ErrNoTargetAccounts
	}

	if len(targets) > MaxTargetAccounts {
		return fmt.Errorf("%w: at most %d targets", ErrInvalidAccountID, MaxTargetAccounts)
	}

	for _, t := range targets {
		if err := ValidateAccountID(t); err != nil {
			return err
		}
	}

	return nil
}

// TruncateNote clips a note to the stored column width in characters.
func TruncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= MaxNoteLength {
		return note
	}

	return string(runes[:MaxNoteLength])
}

// ValidateDateRange validates optional history bounds.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidDateRange
	}

	return nil
}
