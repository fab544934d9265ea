package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCounterID is the counter row that seeds transaction identifiers.
	DefaultCounterID = "001-COU"

	transactionIDDateLayout = "20060102"
	transactionIDBranch     = "00000"
)

// Notes written by transfers.
const (
	NoteTransferDebit  = "TRANSFER"
	NoteTransferCredit = "Transfer received"
)

// OperationKind names a logical financial operation.
type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationTransfer OperationKind = "transfer"
)

// Stage is a step in the lifecycle of one atomic unit of work.
//
//	started -> sequence_assigned -> balances_adjusted -> history_recorded -> committed
//
// Any stage may move to rolled_back; there is no partial commit.
type Stage string

const (
	StageStarted          Stage = "started"
	StageSequenceAssigned Stage = "sequence_assigned"
	StageBalancesAdjusted Stage = "balances_adjusted"
	StageHistoryRecorded  Stage = "history_recorded"
	StageCommitted        Stage = "committed"
	StageRolledBack       Stage = "rolled_back"
)

// FormatTransactionID builds the human readable identifier for counter value n
// issued on date.
func FormatTransactionID(date time.Time, n int64) string {
	return fmt.Sprintf("%s-%s.%05d", date.Format(transactionIDDateLayout), transactionIDBranch, n)
}

// ParseTransactionID splits an identifier into its date and counter parts.
func ParseTransactionID(id string) (time.Time, int64, error) {
	datePart, rest, ok := strings.Cut(id, "-")
	if !ok {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTransactionID, id)
	}

	date, err := time.Parse(transactionIDDateLayout, datePart)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTransactionID, id)
	}

	branch, counterPart, ok := strings.Cut(rest, ".")
	if !ok || branch != transactionIDBranch || len(counterPart) < 5 {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTransactionID, id)
	}

	n, err := strconv.ParseInt(counterPart, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidTransactionID, id)
	}

	return date, n, nil
}

// Adjustment is one signed balance change planned within an operation.
type Adjustment struct {
	AccountID  string
	CurrencyID string
	Note       string
	Delta      decimal.Decimal
}

// IsDebit reports whether the adjustment lowers the balance and therefore
// needs a sufficiency check.
func (a Adjustment) IsDebit() bool {
	return a.Delta.IsNegative()
}

// Plan is the ordered list of adjustments that make up one logical operation.
// All adjustments share one transaction identifier and one unit of work.
type Plan struct {
	Kind        OperationKind
	Adjustments []Adjustment
}

// Validate checks the plan is structurally complete.
func (p *Plan) Validate() error {
	if len(p.Adjustments) == 0 {
		return ErrEmptyPlan
	}

	for _, adj := range p.Adjustments {
		if strings.TrimSpace(adj.AccountID) == "" {
			return ErrMissingAccountID
		}

		if strings.TrimSpace(adj.CurrencyID) == "" {
			return ErrMissingCurrency
		}
	}

	return nil
}

// Keys returns the distinct balance keys touched by the plan in plan order.
func (p *Plan) Keys() []BalanceKey {
	seen := make(map[BalanceKey]bool)

	var keys []BalanceKey
	for _, adj := range p.Adjustments {
		k := BalanceKey{AccountID: adj.AccountID, CurrencyID: adj.CurrencyID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	return keys
}

// Net returns the sum of all deltas in the plan.
func (p *Plan) Net() decimal.Decimal {
	total := decimal.Zero
	for _, adj := range p.Adjustments {
		total = total.Add(adj.Delta)
	}

	return total
}

// NewDepositPlan credits amount to one balance.
func NewDepositPlan(accountID, currencyID string, amount decimal.Decimal, note string) Plan {
	return Plan{
		Kind: OperationDeposit,
		Adjustments: []Adjustment{
			{AccountID: accountID, CurrencyID: currencyID, Delta: amount, Note: note},
		},
	}
}

// NewWithdrawPlan debits amount from one balance.
func NewWithdrawPlan(accountID, currencyID string, amount decimal.Decimal, note string) Plan {
	return Plan{
		Kind: OperationWithdraw,
		Adjustments: []Adjustment{
			{AccountID: accountID, CurrencyID: currencyID, Delta: amount.Neg(), Note: note},
		},
	}
}

// NewTransferPlan debits amount from the source and credits every target
// with the share computed by SplitTransfer.
func NewTransferPlan(sourceAccountID, currencyID string, amount decimal.Decimal, targetAccountIDs []string) (Plan, error) {
	share, err := SplitTransfer(amount, len(targetAccountIDs))
	if err != nil {
		return Plan{}, err
	}

	adjustments := make([]Adjustment, 0, len(targetAccountIDs)+1)
	adjustments = append(adjustments, Adjustment{
		AccountID:  sourceAccountID,
		CurrencyID: currencyID,
		Delta:      amount.Neg(),
		Note:       NoteTransferDebit,
	})

	for _, target := range targetAccountIDs {
		adjustments = append(adjustments, Adjustment{
			AccountID:  target,
			CurrencyID: currencyID,
			Delta:      share,
			Note:       NoteTransferCredit,
		})
	}

	return Plan{Kind: OperationTransfer, Adjustments: adjustments}, nil
}

// TransactionResult describes a committed operation.
type TransactionResult struct {
	CommittedAt   time.Time
	TransactionID string
	Kind          OperationKind
	Entries       []*HistoryEntry
}
