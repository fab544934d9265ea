package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
)

// Outcome classifies how a coordinated operation ended.
type Outcome string

const (
	OutcomeCommitted           Outcome = "committed"
	OutcomeInsufficientBalance Outcome = "insufficient_balance"
	OutcomeInvalid             Outcome = "invalid"
	OutcomeConfigurationFault  Outcome = "configuration_fault"
	OutcomeStoreFault          Outcome = "store_fault"
)

// ClassifyOutcome maps an operation error to its outcome.
func ClassifyOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrInsufficientBalance):
		return OutcomeInsufficientBalance
	case errors.Is(err, domain.ErrCounterNotProvisioned):
		return OutcomeConfigurationFault
	case isValidationError(err):
		return OutcomeInvalid
	default:
		return OutcomeStoreFault
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAmount,
		domain.ErrAmountTooLarge,
		domain.ErrMissingAccountID,
		domain.ErrMissingCurrency,
		domain.ErrInvalidAccountID,
		domain.ErrInvalidCurrency,
		domain.ErrNoTargetAccounts,
		domain.ErrEmptyPlan,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// TransactionUseCaseConfig holds dependencies for TransactionUseCase.
type TransactionUseCaseConfig struct {
	TxManager   TransactionManager
	Sequence    *SequenceGenerator
	BalanceRepo BalanceRepository
	HistoryRepo HistoryRepository
	IDGen       IDGenerator
	Clock       Clock
	Cache       Cache             // optional, invalidated after commit
	Recorder    OperationRecorder // optional
	Logger      *zerolog.Logger   // optional
	Timeout     time.Duration     // unit of work deadline
}

// TransactionUseCase coordinates deposits, withdrawals and transfers. Every
// operation runs as exactly one database transaction.
type TransactionUseCase struct {
	txManager   TransactionManager
	sequence    *SequenceGenerator
	balanceRepo BalanceRepository
	historyRepo HistoryRepository
	idGen       IDGenerator
	clock       Clock
	cache       Cache
	recorder    OperationRecorder
	logger      zerolog.Logger
	timeout     time.Duration
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(cfg TransactionUseCaseConfig) *TransactionUseCase {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTransactionTimeout
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &TransactionUseCase{
		txManager:   cfg.TxManager,
		sequence:    cfg.Sequence,
		balanceRepo: cfg.BalanceRepo,
		historyRepo: cfg.HistoryRepo,
		idGen:       cfg.IDGen,
		clock:       cfg.Clock,
		cache:       cfg.Cache,
		recorder:    cfg.Recorder,
		logger:      logger.With().Str("component", "transaction_coordinator").Logger(),
		timeout:     cfg.Timeout,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID  string
	CurrencyID string
	Note       string
	Amount     decimal.Decimal
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID  string
	CurrencyID string
	Note       string
	Amount     decimal.Decimal
}

// TransferInput represents input for a transfer to one or more targets.
type TransferInput struct {
	SourceAccountID  string
	CurrencyID       string
	TargetAccountIDs []string
	Amount           decimal.Decimal
}

// Deposit credits an account.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.TransactionResult, error) {
	if err := validateSingle(input.AccountID, input.CurrencyID, input.Amount); err != nil {
		return nil, uc.reject(domain.OperationDeposit, err)
	}

	plan := domain.NewDepositPlan(domain.NormalizeAccountID(input.AccountID), domain.NormalizeCurrency(input.CurrencyID), input.Amount, input.Note)

	return uc.Execute(ctx, plan)
}

// Withdraw debits an account, rejecting with domain.ErrInsufficientBalance
// when the resulting balance would be negative.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.TransactionResult, error) {
	if err := validateSingle(input.AccountID, input.CurrencyID, input.Amount); err != nil {
		return nil, uc.reject(domain.OperationWithdraw, err)
	}

	plan := domain.NewWithdrawPlan(domain.NormalizeAccountID(input.AccountID), domain.NormalizeCurrency(input.CurrencyID), input.Amount, input.Note)

	return uc.Execute(ctx, plan)
}

// Transfer debits the source by the full amount and credits each target with
// an equal share under one transaction identifier.
func (uc *TransactionUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.TransactionResult, error) {
	if err := validateSingle(input.SourceAccountID, input.CurrencyID, input.Amount); err != nil {
		return nil, uc.reject(domain.OperationTransfer, err)
	}

	if err := domain.ValidateTargets(input.TargetAccountIDs); err != nil {
		return nil, uc.reject(domain.OperationTransfer, err)
	}

	plan, err := domain.NewTransferPlan(
		domain.NormalizeAccountID(input.SourceAccountID),
		domain.NormalizeCurrency(input.CurrencyID),
		input.Amount,
		domain.NormalizeAccountIDs(input.TargetAccountIDs),
	)
	if err != nil {
		return nil, uc.reject(domain.OperationTransfer, err)
	}

	return uc.Execute(ctx, plan)
}

// Execute applies a plan as one atomic unit: assign a transaction ID, apply
// every adjustment (checking debited balances after the write), append one
// history entry per adjustment and commit. Any failure rolls the whole unit
// back. Nothing is retried.
func (uc *TransactionUseCase) Execute(ctx context.Context, plan domain.Plan) (*domain.TransactionResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, uc.reject(plan.Kind, err)
	}

	start := time.Now()
	stage := domain.StageStarted

	// Once begun, the unit runs to commit or rollback regardless of the caller.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
	defer cancel()

	result, err := uc.run(ctx, plan, &stage)

	uc.observe(plan, result, stage, err, time.Since(start))

	if err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, plan.Keys())

	return result, nil
}

func (uc *TransactionUseCase) run(ctx context.Context, plan domain.Plan, stage *domain.Stage) (*domain.TransactionResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := uc.clock.Now().UTC()

	transactionID, err := uc.sequence.NextTransactionID(ctx, tx, now)
	if err != nil {
		return nil, err
	}
	*stage = domain.StageSequenceAssigned

	for _, adj := range plan.Adjustments {
		if err := uc.balanceRepo.Adjust(ctx, tx, adj.AccountID, adj.CurrencyID, adj.Delta); err != nil {
			return nil, err
		}

		if !adj.IsDebit() {
			continue
		}

		balance, err := uc.balanceRepo.GetTx(ctx, tx, adj.AccountID, adj.CurrencyID)
		if err != nil {
			return nil, err
		}

		if balance.IsNegative() {
			return nil, fmt.Errorf("%w: account %s currency %s", domain.ErrInsufficientBalance, adj.AccountID, adj.CurrencyID)
		}
	}
	*stage = domain.StageBalancesAdjusted

	entries := make([]*domain.HistoryEntry, 0, len(plan.Adjustments))
	for _, adj := range plan.Adjustments {
		entry := &domain.HistoryEntry{
			EntryID:       uc.idGen.Generate(),
			TransactionID: transactionID,
			AccountID:     adj.AccountID,
			CurrencyID:    adj.CurrencyID,
			Amount:        adj.Delta,
			Note:          domain.TruncateNote(adj.Note),
			Timestamp:     now,
		}

		if err := uc.historyRepo.Append(ctx, tx, entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}
	*stage = domain.StageHistoryRecorded

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	*stage = domain.StageCommitted

	return &domain.TransactionResult{
		TransactionID: transactionID,
		Kind:          plan.Kind,
		Entries:       entries,
		CommittedAt:   now,
	}, nil
}

func (uc *TransactionUseCase) observe(plan domain.Plan, result *domain.TransactionResult, stage domain.Stage, err error, d time.Duration) {
	outcome := ClassifyOutcome(err)

	if uc.recorder != nil {
		uc.recorder.RecordOperation(plan.Kind, outcome, stage, d)
		if err == nil {
			uc.recorder.RecordAmount(plan.Kind, plan.Adjustments[0].Delta.Abs())
		}
	}

	switch outcome {
	case OutcomeCommitted:
		uc.logger.Info().
			Str("operation", string(plan.Kind)).
			Str("transaction_id", result.TransactionID).
			Int("entries", len(result.Entries)).
			Dur("duration", d).
			Msg("transaction committed")
	case OutcomeInsufficientBalance:
		uc.logger.Warn().
			Err(err).
			Str("operation", string(plan.Kind)).
			Str("stage", string(stage)).
			Msg("transaction rolled back")
	default:
		uc.logger.Error().
			Err(err).
			Str("operation", string(plan.Kind)).
			Str("stage", string(stage)).
			Str("outcome", string(outcome)).
			Msg("transaction rolled back")
	}
}

// reject records an operation refused before a unit of work was opened.
func (uc *TransactionUseCase) reject(kind domain.OperationKind, err error) error {
	if uc.recorder != nil {
		uc.recorder.RecordOperation(kind, ClassifyOutcome(err), domain.StageStarted, 0)
	}

	return err
}

func (uc *TransactionUseCase) invalidateBalances(ctx context.Context, keys []domain.BalanceKey) {
	if uc.cache == nil || len(keys) == 0 {
		return
	}

	cacheKeys := make([]string, len(keys))
	for i, k := range keys {
		cacheKeys[i] = balanceCacheKey(k.AccountID, k.CurrencyID)
	}

	if err := uc.cache.Delete(ctx, cacheKeys...); err != nil {
		uc.logger.Warn().Err(err).Strs("keys", cacheKeys).Msg("failed to invalidate balance cache")
	}
}

func validateSingle(accountID, currencyID string, amount decimal.Decimal) error {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(currencyID); err != nil {
		return err
	}

	return domain.ValidateAmount(amount)
}
