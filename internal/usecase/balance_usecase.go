package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
)

// BalanceUseCase serves committed balance reads, optionally through a cache
// that TransactionUseCase invalidates on commit.
type BalanceUseCase struct {
	balanceRepo BalanceRepository
	cache       Cache
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(balanceRepo BalanceRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) *BalanceUseCase {
	if ttl <= 0 {
		ttl = DefaultBalanceCacheTTL
	}

	return &BalanceUseCase{
		balanceRepo: balanceRepo,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
	}
}

// GetBalance returns the committed balance, zero when the pair was never credited.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, accountID, currencyID string) (*domain.Balance, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(currencyID); err != nil {
		return nil, err
	}

	accountID = domain.NormalizeAccountID(accountID)
	currencyID = domain.NormalizeCurrency(currencyID)
	key := balanceCacheKey(accountID, currencyID)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
			if amount, err := decimal.NewFromString(string(cached)); err == nil {
				return &domain.Balance{AccountID: accountID, CurrencyID: currencyID, Amount: amount}, nil
			}
		}
	}

	amount, err := uc.balanceRepo.Get(ctx, accountID, currencyID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, []byte(amount.String()), uc.ttl); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("failed to cache balance")
		}
	}

	return &domain.Balance{AccountID: accountID, CurrencyID: currencyID, Amount: amount}, nil
}

// ListBalances returns every currency balance held by an account.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, accountID string) ([]*domain.Balance, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	accountID = domain.NormalizeAccountID(accountID)

	balances, err := uc.balanceRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if balances == nil {
		balances = []*domain.Balance{}
	}

	return balances, nil
}

func balanceCacheKey(accountID, currencyID string) string {
	return "balance:" + accountID + ":" + currencyID
}
