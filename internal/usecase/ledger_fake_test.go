package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

// memLedger is an in-memory store with one writer at a time, standing in for
// the row locks Postgres takes on the counter and balance rows.
type memLedger struct {
	unit sync.Mutex

	data     sync.RWMutex
	counters map[string]int64
	balances map[domain.BalanceKey]decimal.Decimal
	history  []*domain.HistoryEntry

	failAppend error
	commits    atomic.Int32
	rollbacks  atomic.Int32
}

func newMemLedger() *memLedger {
	return &memLedger{
		counters: map[string]int64{domain.DefaultCounterID: 0},
		balances: make(map[domain.BalanceKey]decimal.Decimal),
	}
}

type memTx struct {
	ledger   *memLedger
	counters map[string]int64
	balances map[domain.BalanceKey]decimal.Decimal
	history  []*domain.HistoryEntry
	done     bool
}

func (l *memLedger) Begin(context.Context) (usecase.Transaction, error) {
	l.unit.Lock()

	l.data.RLock()
	defer l.data.RUnlock()

	tx := &memTx{
		ledger:   l,
		counters: make(map[string]int64, len(l.counters)),
		balances: make(map[domain.BalanceKey]decimal.Decimal, len(l.balances)),
	}
	for k, v := range l.counters {
		tx.counters[k] = v
	}
	for k, v := range l.balances {
		tx.balances[k] = v
	}

	return tx, nil
}

func (tx *memTx) Commit(context.Context) error {
	if tx.done {
		return errors.New("tx closed")
	}
	tx.done = true

	l := tx.ledger
	l.data.Lock()
	l.counters = tx.counters
	l.balances = tx.balances
	l.history = append(l.history, tx.history...)
	l.data.Unlock()

	l.commits.Add(1)
	l.unit.Unlock()

	return nil
}

func (tx *memTx) Rollback(context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.ledger.rollbacks.Add(1)
	tx.ledger.unit.Unlock()

	return nil
}

func asMemTx(tx usecase.Transaction) *memTx {
	return tx.(*memTx)
}

// CounterRepository

func (l *memLedger) GetForUpdate(_ context.Context, tx usecase.Transaction, counterID string) (int64, error) {
	v, ok := asMemTx(tx).counters[counterID]
	if !ok {
		return 0, domain.ErrCounterNotProvisioned
	}
	return v, nil
}

func (l *memLedger) Set(_ context.Context, tx usecase.Transaction, counterID string, value int64) error {
	asMemTx(tx).counters[counterID] = value
	return nil
}

func (l *memLedger) Get(_ context.Context, counterID string) (int64, error) {
	l.data.RLock()
	defer l.data.RUnlock()

	v, ok := l.counters[counterID]
	if !ok {
		return 0, domain.ErrCounterNotProvisioned
	}
	return v, nil
}

// BalanceRepository

type memBalances struct{ *memLedger }

func (b memBalances) Adjust(_ context.Context, tx usecase.Transaction, accountID, currencyID string, delta decimal.Decimal) error {
	t := asMemTx(tx)
	k := domain.BalanceKey{AccountID: accountID, CurrencyID: currencyID}
	t.balances[k] = t.balances[k].Add(delta)
	return nil
}

func (b memBalances) GetTx(_ context.Context, tx usecase.Transaction, accountID, currencyID string) (decimal.Decimal, error) {
	return asMemTx(tx).balances[domain.BalanceKey{AccountID: accountID, CurrencyID: currencyID}], nil
}

func (b memBalances) Get(_ context.Context, accountID, currencyID string) (decimal.Decimal, error) {
	b.data.RLock()
	defer b.data.RUnlock()
	return b.balances[domain.BalanceKey{AccountID: accountID, CurrencyID: currencyID}], nil
}

func (b memBalances) ListByAccount(_ context.Context, accountID string) ([]*domain.Balance, error) {
	b.data.RLock()
	defer b.data.RUnlock()

	var out []*domain.Balance
	for k, v := range b.balances {
		if k.AccountID == accountID {
			out = append(out, &domain.Balance{AccountID: k.AccountID, CurrencyID: k.CurrencyID, Amount: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyID < out[j].CurrencyID })
	return out, nil
}

// HistoryRepository

type memHistory struct{ *memLedger }

func (h memHistory) Append(_ context.Context, tx usecase.Transaction, entry *domain.HistoryEntry) error {
	if h.failAppend != nil {
		return h.failAppend
	}
	t := asMemTx(tx)
	t.history = append(t.history, entry)
	return nil
}

func (h memHistory) List(_ context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error) {
	h.data.RLock()
	defer h.data.RUnlock()

	var out []*domain.HistoryEntry
	for _, e := range h.history {
		if e.AccountID != filter.AccountID {
			continue
		}
		if filter.Start != nil && e.Timestamp.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && e.Timestamp.After(*filter.End) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (h memHistory) ListByTransaction(_ context.Context, transactionID string) ([]*domain.HistoryEntry, error) {
	h.data.RLock()
	defer h.data.RUnlock()

	var out []*domain.HistoryEntry
	for _, e := range h.history {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// LedgerRepository

type memLedgerChecks struct{ *memLedger }

func (c memLedgerChecks) Totals(context.Context) (decimal.Decimal, decimal.Decimal, error) {
	c.data.RLock()
	defer c.data.RUnlock()

	totalBalance := decimal.Zero
	for _, v := range c.balances {
		totalBalance = totalBalance.Add(v)
	}
	totalHistory := decimal.Zero
	for _, e := range c.history {
		totalHistory = totalHistory.Add(e.Amount)
	}
	return totalBalance, totalHistory, nil
}

func (c memLedgerChecks) FindDiscrepancies(context.Context) ([]*usecase.Discrepancy, error) {
	c.data.RLock()
	defer c.data.RUnlock()

	sums := make(map[domain.BalanceKey]decimal.Decimal)
	for _, e := range c.history {
		k := domain.BalanceKey{AccountID: e.AccountID, CurrencyID: e.CurrencyID}
		sums[k] = sums[k].Add(e.Amount)
	}

	var out []*usecase.Discrepancy
	for k, v := range c.balances {
		if !v.Equal(sums[k]) || v.IsNegative() {
			out = append(out, &usecase.Discrepancy{
				AccountID:         k.AccountID,
				CurrencyID:        k.CurrencyID,
				RecordedBalance:   v,
				CalculatedBalance: sums[k],
			})
		}
	}
	return out, nil
}

func (l *memLedger) balance(accountID, currencyID string) decimal.Decimal {
	amount, _ := memBalances{l}.Get(context.Background(), accountID, currencyID)
	return amount
}

func (l *memLedger) historyFor(accountID string) []*domain.HistoryEntry {
	entries, _ := memHistory{l}.List(context.Background(), domain.HistoryFilter{AccountID: accountID})
	return entries
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n atomic.Int64 }

func (g *seqIDGen) Generate() string {
	return fmt.Sprintf("entry-%06d", g.n.Add(1))
}

var testNow = time.Date(2024, time.March, 7, 10, 30, 0, 0, time.UTC)

func newMemCoordinator(l *memLedger) *usecase.TransactionUseCase {
	return usecase.NewTransactionUseCase(usecase.TransactionUseCaseConfig{
		TxManager:   l,
		Sequence:    usecase.NewSequenceGenerator(l, domain.DefaultCounterID, time.UTC),
		BalanceRepo: memBalances{l},
		HistoryRepo: memHistory{l},
		IDGen:       &seqIDGen{},
		Clock:       fixedClock{t: testNow},
	})
}
