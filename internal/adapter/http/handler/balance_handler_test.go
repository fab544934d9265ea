package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/domain"
)

type balanceServiceStub struct {
	balances map[string]decimal.Decimal
	err      error
}

func (s *balanceServiceStub) GetBalance(ctx context.Context, accountID, currencyID string) (*domain.Balance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Balance{AccountID: accountID, CurrencyID: currencyID, Amount: s.balances[currencyID]}, nil
}

func (s *balanceServiceStub) ListBalances(ctx context.Context, accountID string) ([]*domain.Balance, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []*domain.Balance
	for cur, amount := range s.balances {
		result = append(result, &domain.Balance{AccountID: accountID, CurrencyID: cur, Amount: amount})
	}
	return result, nil
}

func newBalanceRouter(stub *balanceServiceStub) http.Handler {
	handler := NewBalanceHandler(stub)
	r := chi.NewRouter()
	r.Get("/accounts/{id}/balances", handler.List)
	r.Get("/accounts/{id}/balances/{currency}", handler.Get)
	return r
}

func TestBalanceHandler_Get(t *testing.T) {
	r := newBalanceRouter(&balanceServiceStub{balances: map[string]decimal.Decimal{"USD": decimal.NewFromInt(70)}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances/USD", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.AccountID != "acc-1" || !resp.Amount.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_List(t *testing.T) {
	r := newBalanceRouter(&balanceServiceStub{balances: map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.NewFromInt(2),
	}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.BalanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(resp))
	}
}

func TestBalanceHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid currency", fmt.Errorf("%w: $$", domain.ErrInvalidCurrency), http.StatusBadRequest},
		{"store failure", fmt.Errorf("get balance: %w", domain.ErrStoreFault), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBalanceRouter(&balanceServiceStub{err: tt.err})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balances/USD", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
