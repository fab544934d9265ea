package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

type historyServiceStub struct {
	fn func(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.HistoryEntry, error)
}

func (s *historyServiceStub) GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.HistoryEntry, error) {
	return s.fn(ctx, input)
}

func TestHistoryHandler_List(t *testing.T) {
	var captured usecase.GetHistoryInput
	handler := NewHistoryHandler(&historyServiceStub{
		fn: func(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.HistoryEntry, error) {
			captured = input
			return []*domain.HistoryEntry{
				{TransactionID: "20240307-00000.00001", AccountID: input.AccountID, CurrencyID: "USD", Amount: decimal.NewFromInt(5)},
			}, nil
		},
	})

	r := chi.NewRouter()
	r.Get("/accounts/{id}/history", handler.List)
	r.Get("/history", handler.List)

	t.Run("account from route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acc-1/history?startDate=2024-03-01&endDate=2024-03-07", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.AccountID != "acc-1" {
			t.Fatalf("expected acc-1, got %q", captured.AccountID)
		}
		if captured.StartDate == nil || !captured.StartDate.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected start %v", captured.StartDate)
		}
		if captured.EndDate == nil || captured.EndDate.Day() != 7 || captured.EndDate.Hour() != 23 {
			t.Fatalf("expected end of day 7 March, got %v", captured.EndDate)
		}

		var resp []dto.HistoryEntryResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(resp) != 1 || resp[0].AccountID != "acc-1" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("account from legacy query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?accountId=acc-2", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.AccountID != "acc-2" || captured.StartDate != nil || captured.EndDate != nil {
			t.Fatalf("unexpected input %+v", captured)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?accountId=acc-2&endDate=tomorrow", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHistoryHandler_List_InvalidRange(t *testing.T) {
	handler := NewHistoryHandler(&historyServiceStub{
		fn: func(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.HistoryEntry, error) {
			return nil, domain.ErrInvalidDateRange
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/history?accountId=a&startDate=2024-03-08&endDate=2024-03-01", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
