package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/domain"
)

// BalanceService reads committed balances.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID, currencyID string) (*domain.Balance, error)
	ListBalances(ctx context.Context, accountID string) ([]*domain.Balance, error)
}

// BalanceHandler handles balance queries.
type BalanceHandler struct {
	service BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(service BalanceService) *BalanceHandler {
	return &BalanceHandler{service: service}
}

// List returns every balance held by an account.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.ListBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Get returns one balance. Unknown pairs read as zero.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetBalance(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "currency"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
