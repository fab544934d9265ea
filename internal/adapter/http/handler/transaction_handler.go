package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

// TransactionService is the coordinator surface the handler drives.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.TransactionResult, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.TransactionResult, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.TransactionResult, error)
}

// TransactionLookup resolves the entries of a committed transaction.
type TransactionLookup interface {
	GetTransaction(ctx context.Context, transactionID string) ([]*domain.HistoryEntry, error)
}

// TransactionHandler handles balance-changing operations.
type TransactionHandler struct {
	service TransactionService
	lookup  TransactionLookup
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service TransactionService, lookup TransactionLookup) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		lookup:  lookup,
	}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Deposit(r.Context(), req.ToDepositInput())
	h.respond(w, result, err)
}

// Withdraw debits an account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Withdraw(r.Context(), req.ToWithdrawInput())
	h.respond(w, result, err)
}

// Transfer moves an amount from one account to one or more targets.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Transfer(r.Context(), req.ToUseCaseInput())
	h.respond(w, result, err)
}

// Get lists the history entries written by one transaction.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.lookup.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &dto.TransactionDetailResponse{
		TransactionID: id,
		Entries:       dto.HistoryFromDomain(entries),
	})
}

func (h *TransactionHandler) respond(w http.ResponseWriter, result *domain.TransactionResult, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(result))
}
