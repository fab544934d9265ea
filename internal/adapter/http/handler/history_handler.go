package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/domain"
	"github.com/iho/balanceledger/internal/usecase"
)

// HistoryService lists history entries for an account.
type HistoryService interface {
	GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.HistoryEntry, error)
}

// HistoryHandler handles history queries.
type HistoryHandler struct {
	service HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List returns an account's history, oldest first. The account comes from
// the route or, on the legacy route, from the accountId query parameter.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		accountID = r.URL.Query().Get("accountId")
	}

	start, err := parseTimeQuery(r, "startDate", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate", err.Error())
		return
	}

	end, err := parseTimeQuery(r, "endDate", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate", err.Error())
		return
	}

	entries, err := h.service.GetHistory(r.Context(), usecase.GetHistoryInput{
		AccountID: accountID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromDomain(entries))
}
