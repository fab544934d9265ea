package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iho/balanceledger/internal/adapter/http/dto"
	"github.com/iho/balanceledger/internal/adapter/repository/postgres"
	"github.com/iho/balanceledger/internal/domain"
)

// insufficientBalanceMessage is the message legacy clients match on.
const insufficientBalanceMessage = "Insufficient balance."

// retryAfterSeconds is advertised on responses the client may resubmit.
const retryAfterSeconds = "1"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes the response for an error returned by a use case.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)

	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, status, err.Error(), insufficientBalanceMessage)
	case status == http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeError(w, status, "transaction conflict", "retry the request")
	case status == http.StatusInternalServerError:
		// Store details stay in the logs.
		writeError(w, status, "internal error", "")
	default:
		writeError(w, status, err.Error(), "")
	}
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrMissingAccountID),
		errors.Is(err, domain.ErrMissingCurrency),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrNoTargetAccounts),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidTransactionID),
		errors.Is(err, domain.ErrEmptyPlan):
		return http.StatusBadRequest
	case postgres.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseTimeQuery parses an optional RFC 3339 or yyyy-mm-dd query parameter.
// A bare date used as an upper bound covers the whole day.
func parseTimeQuery(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return &t, nil
}
