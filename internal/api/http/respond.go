package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain sentinels onto HTTP status codes. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrScheduleNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrStorageConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrLimitReached),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrLoanNotOpen):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRateUnavailable):
		status, message = http.StatusServiceUnavailable, err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
