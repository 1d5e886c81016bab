package http

import (
	"net/http"

	"kuzeybank-backend/internal/rates"
)

// RatesHandler serves the current quote board
type RatesHandler struct {
	provider rates.Provider
}

func NewRatesHandler(provider rates.Provider) *RatesHandler {
	return &RatesHandler{provider: provider}
}

func (h *RatesHandler) List(w http.ResponseWriter, r *http.Request) {
	allRates, err := h.provider.GetAllRates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allRates)
}
