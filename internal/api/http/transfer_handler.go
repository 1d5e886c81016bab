package http

import (
	"net/http"

	"kuzeybank-backend/internal/service"

	"github.com/shopspring/decimal"
)

// TransferHandler serves customer transfers and currency exchanges
type TransferHandler struct {
	transfers service.TransferService
}

func NewTransferHandler(transfers service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type transferRequest struct {
	FromAccountNumber string          `json:"from_account_number"`
	ToAccountNumber   string          `json:"to_account_number"`
	Amount            decimal.Decimal `json:"amount"`
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.transfers.Transfer(r.Context(), claims.UserID, req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Exchange moves money between two of the caller's own accounts, converting
// between currencies at the live rate.
func (h *TransferHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.transfers.Exchange(r.Context(), claims.UserID, req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
