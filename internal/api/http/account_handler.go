package http

import (
	"net/http"
	"time"

	"kuzeybank-backend/internal/service"
)

// AccountHandler serves account overview, opening and statements
type AccountHandler struct {
	accounts service.AccountService
}

func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) MyAccount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	overview, err := h.accounts.Overview(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

type openAccountRequest struct {
	Currency string `json:"currency"`
}

func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req openAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.accounts.OpenAccount(r.Context(), claims.UserID, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Statement serves one account's history filtered by a named period or a
// custom start/end pair (RFC 3339 dates).
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	q := r.URL.Query()

	accountNumber := q.Get("account_number")
	if accountNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account_number is required"})
		return
	}

	var start, end *time.Time
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start date"})
			return
		}
		start = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid end date"})
			return
		}
		end = &t
	}

	statement, err := h.accounts.Statement(r.Context(), claims.UserID, accountNumber, q.Get("period"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}
