package http

import (
	"net/http"

	"kuzeybank-backend/internal/service"

	"github.com/shopspring/decimal"
)

// LoanHandler serves customer loan applications and repayments
type LoanHandler struct {
	loans service.LoanService
}

func NewLoanHandler(loans service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type loanApplyRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int32           `json:"term_months"`
}

func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req loanApplyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	loan, err := h.loans.Apply(r.Context(), claims.UserID, req.Amount, req.TermMonths)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	loans, err := h.loans.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// Repay pays one installment (or the smaller remaining balance) from the
// caller's base-currency account.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	loan, err := h.loans.Repay(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}
