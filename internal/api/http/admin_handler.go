package http

import (
	"net/http"
	"strconv"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/service"

	"github.com/shopspring/decimal"
)

// AdminHandler serves the back-office surface: user management, teller
// operations, loan and card processing, reports and audit logs.
type AdminHandler struct {
	admin service.AdminService
	loans service.LoanService
	cards service.CardService
}

func NewAdminHandler(admin service.AdminService, loans service.LoanService, cards service.CardService) *AdminHandler {
	return &AdminHandler{admin: admin, loans: loans, cards: cards}
}

type addUserRequest struct {
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Role           domain.Role     `json:"role"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleCustomer
	}

	user, err := h.admin.AddUser(r.Context(), req.Username, req.Password, req.FullName, req.Email, req.Role, req.InitialBalance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type tellerRequest struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"` // "deposit" or "withdraw"
}

func (h *AdminHandler) TellerTransaction(w http.ResponseWriter, r *http.Request) {
	var req tellerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type != "deposit" && req.Type != "withdraw" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type must be deposit or withdraw"})
		return
	}

	account, err := h.admin.TellerTransaction(r.Context(), req.AccountNumber, req.Amount, req.Type == "deposit")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	views, err := h.admin.ListTransactions(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.admin.ListLogs(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.admin.FinancialReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AdminHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

type processRequest struct {
	Approve       bool            `json:"approve"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func (h *AdminHandler) ProcessLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req processRequest
	if !decodeBody(w, r, &req) {
		return
	}

	loan, err := h.loans.Process(r.Context(), id, req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *AdminHandler) ListCardApplications(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListApplications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *AdminHandler) ProcessCard(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req processRequest
	if !decodeBody(w, r, &req) {
		return
	}

	card, err := h.cards.Process(r.Context(), claims.UserID, id, req.Approve, req.ApprovedLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func queryLimit(r *http.Request) int32 {
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	if err != nil {
		return 0
	}
	return int32(limit)
}
