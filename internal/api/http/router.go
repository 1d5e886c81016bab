package http

import (
	"net/http"

	"kuzeybank-backend/internal/rates"
	"kuzeybank-backend/internal/security"
	"kuzeybank-backend/internal/service"

	"github.com/gorilla/mux"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Account  *AccountHandler
	Transfer *TransferHandler
	Schedule *ScheduleHandler
	Loan     *LoanHandler
	Card     *CardHandler
	Rates    *RatesHandler
	Admin    *AdminHandler
}

// NewHandlers wires all handlers from the service layer.
func NewHandlers(
	auth service.AuthService,
	users service.UserService,
	accounts service.AccountService,
	transfers service.TransferService,
	schedules service.ScheduleService,
	loans service.LoanService,
	cards service.CardService,
	admin service.AdminService,
	ratesProvider rates.Provider,
) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(auth),
		User:     NewUserHandler(users),
		Account:  NewAccountHandler(accounts),
		Transfer: NewTransferHandler(transfers),
		Schedule: NewScheduleHandler(schedules),
		Loan:     NewLoanHandler(loans),
		Card:     NewCardHandler(cards),
		Rates:    NewRatesHandler(ratesProvider),
		Admin:    NewAdminHandler(admin, loans, cards),
	}
}

// NewRouter mounts the public, customer and admin route trees.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	authMiddleware := NewAuthMiddleware(tokens)

	// Public routes
	router.HandleFunc("/api/auth/login", h.Auth.Login).Methods(http.MethodPost)

	// Customer routes
	banking := router.PathPrefix("/api/banking").Subrouter()
	banking.Use(mux.MiddlewareFunc(authMiddleware.Authenticate))

	banking.HandleFunc("/my-account", h.Account.MyAccount).Methods(http.MethodGet)
	banking.HandleFunc("/open-new-account", h.Account.OpenAccount).Methods(http.MethodPost)
	banking.HandleFunc("/statement", h.Account.Statement).Methods(http.MethodGet)
	banking.HandleFunc("/transfer", h.Transfer.Transfer).Methods(http.MethodPost)
	banking.HandleFunc("/internal-transfer", h.Transfer.Exchange).Methods(http.MethodPost)
	banking.HandleFunc("/rates", h.Rates.List).Methods(http.MethodGet)

	banking.HandleFunc("/scheduled-transfers", h.Schedule.List).Methods(http.MethodGet)
	banking.HandleFunc("/scheduled-transfers", h.Schedule.Create).Methods(http.MethodPost)
	banking.HandleFunc("/scheduled-transfers/{id}", h.Schedule.Update).Methods(http.MethodPut)
	banking.HandleFunc("/scheduled-transfers/{id}", h.Schedule.Delete).Methods(http.MethodDelete)

	banking.HandleFunc("/apply-loan", h.Loan.Apply).Methods(http.MethodPost)
	banking.HandleFunc("/my-loans", h.Loan.ListMine).Methods(http.MethodGet)
	banking.HandleFunc("/repay-loan/{id}", h.Loan.Repay).Methods(http.MethodPost)

	banking.HandleFunc("/my-cards", h.Card.ListMine).Methods(http.MethodGet)
	banking.HandleFunc("/cards", h.Card.Create).Methods(http.MethodPost)

	banking.HandleFunc("/profile", h.User.GetProfile).Methods(http.MethodGet)
	banking.HandleFunc("/profile", h.User.UpdateProfile).Methods(http.MethodPut)

	// Admin routes
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(authMiddleware.Authenticate), mux.MiddlewareFunc(RequireAdmin))

	admin.HandleFunc("/users", h.Admin.AddUser).Methods(http.MethodPost)
	admin.HandleFunc("/teller", h.Admin.TellerTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/transactions", h.Admin.ListTransactions).Methods(http.MethodGet)
	admin.HandleFunc("/logs", h.Admin.ListLogs).Methods(http.MethodGet)
	admin.HandleFunc("/financial-report", h.Admin.FinancialReport).Methods(http.MethodGet)

	admin.HandleFunc("/loans", h.Admin.ListLoans).Methods(http.MethodGet)
	admin.HandleFunc("/loans/{id}/process", h.Admin.ProcessLoan).Methods(http.MethodPost)
	admin.HandleFunc("/card-applications", h.Admin.ListCardApplications).Methods(http.MethodGet)
	admin.HandleFunc("/cards/{id}/process", h.Admin.ProcessCard).Methods(http.MethodPost)

	return router
}
