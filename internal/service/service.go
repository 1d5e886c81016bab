package service

import (
	"context"
	"time"

	"kuzeybank-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type AuthService interface {
	// Login verifies credentials and returns the user with a signed access token.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, fullName, email, phone, address string) error
}

// TransferService is the transfer engine: every money movement in the
// system funnels through Execute, which either mutates both balances and
// appends exactly one ledger record, or changes nothing.
type TransferService interface {
	Execute(ctx context.Context, src, dst domain.Leg, amount decimal.Decimal, kind domain.TransactionKind, details string) (*domain.TransactionRecord, error)
	// ExecuteScheduled runs one due occurrence of an instruction: the
	// movement and the date advance commit in a single transaction.
	ExecuteScheduled(ctx context.Context, instr *domain.ScheduledTransfer, next time.Time, stillActive bool) (*domain.TransactionRecord, error)

	Transfer(ctx context.Context, userID int32, fromNumber, toNumber string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	Exchange(ctx context.Context, userID int32, fromNumber, toNumber string, amount decimal.Decimal) (*domain.TransactionRecord, error)
}

type AccountService interface {
	Overview(ctx context.Context, userID int32) (*AccountOverview, error)
	OpenAccount(ctx context.Context, userID int32, currency string) (*domain.Account, error)
	Statement(ctx context.Context, userID int32, accountNumber, period string, start, end *time.Time) (*Statement, error)
}

type ScheduleInput struct {
	FromAccountNumber string          `json:"from_account_number"`
	ToAccountNumber   string          `json:"to_account_number"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Frequency         domain.Frequency `json:"frequency"`
	DayOfMonth        *int            `json:"day_of_month"`
	DayOfWeek         *int            `json:"day_of_week"`
	EndDate           *time.Time      `json:"end_date"`
	IsActive          *bool           `json:"is_active"`
}

// TickSummary reports what one scheduler pass did.
type TickSummary struct {
	Due         int `json:"due"`
	Executed    int `json:"executed"`
	Skipped     int `json:"skipped"`
	Deactivated int `json:"deactivated"`
	Failed      int `json:"failed"`
}

// ScheduleService maintains recurring transfer instructions and executes
// the due ones on each tick.
type ScheduleService interface {
	Create(ctx context.Context, userID int32, input ScheduleInput) (*domain.ScheduledTransfer, error)
	List(ctx context.Context, userID int32) ([]ScheduleView, error)
	Update(ctx context.Context, userID, id int32, input ScheduleInput) (*domain.ScheduledTransfer, error)
	Delete(ctx context.Context, userID, id int32) error
	// RunTick executes every due instruction once. Failures are isolated
	// per instruction and never abort the rest of the tick.
	RunTick(ctx context.Context, now time.Time) (TickSummary, error)
}

type LoanService interface {
	Apply(ctx context.Context, userID int32, amount decimal.Decimal, termMonths int32) (*domain.LoanApplication, error)
	ListMine(ctx context.Context, userID int32) ([]domain.LoanApplication, error)
	ListAll(ctx context.Context) ([]domain.LoanApplication, error)
	Process(ctx context.Context, loanID int32, approve bool) (*domain.LoanApplication, error)
	Repay(ctx context.Context, userID, loanID int32) (*domain.LoanApplication, error)
}

type CardInput struct {
	CardType            domain.CardType `json:"card_type"`
	LinkedAccountNumber string          `json:"linked_account_number"`
	RequestedLimit      decimal.Decimal `json:"requested_limit"`
}

type CardService interface {
	ListMine(ctx context.Context, userID int32) ([]domain.Card, error)
	Create(ctx context.Context, userID int32, input CardInput) (*domain.Card, error)
	ListApplications(ctx context.Context) ([]domain.Card, error)
	Process(ctx context.Context, adminID, cardID int32, approve bool, approvedLimit decimal.Decimal) (*domain.Card, error)
}

type AdminService interface {
	AddUser(ctx context.Context, username, password, fullName, email string, role domain.Role, initialBalance decimal.Decimal) (*domain.User, error)
	// TellerTransaction deposits to or withdraws from an account; the other
	// leg is the house side and is stored as NULL in the ledger.
	TellerTransaction(ctx context.Context, accountNumber string, amount decimal.Decimal, deposit bool) (*domain.Account, error)
	ListTransactions(ctx context.Context, limit int32) ([]domain.AdminTransactionView, error)
	ListLogs(ctx context.Context, limit int32) ([]domain.SecurityLog, error)
	FinancialReport(ctx context.Context) ([]UserFinancialReport, error)
}
