package repository

import (
	"context"
	"time"

	"kuzeybank-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int32) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByNumberForUser(ctx context.Context, number string, userID int32) (*domain.Account, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	CountByUserAndCurrency(ctx context.Context, userID int32, currency string) (int32, error)
	FindByUserAndCurrency(ctx context.Context, userID int32, currency string) (*domain.Account, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// LedgerRepository owns every atomic money movement. Each Apply* method runs
// the balance mutations and the ledger append in a single database
// transaction: they commit together or not at all. Source rows are locked
// and balances re-checked under the lock, so concurrent movements cannot
// lose updates; serialization failures surface as domain.ErrStorageConflict.
type LedgerRepository interface {
	Apply(ctx context.Context, rec *domain.TransactionRecord) error
	// ApplyScheduled additionally advances the owning instruction, guarded
	// by its previous next-execution date: a re-run against already-advanced
	// state affects zero rows and the whole transaction rolls back.
	ApplyScheduled(ctx context.Context, rec *domain.TransactionRecord, instructionID int32, prev, next time.Time, stillActive bool) error
	// ApplyLoanEvent additionally persists the loan's new status and
	// remaining balance.
	ApplyLoanEvent(ctx context.Context, rec *domain.TransactionRecord, loan *domain.LoanApplication) error

	ListViewsByAccount(ctx context.Context, accountID int32, from, to *time.Time) ([]domain.TransactionView, error)
	ListAdminViews(ctx context.Context, limit int32) ([]domain.AdminTransactionView, error)
}

type ScheduledTransferRepository interface {
	Create(ctx context.Context, st *domain.ScheduledTransfer) error
	GetForOwner(ctx context.Context, id, ownerID int32) (*domain.ScheduledTransfer, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.ScheduledTransfer, error)
	Update(ctx context.Context, st *domain.ScheduledTransfer) error
	Delete(ctx context.Context, id, ownerID int32) error
	ListDue(ctx context.Context, today time.Time) ([]domain.ScheduledTransfer, error)
	// AdvanceSkipped moves the next-execution date forward without any money
	// movement (insufficient-funds occurrences are not retried mid-cycle).
	AdvanceSkipped(ctx context.Context, id int32, prev, next time.Time) error
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.LoanApplication) error
	GetByID(ctx context.Context, id int32) (*domain.LoanApplication, error)
	GetForUser(ctx context.Context, id, userID int32) (*domain.LoanApplication, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.LoanApplication, error)
	List(ctx context.Context) ([]domain.LoanApplication, error)
	UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error
}

type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id int32) (*domain.Card, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Card, error)
	List(ctx context.Context) ([]domain.Card, error)
	ListCreditApplications(ctx context.Context) ([]domain.Card, error)
	CountNonRejectedByType(ctx context.Context, userID int32, cardType domain.CardType) (int32, error)
	Update(ctx context.Context, card *domain.Card) error
}

type SecurityLogRepository interface {
	Create(ctx context.Context, entry *domain.SecurityLog) error
	ListRecent(ctx context.Context, limit int32) ([]domain.SecurityLog, error)
}
