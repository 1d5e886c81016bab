package service

import (
	"context"
	"time"

	"kuzeybank-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByNumberForUser(ctx context.Context, number string, userID int32) (*domain.Account, error) {
	args := m.Called(ctx, number, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountRepo) CountByUserAndCurrency(ctx context.Context, userID int32, currency string) (int32, error) {
	args := m.Called(ctx, userID, currency)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockAccountRepo) FindByUserAndCurrency(ctx context.Context, userID int32, currency string) (*domain.Account, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Apply(ctx context.Context, rec *domain.TransactionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockLedgerRepo) ApplyScheduled(ctx context.Context, rec *domain.TransactionRecord, instructionID int32, prev, next time.Time, stillActive bool) error {
	args := m.Called(ctx, rec, instructionID, prev, next, stillActive)
	return args.Error(0)
}
func (m *MockLedgerRepo) ApplyLoanEvent(ctx context.Context, rec *domain.TransactionRecord, loan *domain.LoanApplication) error {
	args := m.Called(ctx, rec, loan)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListViewsByAccount(ctx context.Context, accountID int32, from, to *time.Time) ([]domain.TransactionView, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).([]domain.TransactionView), args.Error(1)
}
func (m *MockLedgerRepo) ListAdminViews(ctx context.Context, limit int32) ([]domain.AdminTransactionView, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AdminTransactionView), args.Error(1)
}

// MockScheduleRepo
type MockScheduleRepo struct {
	mock.Mock
}

func (m *MockScheduleRepo) Create(ctx context.Context, st *domain.ScheduledTransfer) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}
func (m *MockScheduleRepo) GetForOwner(ctx context.Context, id, ownerID int32) (*domain.ScheduledTransfer, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledTransfer), args.Error(1)
}
func (m *MockScheduleRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.ScheduledTransfer, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.ScheduledTransfer), args.Error(1)
}
func (m *MockScheduleRepo) Update(ctx context.Context, st *domain.ScheduledTransfer) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}
func (m *MockScheduleRepo) Delete(ctx context.Context, id, ownerID int32) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
func (m *MockScheduleRepo) ListDue(ctx context.Context, today time.Time) ([]domain.ScheduledTransfer, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.ScheduledTransfer), args.Error(1)
}
func (m *MockScheduleRepo) AdvanceSkipped(ctx context.Context, id int32, prev, next time.Time) error {
	args := m.Called(ctx, id, prev, next)
	return args.Error(0)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.LoanApplication) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}
func (m *MockLoanRepo) GetForUser(ctx context.Context, id, userID int32) (*domain.LoanApplication, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}
func (m *MockLoanRepo) ListByUser(ctx context.Context, userID int32) ([]domain.LoanApplication, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.LoanApplication), args.Error(1)
}
func (m *MockLoanRepo) List(ctx context.Context) ([]domain.LoanApplication, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LoanApplication), args.Error(1)
}
func (m *MockLoanRepo) UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCardRepo
type MockCardRepo struct {
	mock.Mock
}

func (m *MockCardRepo) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}
func (m *MockCardRepo) GetByID(ctx context.Context, id int32) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Card, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockCardRepo) List(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockCardRepo) ListCreditApplications(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockCardRepo) CountNonRejectedByType(ctx context.Context, userID int32, cardType domain.CardType) (int32, error) {
	args := m.Called(ctx, userID, cardType)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCardRepo) Update(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// MockSecurityLogRepo
type MockSecurityLogRepo struct {
	mock.Mock
}

func (m *MockSecurityLogRepo) Create(ctx context.Context, entry *domain.SecurityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockSecurityLogRepo) ListRecent(ctx context.Context, limit int32) ([]domain.SecurityLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.SecurityLog), args.Error(1)
}
