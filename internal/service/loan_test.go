package service

import (
	"context"
	"testing"

	"kuzeybank-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLoanService(loans *MockLoanRepo, accounts *MockAccountRepo, ledger *MockLedgerRepo, logs *MockSecurityLogRepo) LoanService {
	return NewLoanService(loans, accounts, new(MockUserRepo), ledger, logs, nil)
}

func TestMonthlyInstallment(t *testing.T) {
	// For a two-month term the annuity formula reduces to P(1+r)^2/(2+r):
	// 1000 * 1.07101801 / 2.0349 = 526.3246..., rounded to 526.32.
	pay := monthlyInstallment(decimal.RequireFromString("1000"), decimal.RequireFromString("3.49"), 2)
	assert.True(t, pay.Equal(decimal.RequireFromString("526.32")), pay.String())
}

func TestLoanService_Apply(t *testing.T) {
	mockLoans := new(MockLoanRepo)
	mockLogs := new(MockSecurityLogRepo)
	svc := newTestLoanService(mockLoans, new(MockAccountRepo), new(MockLedgerRepo), mockLogs)
	ctx := context.Background()

	mockLoans.On("Create", ctx, mock.Anything).Return(nil).Once()
	mockLogs.On("Create", ctx, mock.Anything).Return(nil).Once()

	loan, err := svc.Apply(ctx, 10, decimal.RequireFromString("10000"), 12)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.True(t, loan.InterestRate.Equal(decimal.RequireFromString("3.49")))
	// The fixed installment repays more than the interest-free share.
	assert.True(t, loan.MonthlyPayment.GreaterThan(decimal.RequireFromString("833.33")))
	assert.True(t, loan.TotalRepayment.Equal(loan.MonthlyPayment.Mul(decimal.NewFromInt(12)).Round(2)))
	assert.True(t, loan.RemainingAmount.Equal(loan.TotalRepayment))
}

func TestLoanService_Apply_Validation(t *testing.T) {
	svc := newTestLoanService(new(MockLoanRepo), new(MockAccountRepo), new(MockLedgerRepo), new(MockSecurityLogRepo))
	ctx := context.Background()

	_, err := svc.Apply(ctx, 10, decimal.Zero, 12)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Apply(ctx, 10, decimal.RequireFromString("1000"), 1)
	assert.Error(t, err)
}

func TestLoanService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("Reject", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		mockLogs := new(MockSecurityLogRepo)
		svc := newTestLoanService(mockLoans, new(MockAccountRepo), new(MockLedgerRepo), mockLogs)

		mockLoans.On("GetByID", ctx, int32(5)).Return(&domain.LoanApplication{ID: 5, UserID: 10, Status: domain.LoanStatusPending}, nil).Once()
		mockLoans.On("UpdateStatus", ctx, int32(5), domain.LoanStatusRejected).Return(nil).Once()
		mockLogs.On("Create", ctx, mock.Anything).Return(nil).Once()

		loan, err := svc.Process(ctx, 5, false)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusRejected, loan.Status)
		mockLoans.AssertExpectations(t)
	})

	t.Run("ApproveDisbursesToBaseAccount", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		mockAccounts := new(MockAccountRepo)
		mockLedger := new(MockLedgerRepo)
		mockLogs := new(MockSecurityLogRepo)
		svc := newTestLoanService(mockLoans, mockAccounts, mockLedger, mockLogs)

		loan := &domain.LoanApplication{
			ID:     5,
			UserID: 10,
			Amount: decimal.RequireFromString("10000"),
			Status: domain.LoanStatusPending,
		}
		account := tlAccount(3, 10, "0.00")
		account.AccountNumber = "TR0000000000000003"

		mockLoans.On("GetByID", ctx, int32(5)).Return(loan, nil).Once()
		mockAccounts.On("FindByUserAndCurrency", ctx, int32(10), "TL").Return(account, nil).Once()
		mockLedger.On("ApplyLoanEvent", ctx, mock.MatchedBy(func(rec *domain.TransactionRecord) bool {
			return rec.FromAccountID == nil && *rec.ToAccountID == int32(3) &&
				rec.Kind == domain.KindLoanDisbursement &&
				rec.Amount.Equal(decimal.RequireFromString("10000"))
		}), mock.MatchedBy(func(l *domain.LoanApplication) bool {
			return l.Status == domain.LoanStatusApproved
		})).Return(nil).Once()
		mockLogs.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Process(ctx, 5, true)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusApproved, got.Status)
		mockLedger.AssertExpectations(t)
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		svc := newTestLoanService(mockLoans, new(MockAccountRepo), new(MockLedgerRepo), new(MockSecurityLogRepo))

		mockLoans.On("GetByID", ctx, int32(5)).Return(&domain.LoanApplication{ID: 5, Status: domain.LoanStatusApproved}, nil).Once()

		_, err := svc.Process(ctx, 5, true)
		assert.ErrorIs(t, err, domain.ErrLoanNotOpen)
	})
}

func TestLoanService_Repay(t *testing.T) {
	ctx := context.Background()

	t.Run("FinalShortPaymentClosesLoan", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		mockAccounts := new(MockAccountRepo)
		mockLedger := new(MockLedgerRepo)
		mockLogs := new(MockSecurityLogRepo)
		svc := newTestLoanService(mockLoans, mockAccounts, mockLedger, mockLogs)

		loan := &domain.LoanApplication{
			ID:              5,
			UserID:          10,
			MonthlyPayment:  decimal.RequireFromString("526.32"),
			RemainingAmount: decimal.RequireFromString("100.00"),
			Status:          domain.LoanStatusApproved,
		}
		account := tlAccount(3, 10, "500.00")

		mockLoans.On("GetForUser", ctx, int32(5), int32(10)).Return(loan, nil).Once()
		mockAccounts.On("FindByUserAndCurrency", ctx, int32(10), "TL").Return(account, nil).Once()
		mockLedger.On("ApplyLoanEvent", ctx, mock.MatchedBy(func(rec *domain.TransactionRecord) bool {
			// The last payment is capped at the remaining balance.
			return rec.Amount.Equal(decimal.RequireFromString("100.00")) &&
				*rec.FromAccountID == int32(3) && rec.ToAccountID == nil &&
				rec.Kind == domain.KindLoanRepayment
		}), mock.MatchedBy(func(l *domain.LoanApplication) bool {
			return l.Status == domain.LoanStatusPaidOff && l.RemainingAmount.IsZero()
		})).Return(nil).Once()
		mockLogs.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Repay(ctx, 10, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusPaidOff, got.Status)
		mockLedger.AssertExpectations(t)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		mockAccounts := new(MockAccountRepo)
		svc := newTestLoanService(mockLoans, mockAccounts, new(MockLedgerRepo), new(MockSecurityLogRepo))

		loan := &domain.LoanApplication{
			ID:              5,
			UserID:          10,
			MonthlyPayment:  decimal.RequireFromString("526.32"),
			RemainingAmount: decimal.RequireFromString("6000.00"),
			Status:          domain.LoanStatusApproved,
		}
		mockLoans.On("GetForUser", ctx, int32(5), int32(10)).Return(loan, nil).Once()
		mockAccounts.On("FindByUserAndCurrency", ctx, int32(10), "TL").Return(tlAccount(3, 10, "10.00"), nil).Once()

		_, err := svc.Repay(ctx, 10, 5)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("NotApproved", func(t *testing.T) {
		mockLoans := new(MockLoanRepo)
		svc := newTestLoanService(mockLoans, new(MockAccountRepo), new(MockLedgerRepo), new(MockSecurityLogRepo))

		mockLoans.On("GetForUser", ctx, int32(5), int32(10)).Return(&domain.LoanApplication{ID: 5, Status: domain.LoanStatusPending}, nil).Once()

		_, err := svc.Repay(ctx, 10, 5)
		assert.ErrorIs(t, err, domain.ErrLoanNotOpen)
	})
}
