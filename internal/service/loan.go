package service

import (
	"context"
	"fmt"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// monthlyInterestRate is the flat rate in percent per month applied to every
// loan. Installments are fixed at application time and never re-amortized.
var monthlyInterestRate = decimal.RequireFromString("3.49")

var (
	minLoanTermMonths int32 = 3
	maxLoanTermMonths int32 = 120
)

type loanService struct {
	loanRepo    repository.LoanRepository
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	ledgerRepo  repository.LedgerRepository
	logRepo     repository.SecurityLogRepository
	accounts    AccountService
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	logRepo repository.SecurityLogRepository,
	accounts AccountService,
) LoanService {
	return &loanService{
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		logRepo:     logRepo,
		accounts:    accounts,
	}
}

func (s *loanService) Apply(ctx context.Context, userID int32, amount decimal.Decimal, termMonths int32) (*domain.LoanApplication, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if termMonths < minLoanTermMonths || termMonths > maxLoanTermMonths {
		return nil, fmt.Errorf("loan term must be between %d and %d months", minLoanTermMonths, maxLoanTermMonths)
	}

	monthly := monthlyInstallment(amount, monthlyInterestRate, termMonths)
	total := monthly.Mul(decimal.NewFromInt32(termMonths)).Round(2)

	loan := &domain.LoanApplication{
		UserID:          userID,
		Amount:          amount,
		TermMonths:      termMonths,
		InterestRate:    monthlyInterestRate,
		MonthlyPayment:  monthly,
		TotalRepayment:  total,
		RemainingAmount: total,
		Status:          domain.LoanStatusPending,
		ApplicationDate: time.Now().UTC(),
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "LOAN_APPLIED", fmt.Sprintf("loan %d: %s TL over %d months", loan.ID, amount.StringFixed(2), termMonths))
	return loan, nil
}

func (s *loanService) ListMine(ctx context.Context, userID int32) ([]domain.LoanApplication, error) {
	return s.loanRepo.ListByUser(ctx, userID)
}

func (s *loanService) ListAll(ctx context.Context) ([]domain.LoanApplication, error) {
	return s.loanRepo.List(ctx)
}

func (s *loanService) Process(ctx context.Context, loanID int32, approve bool) (*domain.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, domain.ErrLoanNotOpen
	}

	if !approve {
		loan.Status = domain.LoanStatusRejected
		if err := s.loanRepo.UpdateStatus(ctx, loan.ID, loan.Status); err != nil {
			return nil, err
		}
		s.audit(ctx, loan.UserID, "LOAN_REJECTED", fmt.Sprintf("loan %d rejected", loan.ID))
		return loan, nil
	}

	account, err := s.disbursementAccount(ctx, loan.UserID)
	if err != nil {
		return nil, err
	}

	loan.Status = domain.LoanStatusApproved
	accountID := account.ID
	rec := &domain.TransactionRecord{
		Reference:      newReference(),
		ToAccountID:    &accountID,
		Amount:         loan.Amount,
		ReceivedAmount: loan.Amount,
		Kind:           domain.KindLoanDisbursement,
		Details:        fmt.Sprintf("Loan #%d disbursement", loan.ID),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.ledgerRepo.ApplyLoanEvent(ctx, rec, loan); err != nil {
		return nil, err
	}
	s.audit(ctx, loan.UserID, "LOAN_APPROVED",
		fmt.Sprintf("loan %d approved, %s TL disbursed to %s", loan.ID, loan.Amount.StringFixed(2), account.AccountNumber))
	return loan, nil
}

func (s *loanService) Repay(ctx context.Context, userID, loanID int32) (*domain.LoanApplication, error) {
	loan, err := s.loanRepo.GetForUser(ctx, loanID, userID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusApproved {
		return nil, domain.ErrLoanNotOpen
	}

	account, err := s.accountRepo.FindByUserAndCurrency(ctx, userID, domain.BaseCurrency)
	if err != nil {
		return nil, err
	}

	payment := loan.MonthlyPayment
	if loan.RemainingAmount.LessThan(payment) {
		payment = loan.RemainingAmount
	}
	if account.Balance.LessThan(payment) {
		return nil, domain.ErrInsufficientFunds
	}

	loan.RemainingAmount = loan.RemainingAmount.Sub(payment)
	if loan.RemainingAmount.LessThanOrEqual(domain.PaidOffTolerance) {
		loan.RemainingAmount = decimal.Zero
		loan.Status = domain.LoanStatusPaidOff
	}

	accountID := account.ID
	rec := &domain.TransactionRecord{
		Reference:      newReference(),
		FromAccountID:  &accountID,
		Amount:         payment,
		ReceivedAmount: payment,
		Kind:           domain.KindLoanRepayment,
		Details:        fmt.Sprintf("Loan #%d installment", loan.ID),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.ledgerRepo.ApplyLoanEvent(ctx, rec, loan); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "LOAN_REPAYMENT",
		fmt.Sprintf("loan %d: paid %s TL, %s TL remaining", loan.ID, payment.StringFixed(2), loan.RemainingAmount.StringFixed(2)))
	return loan, nil
}

// disbursementAccount finds the borrower's base-currency account, opening
// one when none exists yet.
func (s *loanService) disbursementAccount(ctx context.Context, userID int32) (*domain.Account, error) {
	account, err := s.accountRepo.FindByUserAndCurrency(ctx, userID, domain.BaseCurrency)
	if err == nil {
		return account, nil
	}
	if err != domain.ErrAccountNotFound {
		return nil, err
	}
	return s.accounts.OpenAccount(ctx, userID, domain.BaseCurrency)
}

// monthlyInstallment computes the fixed annuity payment
// P*r*(1+r)^n / ((1+r)^n - 1) for a monthly rate given in percent.
func monthlyInstallment(principal, ratePercent decimal.Decimal, termMonths int32) decimal.Decimal {
	r := ratePercent.Div(decimal.NewFromInt(100))
	factor := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt32(termMonths))
	numerator := principal.Mul(r).Mul(factor)
	denominator := factor.Sub(decimal.NewFromInt(1))
	return numerator.Div(denominator).Round(2)
}

func (s *loanService) audit(ctx context.Context, userID int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
