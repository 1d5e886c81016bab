package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/rates"
	"kuzeybank-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// UserFinancialReport aggregates one customer's position with every
// balance converted to the base currency at the buying rate.
type UserFinancialReport struct {
	UserID         int32           `json:"user_id"`
	Username       string          `json:"username"`
	FullName       string          `json:"full_name,omitempty"`
	AccountCount   int             `json:"account_count"`
	TotalBalanceTL decimal.Decimal `json:"total_balance_tl"`
	LoanDebtTL     decimal.Decimal `json:"loan_debt_tl"`
	CardDebtTL     decimal.Decimal `json:"card_debt_tl"`
	NetPositionTL  decimal.Decimal `json:"net_position_tl"`
}

type adminService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	loanRepo    repository.LoanRepository
	cardRepo    repository.CardRepository
	logRepo     repository.SecurityLogRepository
	rates       rates.Provider
	transfers   TransferService
}

func NewAdminService(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	loanRepo repository.LoanRepository,
	cardRepo repository.CardRepository,
	logRepo repository.SecurityLogRepository,
	ratesProvider rates.Provider,
	transfers TransferService,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		loanRepo:    loanRepo,
		cardRepo:    cardRepo,
		logRepo:     logRepo,
		rates:       ratesProvider,
		transfers:   transfers,
	}
}

func (s *adminService) AddUser(ctx context.Context, username, password, fullName, email string, role domain.Role, initialBalance decimal.Decimal) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if role != domain.RoleAdmin && role != domain.RoleCustomer {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if initialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     fullName,
		Email:        email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if role == domain.RoleCustomer {
		number, err := randomAccountNumber()
		if err != nil {
			return nil, err
		}
		account := &domain.Account{
			AccountNumber: number,
			UserID:        user.ID,
			OwnerName:     user.DisplayName(),
			Currency:      domain.BaseCurrency,
			Balance:       decimal.Zero,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
		if initialBalance.IsPositive() {
			// Seed the balance through the ledger so the opening deposit is
			// auditable like any teller operation.
			_, err := s.transfers.Execute(ctx, domain.HouseLeg(), domain.AccountLeg(account),
				initialBalance, domain.KindAdminDeposit, "Opening balance")
			if err != nil {
				return nil, err
			}
		}
	}

	s.audit(ctx, user.ID, "USER_CREATED", fmt.Sprintf("user %s created with role %s", username, role))
	return user, nil
}

func (s *adminService) TellerTransaction(ctx context.Context, accountNumber string, amount decimal.Decimal, deposit bool) (*domain.Account, error) {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	var rec *domain.TransactionRecord
	if deposit {
		rec, err = s.transfers.Execute(ctx, domain.HouseLeg(), domain.AccountLeg(account),
			amount, domain.KindAdminDeposit, "Teller deposit")
	} else {
		rec, err = s.transfers.Execute(ctx, domain.AccountLeg(account), domain.HouseLeg(),
			amount, domain.KindAdminWithdraw, "Teller withdrawal")
	}
	if err != nil {
		return nil, err
	}

	s.audit(ctx, account.UserID, string(rec.Kind),
		fmt.Sprintf("%s %s on account %s", amount.StringFixed(2), account.Currency, account.AccountNumber))

	// Return the post-movement balance.
	return s.accountRepo.GetByID(ctx, account.ID)
}

func (s *adminService) ListTransactions(ctx context.Context, limit int32) ([]domain.AdminTransactionView, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledgerRepo.ListAdminViews(ctx, limit)
}

func (s *adminService) ListLogs(ctx context.Context, limit int32) ([]domain.SecurityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.logRepo.ListRecent(ctx, limit)
}

func (s *adminService) FinancialReport(ctx context.Context) ([]UserFinancialReport, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	allRates, err := s.rates.GetAllRates(ctx)
	if err != nil {
		return nil, domain.ErrRateUnavailable
	}

	reports := make(map[int32]*UserFinancialReport)
	order := make([]int32, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleCustomer {
			continue
		}
		reports[u.ID] = &UserFinancialReport{
			UserID:         u.ID,
			Username:       u.Username,
			FullName:       u.FullName,
			TotalBalanceTL: decimal.Zero,
			LoanDebtTL:     decimal.Zero,
			CardDebtTL:     decimal.Zero,
		}
		order = append(order, u.ID)
	}

	for _, acc := range accounts {
		report, ok := reports[acc.UserID]
		if !ok {
			continue
		}
		inBase, err := toBaseCurrency(acc.Balance, acc.Currency, allRates)
		if err != nil {
			return nil, err
		}
		report.AccountCount++
		report.TotalBalanceTL = report.TotalBalanceTL.Add(inBase)
	}

	for _, loan := range loans {
		if loan.Status != domain.LoanStatusApproved {
			continue
		}
		if report, ok := reports[loan.UserID]; ok {
			report.LoanDebtTL = report.LoanDebtTL.Add(loan.RemainingAmount)
		}
	}

	for _, card := range cards {
		if card.Status != domain.CardStatusActive || card.CardType != domain.CardTypeCredit {
			continue
		}
		if report, ok := reports[card.UserID]; ok {
			report.CardDebtTL = report.CardDebtTL.Add(card.CurrentDebt)
		}
	}

	result := make([]UserFinancialReport, 0, len(order))
	for _, id := range order {
		r := reports[id]
		r.TotalBalanceTL = r.TotalBalanceTL.Round(2)
		r.NetPositionTL = r.TotalBalanceTL.Sub(r.LoanDebtTL).Sub(r.CardDebtTL).Round(2)
		result = append(result, *r)
	}
	return result, nil
}

// toBaseCurrency values a foreign balance at the buying rate, the side the
// bank would pay to take the position onto its own book.
func toBaseCurrency(amount decimal.Decimal, currency string, allRates map[string]domain.Rate) (decimal.Decimal, error) {
	if currency == domain.BaseCurrency {
		return amount, nil
	}
	rate, ok := allRates[currency]
	if !ok || !rate.Buying.IsPositive() {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	return amount.Mul(rate.Buying), nil
}

func (s *adminService) audit(ctx context.Context, userID int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
