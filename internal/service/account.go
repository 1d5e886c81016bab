package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// AccountOverview is the my-account payload: the customer's accounts with
// each account's recent activity already shaped for display.
type AccountOverview struct {
	Accounts []AccountDetail `json:"accounts"`
}

type AccountDetail struct {
	domain.Account
	Transactions []StatementEntry `json:"transactions"`
}

// StatementEntry is one ledger row seen from a single account's point of
// view: the amount is signed for that side and the counterparty resolved
// to a display label.
type StatementEntry struct {
	ID           int32                  `json:"id"`
	Date         time.Time              `json:"date"`
	Amount       decimal.Decimal        `json:"amount"`
	Direction    string                 `json:"direction"` // "in", "out" or "neutral"
	Kind         domain.TransactionKind `json:"kind"`
	Counterparty string                 `json:"counterparty"`
	Details      string                 `json:"details,omitempty"`
}

type Statement struct {
	Account *domain.Account  `json:"account"`
	Period  string           `json:"period"`
	From    *time.Time       `json:"from,omitempty"`
	To      *time.Time       `json:"to,omitempty"`
	Entries []StatementEntry `json:"entries"`
}

type accountService struct {
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	userRepo    repository.UserRepository
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
	}
}

func (s *accountService) Overview(ctx context.Context, userID int32) (*AccountOverview, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &AccountOverview{Accounts: make([]AccountDetail, 0, len(accounts))}
	for i := range accounts {
		acc := accounts[i]
		views, err := s.ledgerRepo.ListViewsByAccount(ctx, acc.ID, nil, nil)
		if err != nil {
			return nil, err
		}
		overview.Accounts = append(overview.Accounts, AccountDetail{
			Account:      acc,
			Transactions: shapeEntries(&acc, views),
		})
	}
	return overview, nil
}

func (s *accountService) OpenAccount(ctx context.Context, userID int32, currency string) (*domain.Account, error) {
	if !domain.IsSupportedCurrency(currency) {
		return nil, domain.ErrInvalidCurrency
	}

	count, err := s.accountRepo.CountByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxAccountsPerCurrency {
		return nil, domain.ErrLimitReached
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	number, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountNumber: number,
		UserID:        userID,
		OwnerName:     user.DisplayName(),
		Currency:      currency,
		Balance:       decimal.Zero,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Statement(ctx context.Context, userID int32, accountNumber, period string, start, end *time.Time) (*Statement, error) {
	account, err := s.accountRepo.GetByNumberForUser(ctx, accountNumber, userID)
	if err != nil {
		return nil, err
	}

	from, to := resolvePeriod(period, start, end, time.Now().UTC())
	views, err := s.ledgerRepo.ListViewsByAccount(ctx, account.ID, from, to)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Account: account,
		Period:  period,
		From:    from,
		To:      to,
		Entries: shapeEntries(account, views),
	}, nil
}

// resolvePeriod maps a named window onto [from, to]. Unknown or empty
// period names mean the full history.
func resolvePeriod(period string, start, end *time.Time, now time.Time) (*time.Time, *time.Time) {
	switch period {
	case "1month":
		from := now.AddDate(0, -1, 0)
		return &from, nil
	case "3months":
		from := now.AddDate(0, -3, 0)
		return &from, nil
	case "6months":
		from := now.AddDate(0, -6, 0)
		return &from, nil
	case "1year":
		from := now.AddDate(-1, 0, 0)
		return &from, nil
	case "custom":
		var to *time.Time
		if end != nil {
			// Include the whole end day.
			t := dateOnly(end.UTC()).AddDate(0, 0, 1)
			to = &t
		}
		return start, to
	default:
		return nil, nil
	}
}

// shapeEntries turns raw ledger views into per-account statement lines.
// Incoming cross-currency entries show the credited amount, not the debited
// one, and house legs are labeled as teller operations.
func shapeEntries(account *domain.Account, views []domain.TransactionView) []StatementEntry {
	entries := make([]StatementEntry, 0, len(views))
	for _, v := range views {
		entry := StatementEntry{
			ID:      v.ID,
			Date:    v.CreatedAt,
			Kind:    v.Kind,
			Details: v.Details,
		}

		outgoing := v.FromAccountID != nil && *v.FromAccountID == account.ID
		incoming := v.ToAccountID != nil && *v.ToAccountID == account.ID

		switch {
		case outgoing && incoming:
			entry.Direction = "neutral"
			entry.Amount = v.Amount
			entry.Counterparty = "Own account"
		case outgoing:
			entry.Direction = "out"
			entry.Amount = v.Amount.Neg()
			entry.Counterparty = counterpartyLabel(account, v, false)
		default:
			entry.Direction = "in"
			entry.Amount = v.ReceivedAmount
			entry.Counterparty = counterpartyLabel(account, v, true)
		}
		entries = append(entries, entry)
	}
	return entries
}

func counterpartyLabel(account *domain.Account, v domain.TransactionView, incoming bool) string {
	var number, owner string
	var userID int32
	if incoming {
		if v.FromAccountID == nil {
			return "Bank / Teller Operation"
		}
		number, owner, userID = v.FromAccountNumber, v.FromOwnerName, v.FromUserID
	} else {
		if v.ToAccountID == nil {
			return "Bank / Teller Operation"
		}
		number, owner, userID = v.ToAccountNumber, v.ToOwnerName, v.ToUserID
	}

	if userID == account.UserID {
		return fmt.Sprintf("Own account %s", number)
	}
	if owner != "" {
		return fmt.Sprintf("%s (%s)", owner, number)
	}
	return number
}

// generateAccountNumber produces a TR-prefixed 16-digit number, retrying on
// the unlikely collision.
func (s *accountService) generateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number, err := randomAccountNumber()
		if err != nil {
			return "", err
		}
		exists, err := s.accountRepo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique account number")
}

func randomAccountNumber() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TR%016d", n), nil
}
