package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/rates"
	"kuzeybank-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newReference mints the external ledger reference for a movement.
func newReference() string { return uuid.NewString() }

type transferService struct {
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	logRepo     repository.SecurityLogRepository
	rates       rates.Provider
}

func NewTransferService(
	accountRepo repository.AccountRepository,
	ledgerRepo repository.LedgerRepository,
	logRepo repository.SecurityLogRepository,
	ratesProvider rates.Provider,
) TransferService {
	return &transferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		logRepo:     logRepo,
		rates:       ratesProvider,
	}
}

func (s *transferService) Execute(ctx context.Context, src, dst domain.Leg, amount decimal.Decimal, kind domain.TransactionKind, details string) (*domain.TransactionRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if src.IsHouse() && dst.IsHouse() {
		return nil, domain.ErrAccountNotFound
	}

	received := amount
	if !src.IsHouse() && !dst.IsHouse() && src.Account.Currency != dst.Account.Currency {
		// Cross-currency conversion is permitted only between one
		// customer's own accounts.
		if src.Account.UserID != dst.Account.UserID {
			return nil, domain.ErrCurrencyMismatch
		}
		var err error
		received, _, err = s.convert(ctx, src.Account.Currency, dst.Account.Currency, amount)
		if err != nil {
			return nil, err
		}
	}

	if !src.IsHouse() && src.Account.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	rec := &domain.TransactionRecord{
		Reference:      newReference(),
		Amount:         amount,
		ReceivedAmount: received,
		Kind:           kind,
		Details:        details,
		CreatedAt:      time.Now().UTC(),
	}
	if !src.IsHouse() {
		id := src.Account.ID
		rec.FromAccountID = &id
	}
	if !dst.IsHouse() {
		id := dst.Account.ID
		rec.ToAccountID = &id
	}

	err := s.ledgerRepo.Apply(ctx, rec)
	if errors.Is(err, domain.ErrStorageConflict) {
		// One retry with a fresh read; the repository re-checks the balance
		// under its row lock either way.
		err = s.ledgerRepo.Apply(ctx, rec)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *transferService) ExecuteScheduled(ctx context.Context, instr *domain.ScheduledTransfer, next time.Time, stillActive bool) (*domain.TransactionRecord, error) {
	from, err := s.accountRepo.GetByID(ctx, instr.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByID(ctx, instr.ToAccountID)
	if err != nil {
		return nil, err
	}

	received := instr.Amount
	rateDesc := ""
	if from.Currency != to.Currency {
		if from.UserID != to.UserID {
			return nil, domain.ErrCurrencyMismatch
		}
		received, rateDesc, err = s.convert(ctx, from.Currency, to.Currency, instr.Amount)
		if err != nil {
			return nil, err
		}
	}

	if from.Balance.LessThan(instr.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	details := "Automatic scheduled transfer"
	if instr.Description != "" {
		details += " - " + instr.Description
	}
	if rateDesc != "" {
		details += " | " + rateDesc
	}

	fromID, toID := from.ID, to.ID
	rec := &domain.TransactionRecord{
		Reference:      newReference(),
		FromAccountID:  &fromID,
		ToAccountID:    &toID,
		Amount:         instr.Amount,
		ReceivedAmount: received,
		Kind:           domain.KindScheduledTransfer,
		Details:        details,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.ledgerRepo.ApplyScheduled(ctx, rec, instr.ID, instr.NextExecution, next, stillActive); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *transferService) Transfer(ctx context.Context, userID int32, fromNumber, toNumber string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	from, err := s.accountRepo.GetByNumberForUser(ctx, fromNumber, userID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByNumber(ctx, toNumber)
	if err != nil {
		return nil, err
	}

	kind := domain.KindTransfer
	details := ""
	if from.ID == to.ID {
		// Same-account movement: both deltas cancel, but a ledger record is
		// still appended for audit.
		kind = domain.KindSelfAccountOp
		details = "Neutral operation."
	}

	rec, err := s.Execute(ctx, domain.AccountLeg(from), domain.AccountLeg(to), amount, kind, details)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, userID, string(kind), fmt.Sprintf("%s %s from %s to %s", amount, from.Currency, from.AccountNumber, to.AccountNumber))
	return rec, nil
}

func (s *transferService) Exchange(ctx context.Context, userID int32, fromNumber, toNumber string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	from, err := s.accountRepo.GetByNumberForUser(ctx, fromNumber, userID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByNumberForUser(ctx, toNumber, userID)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, domain.ErrSameAccount
	}

	received, rateDesc, err := s.convert(ctx, from.Currency, to.Currency, amount)
	if err != nil {
		return nil, err
	}
	details := fmt.Sprintf("%s | Result: %s %s", rateDesc, received.StringFixed(2), to.Currency)

	rec, err := s.Execute(ctx, domain.AccountLeg(from), domain.AccountLeg(to), amount, domain.KindCurrencyExchange, details)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, userID, string(domain.KindCurrencyExchange), details)
	return rec, nil
}

// convert resolves the received amount for a source-currency amount moving
// into the destination currency. Both foreign legs are routed through the
// base currency; there is never a direct foreign-to-foreign rate.
func (s *transferService) convert(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) (decimal.Decimal, string, error) {
	if fromCurrency == toCurrency {
		return amount, "Par", nil
	}

	allRates, err := s.rates.GetAllRates(ctx)
	if err != nil {
		return decimal.Zero, "", domain.ErrRateUnavailable
	}

	switch {
	case fromCurrency == domain.BaseCurrency:
		rate, ok := allRates[toCurrency]
		if !ok || !rate.Selling.IsPositive() {
			return decimal.Zero, "", domain.ErrRateUnavailable
		}
		received := amount.Div(rate.Selling).Round(2)
		return received, fmt.Sprintf("Rate (selling): %s", rate.Selling.StringFixed(4)), nil

	case toCurrency == domain.BaseCurrency:
		rate, ok := allRates[fromCurrency]
		if !ok || !rate.Buying.IsPositive() {
			return decimal.Zero, "", domain.ErrRateUnavailable
		}
		received := amount.Mul(rate.Buying).Round(2)
		return received, fmt.Sprintf("Rate (buying): %s", rate.Buying.StringFixed(4)), nil

	default:
		fromRate, ok := allRates[fromCurrency]
		if !ok || !fromRate.Buying.IsPositive() {
			return decimal.Zero, "", domain.ErrRateUnavailable
		}
		toRate, ok := allRates[toCurrency]
		if !ok || !toRate.Selling.IsPositive() {
			return decimal.Zero, "", domain.ErrRateUnavailable
		}
		inBase := amount.Mul(fromRate.Buying)
		received := inBase.Div(toRate.Selling).Round(2)
		desc := fmt.Sprintf("Cross rate (%s->%s->%s)", fromCurrency, domain.BaseCurrency, toCurrency)
		return received, desc, nil
	}
}

// audit writes a security-log entry; failures are logged by the repository
// layer and never fail the movement that already committed.
func (s *transferService) audit(ctx context.Context, userID int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
