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

type cardService struct {
	cardRepo    repository.CardRepository
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	logRepo     repository.SecurityLogRepository
}

func NewCardService(
	cardRepo repository.CardRepository,
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	logRepo repository.SecurityLogRepository,
) CardService {
	return &cardService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		logRepo:     logRepo,
	}
}

func (s *cardService) ListMine(ctx context.Context, userID int32) ([]domain.Card, error) {
	return s.cardRepo.ListByUser(ctx, userID)
}

func (s *cardService) Create(ctx context.Context, userID int32, input CardInput) (*domain.Card, error) {
	if input.CardType != domain.CardTypeDebit && input.CardType != domain.CardTypeCredit {
		return nil, fmt.Errorf("unknown card type %q", input.CardType)
	}

	count, err := s.cardRepo.CountNonRejectedByType(ctx, userID, input.CardType)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxCardsPerType {
		return nil, domain.ErrLimitReached
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	number, err := randomCardNumber()
	if err != nil {
		return nil, err
	}
	cvv, err := randomCVV()
	if err != nil {
		return nil, err
	}

	card := &domain.Card{
		UserID:         userID,
		CardNumber:     number,
		CardHolderName: user.DisplayName(),
		ExpiryDate:     time.Now().UTC().AddDate(5, 0, 0).Format("01/06"),
		CVV:            cvv,
		CardType:       input.CardType,
		RequestedLimit: decimal.Zero,
		CreditLimit:    decimal.Zero,
		CurrentDebt:    decimal.Zero,
	}

	switch input.CardType {
	case domain.CardTypeDebit:
		// Debit cards are issued immediately against one of the holder's
		// own accounts.
		account, err := s.accountRepo.GetByNumberForUser(ctx, input.LinkedAccountNumber, userID)
		if err != nil {
			return nil, err
		}
		accountID := account.ID
		card.LinkedAccountID = &accountID
		card.Status = domain.CardStatusActive

	case domain.CardTypeCredit:
		if !input.RequestedLimit.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		card.RequestedLimit = input.RequestedLimit
		card.Status = domain.CardStatusPending
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "CARD_REQUESTED", fmt.Sprintf("%s card %d requested", card.CardType, card.ID))
	return card, nil
}

func (s *cardService) ListApplications(ctx context.Context) ([]domain.Card, error) {
	return s.cardRepo.ListCreditApplications(ctx)
}

func (s *cardService) Process(ctx context.Context, adminID, cardID int32, approve bool, approvedLimit decimal.Decimal) (*domain.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Status != domain.CardStatusPending {
		return nil, fmt.Errorf("card %d is not pending", cardID)
	}

	if approve {
		limit := approvedLimit
		if !limit.IsPositive() {
			limit = card.RequestedLimit
		}
		card.CreditLimit = limit
		card.Status = domain.CardStatusActive
	} else {
		card.Status = domain.CardStatusRejected
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "CARD_PROCESSED",
		fmt.Sprintf("card %d for user %d: %s", card.ID, card.UserID, card.Status))
	return card, nil
}

func randomCardNumber() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("4%015d", n), nil
}

func randomCVV() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%03d", n), nil
}

func (s *cardService) audit(ctx context.Context, userID int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
