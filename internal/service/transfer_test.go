package service

import (
	"context"
	"testing"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/rates"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRates() map[string]domain.Rate {
	return map[string]domain.Rate{
		"USD": {Code: "USD", Buying: decimal.RequireFromString("34.80"), Selling: decimal.RequireFromString("34.95")},
		"EUR": {Code: "EUR", Buying: decimal.RequireFromString("37.10"), Selling: decimal.RequireFromString("37.30")},
	}
}

func newTestTransferService(ledger *MockLedgerRepo, accounts *MockAccountRepo, logs *MockSecurityLogRepo) TransferService {
	return NewTransferService(accounts, ledger, logs, rates.NewMockProvider(testRates()))
}

func tlAccount(id, userID int32, balance string) *domain.Account {
	return &domain.Account{ID: id, UserID: userID, Currency: "TL", Balance: decimal.RequireFromString(balance)}
}

func usdAccount(id, userID int32, balance string) *domain.Account {
	return &domain.Account{ID: id, UserID: userID, Currency: "USD", Balance: decimal.RequireFromString(balance)}
}

func TestTransferService_Execute_SameCurrency(t *testing.T) {
	mockLedger := new(MockLedgerRepo)
	svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))
	ctx := context.Background()

	src := tlAccount(1, 10, "500.00")
	dst := tlAccount(2, 11, "0.00")

	mockLedger.On("Apply", ctx, mock.MatchedBy(func(rec *domain.TransactionRecord) bool {
		return rec.Amount.Equal(decimal.RequireFromString("120.50")) &&
			rec.ReceivedAmount.Equal(rec.Amount) &&
			*rec.FromAccountID == int32(1) && *rec.ToAccountID == int32(2)
	})).Return(nil).Once()

	rec, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
		decimal.RequireFromString("120.50"), domain.KindTransfer, "")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Reference)
	mockLedger.AssertExpectations(t)
}

func TestTransferService_Execute_ConvertsThroughBase(t *testing.T) {
	ctx := context.Background()

	t.Run("BaseToForeign", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))

		src := tlAccount(1, 10, "5000.00")
		dst := usdAccount(2, 10, "0.00")

		mockLedger.On("Apply", ctx, mock.Anything).Return(nil).Once()

		rec, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("3495.00"), domain.KindCurrencyExchange, "")
		require.NoError(t, err)
		// 3495 / 34.95 selling
		assert.True(t, rec.ReceivedAmount.Equal(decimal.RequireFromString("100.00")), rec.ReceivedAmount.String())
	})

	t.Run("ForeignToBase", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))

		src := usdAccount(1, 10, "100.00")
		dst := tlAccount(2, 10, "0.00")

		mockLedger.On("Apply", ctx, mock.Anything).Return(nil).Once()

		rec, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("100.00"), domain.KindCurrencyExchange, "")
		require.NoError(t, err)
		// 100 * 34.80 buying
		assert.True(t, rec.ReceivedAmount.Equal(decimal.RequireFromString("3480.00")), rec.ReceivedAmount.String())
	})

	t.Run("ForeignToForeign", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))

		src := usdAccount(1, 10, "100.00")
		dst := &domain.Account{ID: 2, UserID: 10, Currency: "EUR", Balance: decimal.Zero}

		mockLedger.On("Apply", ctx, mock.Anything).Return(nil).Once()

		rec, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("100.00"), domain.KindCurrencyExchange, "")
		require.NoError(t, err)
		// 100 * 34.80 = 3480 TL, / 37.30 = 93.2975... rounded to 93.30
		assert.True(t, rec.ReceivedAmount.Equal(decimal.RequireFromString("93.30")), rec.ReceivedAmount.String())
	})
}

func TestTransferService_Execute_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestTransferService(new(MockLedgerRepo), new(MockAccountRepo), new(MockSecurityLogRepo))

	t.Run("CrossCurrencyDifferentOwners", func(t *testing.T) {
		src := tlAccount(1, 10, "5000.00")
		dst := usdAccount(2, 99, "0.00")

		_, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("100.00"), domain.KindTransfer, "")
		assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	})

	t.Run("MissingRate", func(t *testing.T) {
		src := tlAccount(1, 10, "5000.00")
		dst := &domain.Account{ID: 2, UserID: 10, Currency: "GBP", Balance: decimal.Zero}

		_, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("100.00"), domain.KindCurrencyExchange, "")
		assert.ErrorIs(t, err, domain.ErrRateUnavailable)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		src := tlAccount(1, 10, "50.00")
		dst := tlAccount(2, 11, "0.00")

		_, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.RequireFromString("100.00"), domain.KindTransfer, "")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		src := tlAccount(1, 10, "50.00")
		dst := tlAccount(2, 11, "0.00")

		_, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
			decimal.Zero, domain.KindTransfer, "")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestTransferService_Execute_RetriesOnConflict(t *testing.T) {
	mockLedger := new(MockLedgerRepo)
	svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))
	ctx := context.Background()

	src := tlAccount(1, 10, "500.00")
	dst := tlAccount(2, 11, "0.00")

	mockLedger.On("Apply", ctx, mock.Anything).Return(domain.ErrStorageConflict).Once()
	mockLedger.On("Apply", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Execute(ctx, domain.AccountLeg(src), domain.AccountLeg(dst),
		decimal.RequireFromString("100.00"), domain.KindTransfer, "")
	require.NoError(t, err)
	mockLedger.AssertExpectations(t)
}

func TestTransferService_Transfer_SelfIsNeutral(t *testing.T) {
	mockLedger := new(MockLedgerRepo)
	mockAccounts := new(MockAccountRepo)
	mockLogs := new(MockSecurityLogRepo)
	svc := newTestTransferService(mockLedger, mockAccounts, mockLogs)
	ctx := context.Background()

	acc := tlAccount(1, 10, "500.00")
	acc.AccountNumber = "TR0000000000000001"

	mockAccounts.On("GetByNumberForUser", ctx, "TR0000000000000001", int32(10)).Return(acc, nil).Once()
	mockAccounts.On("GetByNumber", ctx, "TR0000000000000001").Return(acc, nil).Once()
	mockLedger.On("Apply", ctx, mock.MatchedBy(func(rec *domain.TransactionRecord) bool {
		return rec.Kind == domain.KindSelfAccountOp
	})).Return(nil).Once()
	mockLogs.On("Create", ctx, mock.Anything).Return(nil).Once()

	rec, err := svc.Transfer(ctx, 10, "TR0000000000000001", "TR0000000000000001", decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.KindSelfAccountOp, rec.Kind)
	mockLedger.AssertExpectations(t)
}

func TestTransferService_Exchange_SameAccountRejected(t *testing.T) {
	mockAccounts := new(MockAccountRepo)
	svc := newTestTransferService(new(MockLedgerRepo), mockAccounts, new(MockSecurityLogRepo))
	ctx := context.Background()

	acc := tlAccount(1, 10, "500.00")
	mockAccounts.On("GetByNumberForUser", ctx, mock.Anything, int32(10)).Return(acc, nil).Twice()

	_, err := svc.Exchange(ctx, 10, "TR1", "TR1", decimal.RequireFromString("50.00"))
	assert.ErrorIs(t, err, domain.ErrSameAccount)
}

func TestTransferService_Execute_HouseLegs(t *testing.T) {
	mockLedger := new(MockLedgerRepo)
	svc := newTestTransferService(mockLedger, new(MockAccountRepo), new(MockSecurityLogRepo))
	ctx := context.Background()

	acc := tlAccount(5, 10, "0.00")

	mockLedger.On("Apply", ctx, mock.MatchedBy(func(rec *domain.TransactionRecord) bool {
		return rec.FromAccountID == nil && *rec.ToAccountID == int32(5)
	})).Return(nil).Once()

	_, err := svc.Execute(ctx, domain.HouseLeg(), domain.AccountLeg(acc),
		decimal.RequireFromString("250.00"), domain.KindAdminDeposit, "Teller deposit")
	require.NoError(t, err)

	// Withdrawals check the customer balance even against the house.
	_, err = svc.Execute(ctx, domain.AccountLeg(acc), domain.HouseLeg(),
		decimal.RequireFromString("250.00"), domain.KindAdminWithdraw, "Teller withdrawal")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
