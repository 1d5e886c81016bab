package service

import (
	"context"
	"testing"
	"time"

	"kuzeybank-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_OpenAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesWithGeneratedNumber", func(t *testing.T) {
		mockAccounts := new(MockAccountRepo)
		mockUsers := new(MockUserRepo)
		svc := NewAccountService(mockAccounts, new(MockLedgerRepo), mockUsers)

		mockAccounts.On("CountByUserAndCurrency", ctx, int32(10), "USD").Return(int32(2), nil).Once()
		mockUsers.On("GetByID", ctx, int32(10)).Return(&domain.User{ID: 10, Username: "ayse", FullName: "Ayşe Demir"}, nil).Once()
		mockAccounts.On("NumberExists", ctx, mock.Anything).Return(false, nil).Once()
		mockAccounts.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.UserID == 10 && a.Currency == "USD" && a.OwnerName == "Ayşe Demir" &&
				len(a.AccountNumber) == 18 && a.AccountNumber[:2] == "TR" && a.Balance.IsZero()
		})).Return(nil).Once()

		account, err := svc.OpenAccount(ctx, 10, "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", account.Currency)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("UnsupportedCurrency", func(t *testing.T) {
		svc := NewAccountService(new(MockAccountRepo), new(MockLedgerRepo), new(MockUserRepo))

		_, err := svc.OpenAccount(ctx, 10, "GBP")
		assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
	})

	t.Run("PerCurrencyCap", func(t *testing.T) {
		mockAccounts := new(MockAccountRepo)
		svc := NewAccountService(mockAccounts, new(MockLedgerRepo), new(MockUserRepo))

		mockAccounts.On("CountByUserAndCurrency", ctx, int32(10), "TL").Return(int32(6), nil).Once()

		_, err := svc.OpenAccount(ctx, 10, "TL")
		assert.ErrorIs(t, err, domain.ErrLimitReached)
	})
}

func TestShapeEntries(t *testing.T) {
	account := tlAccount(1, 10, "500.00")

	view := func(from, to *int32, amount, received string) domain.TransactionView {
		return domain.TransactionView{
			TransactionRecord: domain.TransactionRecord{
				ID:             1,
				FromAccountID:  from,
				ToAccountID:    to,
				Amount:         decimal.RequireFromString(amount),
				ReceivedAmount: decimal.RequireFromString(received),
				Kind:           domain.KindTransfer,
			},
		}
	}

	one := int32(1)
	two := int32(2)

	t.Run("OutgoingIsNegative", func(t *testing.T) {
		v := view(&one, &two, "100.00", "100.00")
		v.ToAccountNumber, v.ToOwnerName, v.ToUserID = "TR2", "Mehmet", 99

		entries := shapeEntries(account, []domain.TransactionView{v})
		require.Len(t, entries, 1)
		assert.Equal(t, "out", entries[0].Direction)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("-100.00")))
		assert.Equal(t, "Mehmet (TR2)", entries[0].Counterparty)
	})

	t.Run("IncomingShowsCreditedAmount", func(t *testing.T) {
		// Cross-currency entry: 34.95 TL debited elsewhere arrived as 1 USD.
		v := view(&two, &one, "34.95", "1.00")
		v.FromAccountNumber, v.FromOwnerName, v.FromUserID = "TR2", "Mehmet", 99

		entries := shapeEntries(account, []domain.TransactionView{v})
		require.Len(t, entries, 1)
		assert.Equal(t, "in", entries[0].Direction)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("1.00")))
	})

	t.Run("SelfEntryIsNeutral", func(t *testing.T) {
		v := view(&one, &one, "50.00", "50.00")

		entries := shapeEntries(account, []domain.TransactionView{v})
		require.Len(t, entries, 1)
		assert.Equal(t, "neutral", entries[0].Direction)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("50.00")))
	})

	t.Run("HouseLegLabeledAsTeller", func(t *testing.T) {
		v := view(nil, &one, "250.00", "250.00")
		v.Kind = domain.KindAdminDeposit

		entries := shapeEntries(account, []domain.TransactionView{v})
		require.Len(t, entries, 1)
		assert.Equal(t, "in", entries[0].Direction)
		assert.Equal(t, "Bank / Teller Operation", entries[0].Counterparty)
	})

	t.Run("OwnAccountCounterparty", func(t *testing.T) {
		v := view(&one, &two, "100.00", "100.00")
		v.ToAccountNumber, v.ToOwnerName, v.ToUserID = "TR2", "Ayşe Demir", 10

		entries := shapeEntries(account, []domain.TransactionView{v})
		assert.Equal(t, "Own account TR2", entries[0].Counterparty)
	})
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

	t.Run("NamedWindows", func(t *testing.T) {
		from, to := resolvePeriod("1month", nil, nil, now)
		require.NotNil(t, from)
		assert.Equal(t, now.AddDate(0, -1, 0), *from)
		assert.Nil(t, to)

		from, _ = resolvePeriod("1year", nil, nil, now)
		assert.Equal(t, now.AddDate(-1, 0, 0), *from)
	})

	t.Run("CustomIncludesWholeEndDay", func(t *testing.T) {
		start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, time.February, 1, 15, 30, 0, 0, time.UTC)

		from, to := resolvePeriod("custom", &start, &end, now)
		assert.Equal(t, start, *from)
		assert.Equal(t, time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), *to)
	})

	t.Run("UnknownMeansFullHistory", func(t *testing.T) {
		from, to := resolvePeriod("all", nil, nil, now)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})
}
