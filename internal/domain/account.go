package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the local currency every cross-currency conversion is
// routed through.
const BaseCurrency = "TL"

// SupportedCurrencies lists the currencies customers may open accounts in.
var SupportedCurrencies = []string{"TL", "USD", "EUR", "ALTIN"}

// MaxAccountsPerCurrency caps how many accounts one customer may hold in a
// single currency. Enforced by the account service, never by the ledger.
const MaxAccountsPerCurrency = 6

type Account struct {
	ID            int32           `json:"id"`
	AccountNumber string          `json:"account_number"`
	UserID        int32           `json:"user_id"`
	OwnerName     string          `json:"owner_name"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
