package domain

import "github.com/shopspring/decimal"

// Rate is one currency's quote against the base currency. Ephemeral: cached
// with a short TTL by the rate provider, never persisted.
type Rate struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Buying  decimal.Decimal `json:"buying"`
	Selling decimal.Decimal `json:"selling"`
}
