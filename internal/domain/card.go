package domain

import "github.com/shopspring/decimal"

type CardType string

const (
	CardTypeDebit  CardType = "Debit"
	CardTypeCredit CardType = "Credit"
)

type CardStatus string

const (
	CardStatusActive   CardStatus = "Active"
	CardStatusPending  CardStatus = "Pending"
	CardStatusRejected CardStatus = "Rejected"
)

// MaxCardsPerType caps non-rejected cards a customer may hold per type.
const MaxCardsPerType = 6

// Card holds display data only, not payment-network data. Debit cards link
// to one of the owner's accounts; credit cards carry a requested limit that
// an admin turns into an approved limit.
type Card struct {
	ID              int32           `json:"id"`
	UserID          int32           `json:"user_id"`
	CardNumber      string          `json:"card_number"`
	CardHolderName  string          `json:"card_holder_name"`
	ExpiryDate      string          `json:"expiry_date"` // MM/yy
	CVV             string          `json:"cvv"`
	CardType        CardType        `json:"card_type"`
	LinkedAccountID *int32          `json:"linked_account_id,omitempty"`
	RequestedLimit  decimal.Decimal `json:"requested_limit"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentDebt     decimal.Decimal `json:"current_debt"`
	Status          CardStatus      `json:"status"`

	HolderUsername string `json:"holder_username,omitempty"` // joined for admin views
}
