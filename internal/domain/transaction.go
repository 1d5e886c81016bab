package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindTransfer          TransactionKind = "TRANSFER"
	KindSelfAccountOp     TransactionKind = "SELF_ACCOUNT_OP"
	KindCurrencyExchange  TransactionKind = "CURRENCY_EXCHANGE"
	KindAdminDeposit      TransactionKind = "ADMIN_DEPOSIT"
	KindAdminWithdraw     TransactionKind = "ADMIN_WITHDRAW"
	KindLoanDisbursement  TransactionKind = "LOAN_DISBURSEMENT"
	KindLoanRepayment     TransactionKind = "LOAN_REPAYMENT"
	KindScheduledTransfer TransactionKind = "SCHEDULED_TRANSFER"
)

// Valid reports whether k is one of the closed set of transaction kinds.
// The transfer engine rejects movements carrying anything else.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindTransfer, KindSelfAccountOp, KindCurrencyExchange,
		KindAdminDeposit, KindAdminWithdraw,
		KindLoanDisbursement, KindLoanRepayment, KindScheduledTransfer:
		return true
	}
	return false
}

// Leg is one side of a money movement: either a customer account or the
// bank's own side of a teller operation (the "house" leg, stored as NULL
// in the ledger).
type Leg struct {
	Account *Account
}

func AccountLeg(a *Account) Leg { return Leg{Account: a} }

func HouseLeg() Leg { return Leg{} }

func (l Leg) IsHouse() bool { return l.Account == nil }

// TransactionRecord is an append-only ledger entry. Amount is in the source
// currency; ReceivedAmount is what the destination side was credited, which
// differs from Amount only when currencies differ.
type TransactionRecord struct {
	ID             int32           `json:"id"`
	Reference      string          `json:"reference"`
	FromAccountID  *int32          `json:"from_account_id,omitempty"`
	ToAccountID    *int32          `json:"to_account_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	Kind           TransactionKind `json:"kind"`
	Details        string          `json:"details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransactionView is a ledger entry joined with counterparty data for one
// account's statement.
type TransactionView struct {
	TransactionRecord
	FromAccountNumber string `json:"from_account_number,omitempty"`
	FromOwnerName     string `json:"from_owner_name,omitempty"`
	FromUserID        int32  `json:"-"`
	FromCurrency      string `json:"-"`
	ToAccountNumber   string `json:"to_account_number,omitempty"`
	ToOwnerName       string `json:"to_owner_name,omitempty"`
	ToUserID          int32  `json:"-"`
	ToCurrency        string `json:"-"`
}

// AdminTransactionView is a ledger entry shaped for the admin panel, with
// house legs labeled as teller operations.
type AdminTransactionView struct {
	ID              int32           `json:"id"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            TransactionKind `json:"kind"`
	Sender          string          `json:"sender"`
	SenderAccount   string          `json:"sender_account"`
	Receiver        string          `json:"receiver"`
	ReceiverAccount string          `json:"receiver_account"`
}
