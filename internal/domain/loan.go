package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "Pending"
	LoanStatusApproved LoanStatus = "Approved"
	LoanStatusRejected LoanStatus = "Rejected"
	LoanStatusPaidOff  LoanStatus = "PaidOff"
)

// PaidOffTolerance closes a loan once the remaining balance drops to or
// below this amount.
var PaidOffTolerance = decimal.RequireFromString("0.1")

// LoanApplication moves through a one-way state machine:
// Pending -> Approved|Rejected, Approved -> PaidOff.
type LoanApplication struct {
	ID              int32           `json:"id"`
	UserID          int32           `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	TermMonths      int32           `json:"term_months"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // percent per month
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	TotalRepayment  decimal.Decimal `json:"total_repayment"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          LoanStatus      `json:"status"`
	ApplicationDate time.Time       `json:"application_date"`

	ApplicantName string `json:"applicant_name,omitempty"` // joined for admin views
}
