package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
	FrequencyYearly  Frequency = "Yearly"
)

// ScheduledTransfer is a recurring transfer instruction. NextExecutionDate
// carries date-only semantics and is always stored at UTC midnight. The
// amount is fixed at creation and never re-derived at execution time.
type ScheduledTransfer struct {
	ID            int32           `json:"id"`
	FromAccountID int32           `json:"from_account_id"`
	ToAccountID   int32           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Frequency     Frequency       `json:"frequency"`
	DayOfMonth    *int            `json:"day_of_month,omitempty"` // 1-31, Monthly only
	DayOfWeek     *int            `json:"day_of_week,omitempty"`  // 0=Sunday..6=Saturday, Weekly only
	NextExecution time.Time       `json:"next_execution_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Joined display fields, populated by list queries only.
	FromAccountNumber string `json:"from_account_number,omitempty"`
	FromOwnerName     string `json:"from_owner_name,omitempty"`
	ToAccountNumber   string `json:"to_account_number,omitempty"`
	ToOwnerName       string `json:"to_owner_name,omitempty"`
}
