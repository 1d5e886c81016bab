package domain

import "errors"

// Sentinel errors surfaced by the core services. Handlers translate these
// into HTTP status codes; the services never format user-facing messages.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRateUnavailable   = errors.New("exchange rate unavailable")
	ErrCurrencyMismatch  = errors.New("external transfers must use matching currencies")
	ErrInvalidFrequency  = errors.New("invalid frequency parameters")
	ErrAccountNotFound   = errors.New("account not found")
	ErrStorageConflict   = errors.New("storage conflict")

	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLoanNotFound       = errors.New("loan application not found")
	ErrLoanNotOpen        = errors.New("loan is not open for this operation")
	ErrCardNotFound       = errors.New("card not found")
	ErrScheduleNotFound   = errors.New("scheduled transfer not found")
	ErrLimitReached       = errors.New("maximum number reached for this type")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("unsupported currency")
	ErrSameAccount        = errors.New("source and destination are the same account")
)
