package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/logger"
	"kuzeybank-backend/internal/repository"
)

// ScheduleView is the list shape shown to customers: the raw instruction
// plus resolved account labels and a human-readable frequency.
type ScheduleView struct {
	domain.ScheduledTransfer
	FrequencyText string `json:"frequency_text"`
}

type scheduleService struct {
	scheduleRepo repository.ScheduledTransferRepository
	accountRepo  repository.AccountRepository
	logRepo      repository.SecurityLogRepository
	transfers    TransferService
}

func NewScheduleService(
	scheduleRepo repository.ScheduledTransferRepository,
	accountRepo repository.AccountRepository,
	logRepo repository.SecurityLogRepository,
	transfers TransferService,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		accountRepo:  accountRepo,
		logRepo:      logRepo,
		transfers:    transfers,
	}
}

func (s *scheduleService) Create(ctx context.Context, userID int32, input ScheduleInput) (*domain.ScheduledTransfer, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := validateFrequency(input.Frequency, input.DayOfMonth, input.DayOfWeek); err != nil {
		return nil, err
	}

	from, err := s.accountRepo.GetByNumberForUser(ctx, input.FromAccountNumber, userID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByNumber(ctx, input.ToAccountNumber)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, domain.ErrSameAccount
	}
	if from.Currency != to.Currency && from.UserID != to.UserID {
		return nil, domain.ErrCurrencyMismatch
	}

	st := &domain.ScheduledTransfer{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        input.Amount,
		Description:   input.Description,
		Frequency:     input.Frequency,
		DayOfMonth:    input.DayOfMonth,
		DayOfWeek:     input.DayOfWeek,
		NextExecution: FirstExecution(input.Frequency, input.DayOfMonth, input.DayOfWeek, time.Now().UTC()),
		EndDate:       normalizeEndDate(input.EndDate),
		IsActive:      true,
	}
	if err := s.scheduleRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "SCHEDULED_TRANSFER_CREATED",
		fmt.Sprintf("instruction %d: %s %s from %s to %s, %s", st.ID, st.Amount, from.Currency, from.AccountNumber, to.AccountNumber, st.Frequency))
	return st, nil
}

func (s *scheduleService) List(ctx context.Context, userID int32) ([]ScheduleView, error) {
	items, err := s.scheduleRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ScheduleView, 0, len(items))
	for _, st := range items {
		views = append(views, ScheduleView{
			ScheduledTransfer: st,
			FrequencyText:     frequencyText(st.Frequency, st.DayOfMonth, st.DayOfWeek),
		})
	}
	return views, nil
}

func (s *scheduleService) Update(ctx context.Context, userID, id int32, input ScheduleInput) (*domain.ScheduledTransfer, error) {
	st, err := s.scheduleRepo.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !input.Amount.IsZero() {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		st.Amount = input.Amount
	}
	if input.Description != "" {
		st.Description = input.Description
	}
	if input.Frequency != "" {
		if err := validateFrequency(input.Frequency, input.DayOfMonth, input.DayOfWeek); err != nil {
			return nil, err
		}
		st.Frequency = input.Frequency
		st.DayOfMonth = input.DayOfMonth
		st.DayOfWeek = input.DayOfWeek
		st.NextExecution = FirstExecution(st.Frequency, st.DayOfMonth, st.DayOfWeek, time.Now().UTC())
	}
	if input.EndDate != nil {
		st.EndDate = normalizeEndDate(input.EndDate)
	}
	if input.IsActive != nil {
		st.IsActive = *input.IsActive
	}

	if err := s.scheduleRepo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *scheduleService) Delete(ctx context.Context, userID, id int32) error {
	if err := s.scheduleRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.audit(ctx, userID, "SCHEDULED_TRANSFER_DELETED", fmt.Sprintf("instruction %d", id))
	return nil
}

func (s *scheduleService) RunTick(ctx context.Context, now time.Time) (TickSummary, error) {
	today := dateOnly(now.UTC())

	due, err := s.scheduleRepo.ListDue(ctx, today)
	if err != nil {
		return TickSummary{}, err
	}

	summary := TickSummary{Due: len(due)}
	for i := range due {
		instr := &due[i]

		next := ComputeNext(instr.Frequency, instr.DayOfMonth, instr.NextExecution)
		stillActive := instr.EndDate == nil || !next.After(*instr.EndDate)

		_, execErr := s.transfers.ExecuteScheduled(ctx, instr, next, stillActive)
		switch {
		case execErr == nil:
			summary.Executed++
			if !stillActive {
				summary.Deactivated++
			}
		case errors.Is(execErr, domain.ErrInsufficientFunds):
			// Missed occurrences are not retried mid-cycle; the date still
			// advances so the instruction fires on its next natural date.
			if advErr := s.scheduleRepo.AdvanceSkipped(ctx, instr.ID, instr.NextExecution, next); advErr != nil {
				logger.Error("Failed to advance skipped instruction", "instruction_id", instr.ID, "error", advErr)
				summary.Failed++
				continue
			}
			s.auditOwner(ctx, instr, "SCHEDULED_TRANSFER_SKIPPED",
				fmt.Sprintf("instruction %d skipped: insufficient funds for %s", instr.ID, instr.Amount))
			summary.Skipped++
		case errors.Is(execErr, domain.ErrStorageConflict):
			// Another runner already advanced this instruction.
			logger.Warn("Instruction already advanced by a concurrent run", "instruction_id", instr.ID)
		default:
			logger.Error("Scheduled transfer failed", "instruction_id", instr.ID, "error", execErr)
			summary.Failed++
		}
	}
	return summary, nil
}

func (s *scheduleService) audit(ctx context.Context, userID int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    &userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (s *scheduleService) auditOwner(ctx context.Context, instr *domain.ScheduledTransfer, action, details string) {
	from, err := s.accountRepo.GetByID(ctx, instr.FromAccountID)
	if err != nil {
		_ = s.logRepo.Create(ctx, &domain.SecurityLog{Action: action, Details: details, Timestamp: time.Now().UTC()})
		return
	}
	s.audit(ctx, from.UserID, action, details)
}

func validateFrequency(freq domain.Frequency, dayOfMonth, dayOfWeek *int) error {
	switch freq {
	case domain.FrequencyDaily, domain.FrequencyYearly:
		return nil
	case domain.FrequencyWeekly:
		if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
			return domain.ErrInvalidFrequency
		}
		return nil
	case domain.FrequencyMonthly:
		if dayOfMonth != nil && (*dayOfMonth < 1 || *dayOfMonth > 31) {
			return domain.ErrInvalidFrequency
		}
		return nil
	default:
		return domain.ErrInvalidFrequency
	}
}

// FirstExecution picks the first run date for a new instruction, always
// strictly in the future relative to now.
func FirstExecution(freq domain.Frequency, dayOfMonth, dayOfWeek *int, now time.Time) time.Time {
	today := dateOnly(now)

	switch freq {
	case domain.FrequencyWeekly:
		target := time.Monday
		if dayOfWeek != nil {
			target = time.Weekday(*dayOfWeek)
		}
		next := today.AddDate(0, 0, 1)
		for next.Weekday() != target {
			next = next.AddDate(0, 0, 1)
		}
		return next

	case domain.FrequencyMonthly:
		day := today.Day()
		if dayOfMonth != nil {
			day = *dayOfMonth
		}
		candidate := monthlyDate(today.Year(), today.Month(), day)
		if !candidate.After(today) {
			candidate = monthlyDate(today.Year(), today.Month()+1, day)
		}
		return candidate

	case domain.FrequencyYearly:
		return today.AddDate(1, 0, 0)

	default: // Daily
		return today.AddDate(0, 0, 1)
	}
}

// ComputeNext advances from the given occurrence to the following one.
// Monthly schedules clamp the target day to the length of the next month,
// so a 31st-of-month instruction fires on Feb 28 and returns to the 31st
// in March.
func ComputeNext(freq domain.Frequency, dayOfMonth *int, from time.Time) time.Time {
	from = dateOnly(from)

	switch freq {
	case domain.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case domain.FrequencyMonthly:
		day := from.Day()
		if dayOfMonth != nil {
			day = *dayOfMonth
		}
		return monthlyDate(from.Year(), from.Month()+1, day)
	case domain.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default: // Daily
		return from.AddDate(0, 0, 1)
	}
}

// monthlyDate builds year/month/day at UTC midnight, clamping day to the
// month's length instead of letting time.Date roll it over.
func monthlyDate(year int, month time.Month, day int) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeEndDate(end *time.Time) *time.Time {
	if end == nil {
		return nil
	}
	d := dateOnly(end.UTC())
	return &d
}

func frequencyText(freq domain.Frequency, dayOfMonth, dayOfWeek *int) string {
	switch freq {
	case domain.FrequencyDaily:
		return "Every day"
	case domain.FrequencyWeekly:
		if dayOfWeek != nil {
			return "Every " + time.Weekday(*dayOfWeek).String()
		}
		return "Every week"
	case domain.FrequencyMonthly:
		if dayOfMonth != nil {
			return fmt.Sprintf("Monthly on day %d", *dayOfMonth)
		}
		return "Every month"
	case domain.FrequencyYearly:
		return "Every year"
	}
	return string(freq)
}
