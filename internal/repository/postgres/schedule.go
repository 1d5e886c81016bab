package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

type scheduledTransferRepository struct {
	db *sql.DB
}

func NewScheduledTransferRepository(db *sql.DB) repository.ScheduledTransferRepository {
	return &scheduledTransferRepository{db: db}
}

func (r *scheduledTransferRepository) Create(ctx context.Context, st *domain.ScheduledTransfer) error {
	query := `INSERT INTO scheduled_transfers
	          (from_account_id, to_account_id, amount, description, frequency, day_of_month, day_of_week,
	           next_execution_date, end_date, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		st.FromAccountID, st.ToAccountID, st.Amount, st.Description, st.Frequency,
		st.DayOfMonth, st.DayOfWeek, st.NextExecution, st.EndDate, st.IsActive,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (r *scheduledTransferRepository) GetForOwner(ctx context.Context, id, ownerID int32) (*domain.ScheduledTransfer, error) {
	query := `SELECT st.id, st.from_account_id, st.to_account_id, st.amount, COALESCE(st.description, ''),
	                 st.frequency, st.day_of_month, st.day_of_week, st.next_execution_date, st.end_date,
	                 st.is_active, st.created_at, st.updated_at
	          FROM scheduled_transfers st
	          JOIN accounts fa ON st.from_account_id = fa.id
	          WHERE st.id = $1 AND fa.user_id = $2`
	var st domain.ScheduledTransfer
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&st.ID, &st.FromAccountID, &st.ToAccountID, &st.Amount, &st.Description,
		&st.Frequency, &st.DayOfMonth, &st.DayOfWeek, &st.NextExecution, &st.EndDate,
		&st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *scheduledTransferRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.ScheduledTransfer, error) {
	query := `SELECT st.id, st.from_account_id, st.to_account_id, st.amount, COALESCE(st.description, ''),
	                 st.frequency, st.day_of_month, st.day_of_week, st.next_execution_date, st.end_date,
	                 st.is_active, st.created_at, st.updated_at,
	                 fa.account_number, fa.owner_name, ta.account_number, ta.owner_name
	          FROM scheduled_transfers st
	          JOIN accounts fa ON st.from_account_id = fa.id
	          JOIN accounts ta ON st.to_account_id = ta.id
	          WHERE fa.user_id = $1
	          ORDER BY st.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduledTransfer
	for rows.Next() {
		var st domain.ScheduledTransfer
		if err := rows.Scan(
			&st.ID, &st.FromAccountID, &st.ToAccountID, &st.Amount, &st.Description,
			&st.Frequency, &st.DayOfMonth, &st.DayOfWeek, &st.NextExecution, &st.EndDate,
			&st.IsActive, &st.CreatedAt, &st.UpdatedAt,
			&st.FromAccountNumber, &st.FromOwnerName, &st.ToAccountNumber, &st.ToOwnerName); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (r *scheduledTransferRepository) Update(ctx context.Context, st *domain.ScheduledTransfer) error {
	query := `UPDATE scheduled_transfers
	          SET amount = $1, description = $2, frequency = $3, day_of_month = $4, day_of_week = $5,
	              next_execution_date = $6, end_date = $7, is_active = $8, updated_at = NOW()
	          WHERE id = $9`
	res, err := r.db.ExecContext(ctx, query,
		st.Amount, st.Description, st.Frequency, st.DayOfMonth, st.DayOfWeek,
		st.NextExecution, st.EndDate, st.IsActive, st.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *scheduledTransferRepository) Delete(ctx context.Context, id, ownerID int32) error {
	query := `DELETE FROM scheduled_transfers st
	          USING accounts fa
	          WHERE st.id = $1 AND st.from_account_id = fa.id AND fa.user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

// ListDue returns active instructions whose next-execution date has arrived
// and whose end date, if any, has not yet passed.
func (r *scheduledTransferRepository) ListDue(ctx context.Context, today time.Time) ([]domain.ScheduledTransfer, error) {
	query := `SELECT st.id, st.from_account_id, st.to_account_id, st.amount, COALESCE(st.description, ''),
	                 st.frequency, st.day_of_month, st.day_of_week, st.next_execution_date, st.end_date,
	                 st.is_active, st.created_at, st.updated_at
	          FROM scheduled_transfers st
	          WHERE st.is_active = TRUE
	            AND st.next_execution_date <= $1
	            AND (st.end_date IS NULL OR st.end_date >= $1)
	          ORDER BY st.id`
	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduledTransfer
	for rows.Next() {
		var st domain.ScheduledTransfer
		if err := rows.Scan(
			&st.ID, &st.FromAccountID, &st.ToAccountID, &st.Amount, &st.Description,
			&st.Frequency, &st.DayOfMonth, &st.DayOfWeek, &st.NextExecution, &st.EndDate,
			&st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

func (r *scheduledTransferRepository) AdvanceSkipped(ctx context.Context, id int32, prev, next time.Time) error {
	query := `UPDATE scheduled_transfers
	          SET next_execution_date = $1, updated_at = NOW()
	          WHERE id = $2 AND next_execution_date = $3`
	res, err := r.db.ExecContext(ctx, query, next, id, prev)
	if err != nil {
		return mapStorageErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrStorageConflict
	}
	return nil
}
