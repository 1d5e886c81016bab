package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"kuzeybank-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTransferRepository_ListDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScheduledTransferRepository(db)

	today := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "from_account_id", "to_account_id", "amount", "description",
		"frequency", "day_of_month", "day_of_week", "next_execution_date", "end_date",
		"is_active", "created_at", "updated_at",
	}).AddRow(1, 10, 20, "100.00", "rent", "Monthly", 14, nil, today, nil, true, today, today)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scheduled_transfers st`)).
		WithArgs(today).
		WillReturnRows(rows)

	due, err := repo.ListDue(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int32(1), due[0].ID)
	assert.Equal(t, domain.FrequencyMonthly, due[0].Frequency)
	require.NotNil(t, due[0].DayOfMonth)
	assert.Equal(t, 14, *due[0].DayOfMonth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledTransferRepository_AdvanceSkipped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScheduledTransferRepository(db)

	prev := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	next := prev.AddDate(0, 0, 1)

	t.Run("Advances", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_transfers`)).
			WithArgs(next, int32(1), prev).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdvanceSkipped(context.Background(), 1, prev, next)
		assert.NoError(t, err)
	})

	t.Run("GuardedByPreviousDate", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_transfers`)).
			WithArgs(next, int32(1), prev).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AdvanceSkipped(context.Background(), 1, prev, next)
		assert.ErrorIs(t, err, domain.ErrStorageConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
