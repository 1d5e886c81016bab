package postgres

import (
	"database/sql"
	"errors"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.AccountRepository
	repository.LedgerRepository
	repository.ScheduledTransferRepository
	repository.LoanRepository
	repository.CardRepository
	repository.SecurityLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                          db,
		UserRepository:              NewUserRepository(db),
		AccountRepository:           NewAccountRepository(db),
		LedgerRepository:            NewLedgerRepository(db),
		ScheduledTransferRepository: NewScheduledTransferRepository(db),
		LoanRepository:              NewLoanRepository(db),
		CardRepository:              NewCardRepository(db),
		SecurityLogRepository:       NewSecurityLogRepository(db),
	}
}

// mapStorageErr translates driver-level failures into domain errors.
// Serialization and deadlock failures become ErrStorageConflict so callers
// can retry with a fresh read.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrStorageConflict
		}
	}
	return err
}
