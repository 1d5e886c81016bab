package postgres

import (
	"context"
	"database/sql"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Apply(ctx context.Context, rec *domain.TransactionRecord) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return applyMovement(ctx, tx, rec)
	})
}

func (r *ledgerRepository) ApplyScheduled(ctx context.Context, rec *domain.TransactionRecord, instructionID int32, prev, next time.Time, stillActive bool) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		// Advance first: the previous-date guard makes the whole transaction
		// a no-op when this occurrence was already committed by an earlier tick.
		res, err := tx.ExecContext(ctx,
			`UPDATE scheduled_transfers
			 SET next_execution_date = $1, is_active = $2, updated_at = NOW()
			 WHERE id = $3 AND next_execution_date = $4`,
			next, stillActive, instructionID, prev)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrStorageConflict
		}
		return applyMovement(ctx, tx, rec)
	})
}

func (r *ledgerRepository) ApplyLoanEvent(ctx context.Context, rec *domain.TransactionRecord, loan *domain.LoanApplication) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := applyMovement(ctx, tx, rec); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE loan_applications SET status = $1, remaining_amount = $2 WHERE id = $3`,
			loan.Status, loan.RemainingAmount, loan.ID)
		return err
	})
}

func (r *ledgerRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapStorageErr(err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return mapStorageErr(err)
	}
	return mapStorageErr(tx.Commit())
}

// applyMovement mutates both balances and appends the ledger row inside the
// caller's transaction. Accounts are locked in id order and the source
// balance is re-checked under the lock, so a concurrent movement can never
// overdraw the account.
func applyMovement(ctx context.Context, tx *sql.Tx, rec *domain.TransactionRecord) error {
	selfOp := rec.FromAccountID != nil && rec.ToAccountID != nil && *rec.FromAccountID == *rec.ToAccountID

	for _, id := range lockOrder(rec.FromAccountID, rec.ToAccountID) {
		var balance decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
		if err == sql.ErrNoRows {
			return domain.ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		if rec.FromAccountID != nil && id == *rec.FromAccountID && balance.LessThan(rec.Amount) {
			return domain.ErrInsufficientFunds
		}
	}

	if !selfOp {
		if rec.FromAccountID != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE accounts SET balance = balance - $1 WHERE id = $2`,
				rec.Amount, *rec.FromAccountID); err != nil {
				return err
			}
		}
		if rec.ToAccountID != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE accounts SET balance = balance + $1 WHERE id = $2`,
				rec.ReceivedAmount, *rec.ToAccountID); err != nil {
				return err
			}
		}
	}

	query := `INSERT INTO transactions (reference, from_account_id, to_account_id, amount, received_amount, kind, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return tx.QueryRowContext(ctx, query,
		rec.Reference, rec.FromAccountID, rec.ToAccountID, rec.Amount, rec.ReceivedAmount,
		rec.Kind, rec.Details, rec.CreatedAt,
	).Scan(&rec.ID)
}

// lockOrder returns the distinct account ids of a movement in ascending
// order, the locking order that avoids deadlocks between crossing transfers.
func lockOrder(from, to *int32) []int32 {
	var ids []int32
	if from != nil {
		ids = append(ids, *from)
	}
	if to != nil && (from == nil || *to != *from) {
		ids = append(ids, *to)
	}
	if len(ids) == 2 && ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return ids
}

func (r *ledgerRepository) ListViewsByAccount(ctx context.Context, accountID int32, from, to *time.Time) ([]domain.TransactionView, error) {
	query := `SELECT t.id, t.reference, t.from_account_id, t.to_account_id, t.amount, t.received_amount,
	                 t.kind, COALESCE(t.details, ''), t.created_at,
	                 COALESCE(fa.account_number, ''), COALESCE(fu.full_name, fu.username, ''), COALESCE(fa.user_id, 0), COALESCE(fa.currency, ''),
	                 COALESCE(ta.account_number, ''), COALESCE(tu.full_name, tu.username, ''), COALESCE(ta.user_id, 0), COALESCE(ta.currency, '')
	          FROM transactions t
	          LEFT JOIN accounts fa ON t.from_account_id = fa.id
	          LEFT JOIN users fu ON fa.user_id = fu.id
	          LEFT JOIN accounts ta ON t.to_account_id = ta.id
	          LEFT JOIN users tu ON ta.user_id = tu.id
	          WHERE (t.from_account_id = $1 OR t.to_account_id = $1)
	            AND ($2::timestamptz IS NULL OR t.created_at >= $2)
	            AND ($3::timestamptz IS NULL OR t.created_at <= $3)
	          ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.TransactionView
	for rows.Next() {
		var v domain.TransactionView
		if err := rows.Scan(&v.ID, &v.Reference, &v.FromAccountID, &v.ToAccountID, &v.Amount, &v.ReceivedAmount,
			&v.Kind, &v.Details, &v.CreatedAt,
			&v.FromAccountNumber, &v.FromOwnerName, &v.FromUserID, &v.FromCurrency,
			&v.ToAccountNumber, &v.ToOwnerName, &v.ToUserID, &v.ToCurrency); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *ledgerRepository) ListAdminViews(ctx context.Context, limit int32) ([]domain.AdminTransactionView, error) {
	query := `SELECT t.id, t.created_at, t.amount, t.kind,
	                 COALESCE(fu.full_name, fu.username, 'Teller / Deposit'), COALESCE(fa.account_number, '-'),
	                 COALESCE(tu.full_name, tu.username, 'Teller / Withdrawal'), COALESCE(ta.account_number, '-')
	          FROM transactions t
	          LEFT JOIN accounts fa ON t.from_account_id = fa.id
	          LEFT JOIN users fu ON fa.user_id = fu.id
	          LEFT JOIN accounts ta ON t.to_account_id = ta.id
	          LEFT JOIN users tu ON ta.user_id = tu.id
	          ORDER BY t.created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.AdminTransactionView
	for rows.Next() {
		var v domain.AdminTransactionView
		if err := rows.Scan(&v.ID, &v.Date, &v.Amount, &v.Kind,
			&v.Sender, &v.SenderAccount, &v.Receiver, &v.ReceiverAccount); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
