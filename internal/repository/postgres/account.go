package postgres

import (
	"context"
	"database/sql"
	"errors"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

const accountColumns = `a.id, a.account_number, a.user_id, a.owner_name, a.currency, a.balance, a.created_at`

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (account_number, user_id, owner_name, currency, balance, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		account.AccountNumber, account.UserID, account.OwnerName, account.Currency, account.Balance,
	).Scan(&account.ID, &account.CreatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.account_number = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, number))
}

func (r *accountRepository) GetByNumberForUser(ctx context.Context, number string, userID int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.account_number = $1 AND a.user_id = $2`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, number, userID))
}

func (r *accountRepository) FindByUserAndCurrency(ctx context.Context, userID int32, currency string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a
	          WHERE a.user_id = $1 AND a.currency = $2 ORDER BY a.id LIMIT 1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, userID, currency))
}

func (r *accountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.AccountNumber, &a.UserID, &a.OwnerName, &a.Currency, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a WHERE a.user_id = $1 ORDER BY a.id`
	return r.queryAccounts(ctx, query, userID)
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts a ORDER BY a.id`
	return r.queryAccounts(ctx, query)
}

func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.UserID, &a.OwnerName, &a.Currency, &a.Balance, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) CountByUserAndCurrency(ctx context.Context, userID int32, currency string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM accounts WHERE user_id = $1 AND currency = $2`
	err := r.db.QueryRowContext(ctx, query, userID, currency).Scan(&count)
	return count, err
}

func (r *accountRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`
	err := r.db.QueryRowContext(ctx, query, number).Scan(&exists)
	return exists, err
}
