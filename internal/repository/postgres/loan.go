package postgres

import (
	"context"
	"database/sql"
	"errors"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

const loanColumns = `l.id, l.user_id, l.amount, l.term_months, l.interest_rate, l.monthly_payment,
	l.total_repayment, l.remaining_amount, l.status, l.application_date`

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.LoanApplication) error {
	query := `INSERT INTO loan_applications
	          (user_id, amount, term_months, interest_rate, monthly_payment, total_repayment, remaining_amount, status, application_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		loan.UserID, loan.Amount, loan.TermMonths, loan.InterestRate, loan.MonthlyPayment,
		loan.TotalRepayment, loan.RemainingAmount, loan.Status, loan.ApplicationDate,
	).Scan(&loan.ID)
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.LoanApplication, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_applications l WHERE l.id = $1`
	return r.scanLoan(r.db.QueryRowContext(ctx, query, id))
}

func (r *loanRepository) GetForUser(ctx context.Context, id, userID int32) (*domain.LoanApplication, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_applications l WHERE l.id = $1 AND l.user_id = $2`
	return r.scanLoan(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *loanRepository) scanLoan(row *sql.Row) (*domain.LoanApplication, error) {
	var l domain.LoanApplication
	err := row.Scan(&l.ID, &l.UserID, &l.Amount, &l.TermMonths, &l.InterestRate, &l.MonthlyPayment,
		&l.TotalRepayment, &l.RemainingAmount, &l.Status, &l.ApplicationDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID int32) ([]domain.LoanApplication, error) {
	query := `SELECT ` + loanColumns + `, '' FROM loan_applications l
	          WHERE l.user_id = $1 ORDER BY l.application_date DESC`
	return r.queryLoans(ctx, query, userID)
}

func (r *loanRepository) List(ctx context.Context) ([]domain.LoanApplication, error) {
	query := `SELECT ` + loanColumns + `, COALESCE(u.full_name, u.username)
	          FROM loan_applications l JOIN users u ON l.user_id = u.id
	          ORDER BY l.application_date DESC`
	return r.queryLoans(ctx, query)
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.LoanApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.LoanApplication
	for rows.Next() {
		var l domain.LoanApplication
		if err := rows.Scan(&l.ID, &l.UserID, &l.Amount, &l.TermMonths, &l.InterestRate, &l.MonthlyPayment,
			&l.TotalRepayment, &l.RemainingAmount, &l.Status, &l.ApplicationDate, &l.ApplicantName); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id int32, status domain.LoanStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE loan_applications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}
