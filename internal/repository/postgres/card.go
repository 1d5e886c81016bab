package postgres

import (
	"context"
	"database/sql"
	"errors"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

const cardColumns = `c.id, c.user_id, c.card_number, c.card_holder_name, c.expiry_date, c.cvv,
	c.card_type, c.linked_account_id, c.requested_limit, c.credit_limit, c.current_debt, c.status`

type cardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `INSERT INTO cards
	          (user_id, card_number, card_holder_name, expiry_date, cvv, card_type, linked_account_id,
	           requested_limit, credit_limit, current_debt, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		card.UserID, card.CardNumber, card.CardHolderName, card.ExpiryDate, card.CVV, card.CardType,
		card.LinkedAccountID, card.RequestedLimit, card.CreditLimit, card.CurrentDebt, card.Status,
	).Scan(&card.ID)
}

func (r *cardRepository) GetByID(ctx context.Context, id int32) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + `, u.username
	          FROM cards c JOIN users u ON c.user_id = u.id WHERE c.id = $1`
	var c domain.Card
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.CardNumber, &c.CardHolderName, &c.ExpiryDate, &c.CVV,
		&c.CardType, &c.LinkedAccountID, &c.RequestedLimit, &c.CreditLimit, &c.CurrentDebt, &c.Status,
		&c.HolderUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + `, '' FROM cards c WHERE c.user_id = $1 ORDER BY c.id DESC`
	return r.queryCards(ctx, query, userID)
}

func (r *cardRepository) List(ctx context.Context) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + `, '' FROM cards c ORDER BY c.id DESC`
	return r.queryCards(ctx, query)
}

func (r *cardRepository) ListCreditApplications(ctx context.Context) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + `, u.username
	          FROM cards c JOIN users u ON c.user_id = u.id
	          WHERE c.card_type = $1 ORDER BY c.id DESC`
	return r.queryCards(ctx, query, domain.CardTypeCredit)
}

func (r *cardRepository) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.CardNumber, &c.CardHolderName, &c.ExpiryDate, &c.CVV,
			&c.CardType, &c.LinkedAccountID, &c.RequestedLimit, &c.CreditLimit, &c.CurrentDebt, &c.Status,
			&c.HolderUsername); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) CountNonRejectedByType(ctx context.Context, userID int32, cardType domain.CardType) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM cards WHERE user_id = $1 AND card_type = $2 AND status != $3`
	err := r.db.QueryRowContext(ctx, query, userID, cardType, domain.CardStatusRejected).Scan(&count)
	return count, err
}

func (r *cardRepository) Update(ctx context.Context, card *domain.Card) error {
	query := `UPDATE cards SET credit_limit = $1, current_debt = $2, status = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, card.CreditLimit, card.CurrentDebt, card.Status, card.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}
