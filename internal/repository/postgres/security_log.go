package postgres

import (
	"context"
	"database/sql"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

type securityLogRepository struct {
	db *sql.DB
}

func NewSecurityLogRepository(db *sql.DB) repository.SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (r *securityLogRepository) Create(ctx context.Context, entry *domain.SecurityLog) error {
	query := `INSERT INTO security_logs (user_id, action, details, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Action, entry.Details, entry.Timestamp,
	).Scan(&entry.ID)
}

func (r *securityLogRepository) ListRecent(ctx context.Context, limit int32) ([]domain.SecurityLog, error) {
	query := `SELECT l.id, l.user_id, l.action, COALESCE(l.details, ''), l.created_at,
	                 COALESCE(u.full_name, u.username, 'Deleted User')
	          FROM security_logs l
	          LEFT JOIN users u ON l.user_id = u.id
	          ORDER BY l.created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.SecurityLog
	for rows.Next() {
		var l domain.SecurityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.Timestamp, &l.UserName); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
