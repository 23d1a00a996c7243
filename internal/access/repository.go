package access

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, log *AccessLog) (*AccessLog, error) {
	query := `
		INSERT INTO access_logs (client_id, gym_id, method, status, deny_reason, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, client_id, gym_id, method, status, deny_reason, date
	`

	var inserted AccessLog
	err := r.db.QueryRowxContext(ctx, query,
		log.ClientID, log.GymID, log.Method, log.Status, log.DenyReason, log.Date,
	).StructScan(&inserted)
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}

func (r *repository) CountInRange(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM access_logs
		WHERE gym_id = $1 AND date >= $2 AND date < $3
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, from, to)
	return count, err
}

func (r *repository) ListByGym(ctx context.Context, gymID int, limit, offset int) ([]AccessLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, client_id, gym_id, method, status, deny_reason, date
		FROM access_logs
		WHERE gym_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`

	var logs []AccessLog
	err := r.db.SelectContext(ctx, &logs, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}

	return logs, nil
}
