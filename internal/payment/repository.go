package payment

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (gym_id, client_id, amount, method, status, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, gym_id, client_id, amount, method, status, date, created_at
	`

	var created Payment
	err := r.db.QueryRowxContext(ctx, query,
		payment.GymID, payment.ClientID, payment.Amount, payment.Method, payment.Status, payment.Date,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int, limit, offset int) ([]Payment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, gym_id, client_id, amount, method, status, date, created_at
		FROM payments
		WHERE gym_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, query, gymID, limit, offset)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *repository) SumCompletedInRange(ctx context.Context, gymID int, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE gym_id = $1 AND status = 'completed' AND date >= $2 AND date < $3
	`

	var total float64
	err := r.db.GetContext(ctx, &total, query, gymID, from, to)
	return total, err
}

func (r *repository) EarliestPaymentDate(ctx context.Context, gymID int) (*time.Time, error) {
	query := `
		SELECT MIN(date)
		FROM payments
		WHERE gym_id = $1
	`

	var earliest sql.NullTime
	err := r.db.GetContext(ctx, &earliest, query, gymID)
	if err != nil {
		return nil, err
	}
	if !earliest.Valid {
		return nil, nil
	}

	return &earliest.Time, nil
}
