package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrClientNotFound = errors.New("client not found in this gym")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const clientColumns = `id, gym_id, name, email, membership_type, payment_method, selected_period, start_date, end_date, is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, client *Client) (*Client, error) {
	query := `
		INSERT INTO clients (gym_id, name, email, membership_type, payment_method, selected_period, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING ` + clientColumns

	var created Client
	err := r.db.QueryRowxContext(ctx, query,
		client.GymID, client.Name, client.Email, client.MembershipType,
		client.PaymentMethod, client.SelectedPeriod, client.StartDate, client.EndDate,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByIDAndGym(ctx context.Context, clientID, gymID int) (*Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1 AND gym_id = $2
	`

	var client Client
	err := r.db.GetContext(ctx, &client, query, clientID, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &client, nil
}

func (r *repository) Renew(ctx context.Context, clientID int, startDate, endDate time.Time, period string, membershipType MembershipType) (*Client, error) {
	query := `
		UPDATE clients
		SET start_date = $2,
		    end_date = $3,
		    selected_period = $4,
		    membership_type = $5,
		    is_active = TRUE,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + clientColumns

	var client Client
	err := r.db.QueryRowxContext(ctx, query, clientID, startDate, endDate, period, membershipType).StructScan(&client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &client, nil
}

// Deactivate is a guarded write: it only flips clients that are still
// marked active, so a concurrent sweep and a lazy transition cannot
// disagree about the target state.
func (r *repository) Deactivate(ctx context.Context, clientID int) error {
	query := `
		UPDATE clients
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`

	_, err := r.db.ExecContext(ctx, query, clientID)
	return err
}

func (r *repository) ExpireDue(ctx context.Context, gymID int, now time.Time) (int64, error) {
	query := `
		UPDATE clients
		SET is_active = FALSE, updated_at = NOW()
		WHERE gym_id = $1 AND is_active = TRUE AND end_date IS NOT NULL AND end_date < $2
	`

	result, err := r.db.ExecContext(ctx, query, gymID, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) ExpiringBetween(ctx context.Context, from, to time.Time) ([]Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE is_active = TRUE AND end_date >= $1 AND end_date < $2
		ORDER BY end_date ASC
	`

	var clients []Client
	err := r.db.SelectContext(ctx, &clients, query, from, to)
	if err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *repository) CountActiveAsOf(ctx context.Context, gymID int, asOf time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clients
		WHERE gym_id = $1
		  AND created_at < $2
		  AND (end_date IS NULL OR end_date >= $2)
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, asOf)
	return count, err
}

func (r *repository) CountCreatedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clients
		WHERE gym_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, from, to)
	return count, err
}

func (r *repository) CountChurnedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clients
		WHERE gym_id = $1 AND is_active = FALSE AND end_date >= $2 AND end_date < $3
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, from, to)
	return count, err
}

func (r *repository) DistributionAsOf(ctx context.Context, gymID int, asOf time.Time) (map[string]int, error) {
	query := `
		SELECT membership_type, COUNT(*) AS count
		FROM clients
		WHERE gym_id = $1
		  AND created_at < $2
		  AND (end_date IS NULL OR end_date >= $2)
		  AND membership_type IN ('basico', 'pro', 'proplus')
		GROUP BY membership_type
	`

	rows := []struct {
		MembershipType string `db:"membership_type"`
		Count          int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, gymID, asOf); err != nil {
		return nil, err
	}

	distribution := make(map[string]int, len(rows))
	for _, row := range rows {
		distribution[row.MembershipType] = row.Count
	}

	return distribution, nil
}
