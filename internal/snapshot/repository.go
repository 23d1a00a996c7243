package snapshot

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const snapshotColumns = `id, gym_id, year, month, revenue, total_clients, total_check_ins,
		new_clients, membership_distribution, churned_clients, average_revenue_per_client, generated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Upsert writes one snapshot row, replacing any previous run for the same
// gym and month. The unique index on (gym_id, year, month) makes the whole
// generate operation idempotent.
func (r *repository) Upsert(ctx context.Context, snap *MonthlySnapshot) (*MonthlySnapshot, error) {
	query := `
		INSERT INTO monthly_snapshots (
			gym_id, year, month, revenue, total_clients, total_check_ins,
			new_clients, membership_distribution, churned_clients,
			average_revenue_per_client, generated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (gym_id, year, month) DO UPDATE SET
			revenue = EXCLUDED.revenue,
			total_clients = EXCLUDED.total_clients,
			total_check_ins = EXCLUDED.total_check_ins,
			new_clients = EXCLUDED.new_clients,
			membership_distribution = EXCLUDED.membership_distribution,
			churned_clients = EXCLUDED.churned_clients,
			average_revenue_per_client = EXCLUDED.average_revenue_per_client,
			generated_at = EXCLUDED.generated_at
		RETURNING ` + snapshotColumns

	var saved MonthlySnapshot
	err := r.db.QueryRowxContext(ctx, query,
		snap.GymID, snap.Year, snap.Month, snap.Revenue, snap.TotalClients,
		snap.TotalCheckIns, snap.NewClients, snap.MembershipDistribution,
		snap.ChurnedClients, snap.AverageRevenuePerClient, snap.GeneratedAt,
	).StructScan(&saved)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (r *repository) GetByKey(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM monthly_snapshots
		WHERE gym_id = $1 AND year = $2 AND month = $3
	`

	var snap MonthlySnapshot
	err := r.db.GetContext(ctx, &snap, query, gymID, year, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	return &snap, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]MonthlySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM monthly_snapshots
		WHERE gym_id = $1
		ORDER BY year DESC, month DESC
	`

	var snaps []MonthlySnapshot
	err := r.db.SelectContext(ctx, &snaps, query, gymID)
	if err != nil {
		return nil, err
	}

	return snaps, nil
}
