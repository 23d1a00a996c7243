package snapshot

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Distribution maps a membership type to its active-client count. It is
// stored as a jsonb column.
type Distribution map[string]int

func (d Distribution) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(Distribution{})
	}
	return json.Marshal(d)
}

func (d *Distribution) Scan(src interface{}) error {
	if src == nil {
		*d = Distribution{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported distribution type %T", src)
	}
}

// MonthlySnapshot is one gym's aggregated metrics for one calendar month.
// Rows are keyed by (gym_id, year, month) and regeneration overwrites in
// place, so a snapshot always reflects the latest run.
type MonthlySnapshot struct {
	ID                      int          `db:"id" json:"id"`
	GymID                   int          `db:"gym_id" json:"gym_id"`
	Year                    int          `db:"year" json:"year"`
	Month                   int          `db:"month" json:"month"`
	Revenue                 float64      `db:"revenue" json:"revenue"`
	TotalClients            int          `db:"total_clients" json:"total_clients"`
	TotalCheckIns           int          `db:"total_check_ins" json:"total_check_ins"`
	NewClients              int          `db:"new_clients" json:"new_clients"`
	MembershipDistribution  Distribution `db:"membership_distribution" json:"membership_distribution"`
	ChurnedClients          int          `db:"churned_clients" json:"churned_clients"`
	AverageRevenuePerClient float64      `db:"average_revenue_per_client" json:"average_revenue_per_client"`
	GeneratedAt             time.Time    `db:"generated_at" json:"generated_at"`
}

var ErrSnapshotNotFound = errors.New("snapshot not found")

type GenerateSnapshotRequest struct {
	GymID int `json:"gym_id" binding:"required"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type BackfillRequest struct {
	GymID int `json:"gym_id" binding:"omitempty,min=1"`
}
