package membership

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, client *Client) (*Client, error)
	GetByIDAndGym(ctx context.Context, clientID, gymID int) (*Client, error)
	Renew(ctx context.Context, clientID int, startDate, endDate time.Time, period string, membershipType MembershipType) (*Client, error)
	Deactivate(ctx context.Context, clientID int) error
	ExpireDue(ctx context.Context, gymID int, now time.Time) (int64, error)
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]Client, error)

	// Aggregation queries used by the snapshot engine. CountActiveAsOf and
	// DistributionAsOf reconstruct "still within the paid period as of" a
	// point in time, independent of the live is_active flag.
	CountActiveAsOf(ctx context.Context, gymID int, asOf time.Time) (int, error)
	CountCreatedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error)
	CountChurnedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error)
	DistributionAsOf(ctx context.Context, gymID int, asOf time.Time) (map[string]int, error)
}
