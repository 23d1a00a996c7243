package snapshot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gymcontrol/internal/access"
	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"
	"gymcontrol/internal/metrics"
	"gymcontrol/internal/payment"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

type Service interface {
	GenerateSnapshot(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error)
	GetSnapshot(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error)
	ListSnapshots(ctx context.Context, gymID int) ([]MonthlySnapshot, error)
}

type service struct {
	snapshots Repository
	clients   membership.Repository
	payments  payment.Repository
	logs      access.Repository
	now       func() time.Time
}

func NewService(snapshots Repository, clients membership.Repository, payments payment.Repository, logs access.Repository) Service {
	return &service{
		snapshots: snapshots,
		clients:   clients,
		payments:  payments,
		logs:      logs,
		now:       time.Now,
	}
}

// monthRange returns the half-open interval [first of month, first of next
// month) in UTC.
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GenerateSnapshot computes all metrics for one gym and month and writes
// them in a single upsert. Reads happen up front so a failed query aborts
// the run before anything is stored, leaving any previous snapshot intact.
func (s *service) GenerateSnapshot(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	from, to := monthRange(year, month)

	revenue, err := s.payments.SumCompletedInRange(ctx, gymID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	totalClients, err := s.clients.CountActiveAsOf(ctx, gymID, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count active clients: %w", err)
	}

	totalCheckIns, err := s.logs.CountInRange(ctx, gymID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	newClients, err := s.clients.CountCreatedBetween(ctx, gymID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count new clients: %w", err)
	}

	distribution, err := s.clients.DistributionAsOf(ctx, gymID, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute membership distribution: %w", err)
	}

	churned, err := s.clients.CountChurnedBetween(ctx, gymID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count churned clients: %w", err)
	}

	avgRevenue := 0.0
	if totalClients > 0 {
		avgRevenue = math.Round(revenue/float64(totalClients)*100) / 100
	}

	snap := &MonthlySnapshot{
		GymID:                   gymID,
		Year:                    year,
		Month:                   month,
		Revenue:                 revenue,
		TotalClients:            totalClients,
		TotalCheckIns:           totalCheckIns,
		NewClients:              newClients,
		MembershipDistribution:  distribution,
		ChurnedClients:          churned,
		AverageRevenuePerClient: avgRevenue,
		GeneratedAt:             s.now(),
	}

	saved, err := s.snapshots.Upsert(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	logger.Infof("Generated snapshot for gym %d, %04d-%02d", gymID, year, month)
	metrics.RecordSnapshot()
	return saved, nil
}

func (s *service) GetSnapshot(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	return s.snapshots.GetByKey(ctx, gymID, year, month)
}

func (s *service) ListSnapshots(ctx context.Context, gymID int) ([]MonthlySnapshot, error) {
	return s.snapshots.ListByGym(ctx, gymID)
}
