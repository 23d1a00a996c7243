package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymcontrol/internal/access"
	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"
	"gymcontrol/internal/payment"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockSnapshotRepository is a mock implementation of Repository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snap *MonthlySnapshot) (*MonthlySnapshot, error) {
	args := m.Called(ctx, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MonthlySnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) GetByKey(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error) {
	args := m.Called(ctx, gymID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MonthlySnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListByGym(ctx context.Context, gymID int) ([]MonthlySnapshot, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MonthlySnapshot), args.Error(1)
}

// MockClientStore is a mock implementation of membership.Repository
type MockClientStore struct {
	mock.Mock
}

func (m *MockClientStore) Create(ctx context.Context, client *membership.Client) (*membership.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Client), args.Error(1)
}

func (m *MockClientStore) GetByIDAndGym(ctx context.Context, clientID, gymID int) (*membership.Client, error) {
	args := m.Called(ctx, clientID, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Client), args.Error(1)
}

func (m *MockClientStore) Renew(ctx context.Context, clientID int, startDate, endDate time.Time, period string, membershipType membership.MembershipType) (*membership.Client, error) {
	args := m.Called(ctx, clientID, startDate, endDate, period, membershipType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Client), args.Error(1)
}

func (m *MockClientStore) Deactivate(ctx context.Context, clientID int) error {
	return m.Called(ctx, clientID).Error(0)
}

func (m *MockClientStore) ExpireDue(ctx context.Context, gymID int, now time.Time) (int64, error) {
	args := m.Called(ctx, gymID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientStore) ExpiringBetween(ctx context.Context, from, to time.Time) ([]membership.Client, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.Client), args.Error(1)
}

func (m *MockClientStore) CountActiveAsOf(ctx context.Context, gymID int, asOf time.Time) (int, error) {
	args := m.Called(ctx, gymID, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockClientStore) CountCreatedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	args := m.Called(ctx, gymID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockClientStore) CountChurnedBetween(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	args := m.Called(ctx, gymID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockClientStore) DistributionAsOf(ctx context.Context, gymID int, asOf time.Time) (map[string]int, error) {
	args := m.Called(ctx, gymID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockPaymentStore is a mock implementation of payment.Repository
type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) Create(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentStore) ListByGym(ctx context.Context, gymID int, limit, offset int) ([]payment.Payment, error) {
	args := m.Called(ctx, gymID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentStore) SumCompletedInRange(ctx context.Context, gymID int, from, to time.Time) (float64, error) {
	args := m.Called(ctx, gymID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPaymentStore) EarliestPaymentDate(ctx context.Context, gymID int) (*time.Time, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockAccessStore is a mock implementation of access.Repository
type MockAccessStore struct {
	mock.Mock
}

func (m *MockAccessStore) Insert(ctx context.Context, log *access.AccessLog) (*access.AccessLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.AccessLog), args.Error(1)
}

func (m *MockAccessStore) CountInRange(ctx context.Context, gymID int, from, to time.Time) (int, error) {
	args := m.Called(ctx, gymID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockAccessStore) ListByGym(ctx context.Context, gymID int, limit, offset int) ([]access.AccessLog, error) {
	args := m.Called(ctx, gymID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.AccessLog), args.Error(1)
}

type serviceMocks struct {
	snapshots *MockSnapshotRepository
	clients   *MockClientStore
	payments  *MockPaymentStore
	logs      *MockAccessStore
}

func newTestService(t *testing.T) (Service, serviceMocks) {
	t.Helper()
	m := serviceMocks{
		snapshots: new(MockSnapshotRepository),
		clients:   new(MockClientStore),
		payments:  new(MockPaymentStore),
		logs:      new(MockAccessStore),
	}
	svc := NewService(m.snapshots, m.clients, m.payments, m.logs).(*service)
	svc.now = func() time.Time {
		return time.Date(2025, time.February, 1, 3, 0, 0, 0, time.UTC)
	}
	return svc, m
}

func TestGenerateSnapshot(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Computes all metrics over the month window", func(t *testing.T) {
		svc, m := newTestService(t)

		m.payments.On("SumCompletedInRange", ctx, 1, from, to).Return(1500.50, nil)
		m.clients.On("CountActiveAsOf", ctx, 1, to).Return(10, nil)
		m.logs.On("CountInRange", ctx, 1, from, to).Return(230, nil)
		m.clients.On("CountCreatedBetween", ctx, 1, from, to).Return(3, nil)
		m.clients.On("DistributionAsOf", ctx, 1, to).Return(map[string]int{"basico": 6, "pro": 3, "proplus": 1}, nil)
		m.clients.On("CountChurnedBetween", ctx, 1, from, to).Return(2, nil)
		m.snapshots.On("Upsert", ctx, mock.MatchedBy(func(s *MonthlySnapshot) bool {
			return s.GymID == 1 && s.Year == 2025 && s.Month == 1 &&
				s.Revenue == 1500.50 && s.TotalClients == 10 &&
				s.TotalCheckIns == 230 && s.NewClients == 3 &&
				s.ChurnedClients == 2 && s.AverageRevenuePerClient == 150.05
		})).Return(&MonthlySnapshot{ID: 1, GymID: 1, Year: 2025, Month: 1}, nil)

		snap, err := svc.GenerateSnapshot(ctx, 1, 2025, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.ID)
		m.snapshots.AssertExpectations(t)
	})

	t.Run("Average revenue is zero when no clients are active", func(t *testing.T) {
		svc, m := newTestService(t)

		m.payments.On("SumCompletedInRange", ctx, 1, from, to).Return(300.0, nil)
		m.clients.On("CountActiveAsOf", ctx, 1, to).Return(0, nil)
		m.logs.On("CountInRange", ctx, 1, from, to).Return(0, nil)
		m.clients.On("CountCreatedBetween", ctx, 1, from, to).Return(0, nil)
		m.clients.On("DistributionAsOf", ctx, 1, to).Return(map[string]int{}, nil)
		m.clients.On("CountChurnedBetween", ctx, 1, from, to).Return(0, nil)
		m.snapshots.On("Upsert", ctx, mock.MatchedBy(func(s *MonthlySnapshot) bool {
			return s.AverageRevenuePerClient == 0 && s.Revenue == 300.0
		})).Return(&MonthlySnapshot{ID: 2}, nil)

		_, err := svc.GenerateSnapshot(ctx, 1, 2025, 1)
		require.NoError(t, err)
		m.snapshots.AssertExpectations(t)
	})

	t.Run("Average revenue rounds to two decimals", func(t *testing.T) {
		svc, m := newTestService(t)

		m.payments.On("SumCompletedInRange", ctx, 1, from, to).Return(100.0, nil)
		m.clients.On("CountActiveAsOf", ctx, 1, to).Return(3, nil)
		m.logs.On("CountInRange", ctx, 1, from, to).Return(0, nil)
		m.clients.On("CountCreatedBetween", ctx, 1, from, to).Return(0, nil)
		m.clients.On("DistributionAsOf", ctx, 1, to).Return(map[string]int{"basico": 3}, nil)
		m.clients.On("CountChurnedBetween", ctx, 1, from, to).Return(0, nil)
		m.snapshots.On("Upsert", ctx, mock.MatchedBy(func(s *MonthlySnapshot) bool {
			return s.AverageRevenuePerClient == 33.33
		})).Return(&MonthlySnapshot{}, nil)

		_, err := svc.GenerateSnapshot(ctx, 1, 2025, 1)
		require.NoError(t, err)
		m.snapshots.AssertExpectations(t)
	})

	t.Run("Rejects an out-of-range month", func(t *testing.T) {
		svc, m := newTestService(t)

		_, err := svc.GenerateSnapshot(ctx, 1, 2025, 13)
		assert.ErrorIs(t, err, ErrInvalidMonth)
		m.snapshots.AssertNotCalled(t, "Upsert")
	})

	t.Run("A failed read aborts before anything is written", func(t *testing.T) {
		svc, m := newTestService(t)

		m.payments.On("SumCompletedInRange", ctx, 1, from, to).Return(1500.50, nil)
		m.clients.On("CountActiveAsOf", ctx, 1, to).Return(0, errors.New("db down"))

		_, err := svc.GenerateSnapshot(ctx, 1, 2025, 1)
		assert.Error(t, err)
		m.snapshots.AssertNotCalled(t, "Upsert")
	})

	t.Run("Upsert failure surfaces", func(t *testing.T) {
		svc, m := newTestService(t)

		m.payments.On("SumCompletedInRange", ctx, 1, from, to).Return(0.0, nil)
		m.clients.On("CountActiveAsOf", ctx, 1, to).Return(0, nil)
		m.logs.On("CountInRange", ctx, 1, from, to).Return(0, nil)
		m.clients.On("CountCreatedBetween", ctx, 1, from, to).Return(0, nil)
		m.clients.On("DistributionAsOf", ctx, 1, to).Return(map[string]int{}, nil)
		m.clients.On("CountChurnedBetween", ctx, 1, from, to).Return(0, nil)
		m.snapshots.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("constraint violated"))

		_, err := svc.GenerateSnapshot(ctx, 1, 2025, 1)
		assert.Error(t, err)
	})
}

func TestMonthRange(t *testing.T) {
	t.Run("Regular month", func(t *testing.T) {
		from, to := monthRange(2025, 1)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("December rolls into the next year", func(t *testing.T) {
		from, to := monthRange(2024, 12)
		assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), to)
	})
}
