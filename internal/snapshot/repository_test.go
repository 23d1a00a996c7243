package snapshot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var snapshotRows = []string{
	"id", "gym_id", "year", "month", "revenue", "total_clients", "total_check_ins",
	"new_clients", "membership_distribution", "churned_clients",
	"average_revenue_per_client", "generated_at",
}

func TestRepositoryUpsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	generatedAt := time.Date(2025, time.February, 1, 3, 0, 0, 0, time.UTC)
	dist := Distribution{"basico": 6, "pro": 3}

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (gym_id, year, month) DO UPDATE SET`)).
		WithArgs(1, 2025, 1, 1500.50, 10, 230, 3, dist, 2, 150.05, generatedAt).
		WillReturnRows(sqlmock.NewRows(snapshotRows).
			AddRow(7, 1, 2025, 1, 1500.50, 10, 230, 3, []byte(`{"basico":6,"pro":3}`), 2, 150.05, generatedAt))

	saved, err := repo.Upsert(context.Background(), &MonthlySnapshot{
		GymID:                   1,
		Year:                    2025,
		Month:                   1,
		Revenue:                 1500.50,
		TotalClients:            10,
		TotalCheckIns:           230,
		NewClients:              3,
		MembershipDistribution:  dist,
		ChurnedClients:          2,
		AverageRevenuePerClient: 150.05,
		GeneratedAt:             generatedAt,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, saved.ID)
	assert.Equal(t, Distribution{"basico": 6, "pro": 3}, saved.MembershipDistribution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByKey(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRepository(db)

		generatedAt := time.Date(2025, time.February, 1, 3, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE gym_id = $1 AND year = $2 AND month = $3`)).
			WithArgs(1, 2025, 1).
			WillReturnRows(sqlmock.NewRows(snapshotRows).
				AddRow(7, 1, 2025, 1, 1500.50, 10, 230, 3, []byte(`{"basico":6}`), 2, 150.05, generatedAt))

		snap, err := repo.GetByKey(context.Background(), 1, 2025, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, snap.TotalClients)
		assert.Equal(t, 6, snap.MembershipDistribution["basico"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE gym_id = $1 AND year = $2 AND month = $3`)).
			WithArgs(1, 2025, 6).
			WillReturnRows(sqlmock.NewRows(snapshotRows))

		_, err := repo.GetByKey(context.Background(), 1, 2025, 6)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})
}

func TestRepositoryListByGym(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	generatedAt := time.Date(2025, time.March, 1, 3, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY year DESC, month DESC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(snapshotRows).
			AddRow(8, 1, 2025, 2, 900.0, 8, 180, 1, []byte(`{"basico":5,"pro":3}`), 0, 112.50, generatedAt).
			AddRow(7, 1, 2025, 1, 1500.50, 10, 230, 3, []byte(`{"basico":6,"pro":3}`), 2, 150.05, generatedAt))

	snaps, err := repo.ListByGym(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 2, snaps[0].Month)
	assert.Equal(t, 1, snaps[1].Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistributionScan(t *testing.T) {
	var d Distribution
	require.NoError(t, d.Scan([]byte(`{"basico":2,"proplus":1}`)))
	assert.Equal(t, Distribution{"basico": 2, "proplus": 1}, d)

	require.NoError(t, d.Scan(nil))
	assert.Empty(t, d)
}
