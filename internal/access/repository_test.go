package access

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

var logColumns = []string{"id", "client_id", "gym_id", "method", "status", "deny_reason", "date"}

func TestRepositoryInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	at := time.Date(2025, time.January, 17, 8, 30, 0, 0, time.UTC)
	reason := ReasonExpired

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO access_logs (client_id, gym_id, method, status, deny_reason, date)`)).
		WithArgs(10, 1, MethodQR, StatusDenied, &reason, at).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(5, 10, 1, MethodQR, StatusDenied, reason, at))

	inserted, err := repo.Insert(context.Background(), &AccessLog{
		ClientID:   10,
		GymID:      1,
		Method:     MethodQR,
		Status:     StatusDenied,
		DenyReason: &reason,
		Date:       at,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, inserted.ID)
	assert.Equal(t, StatusDenied, inserted.Status)
	require.NotNil(t, inserted.DenyReason)
	assert.Equal(t, ReasonExpired, *inserted.DenyReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCountInRange(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs(1, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountInRange(context.Background(), 1, from, to)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListByGym(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	at := time.Date(2025, time.January, 17, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE gym_id = $1`)).
		WithArgs(1, 50, 0).
		WillReturnRows(sqlmock.NewRows(logColumns).
			AddRow(2, 11, 1, MethodManual, StatusAllowed, nil, at).
			AddRow(1, 10, 1, MethodQR, StatusAllowed, nil, at.Add(-time.Hour)))

	logs, err := repo.ListByGym(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 11, logs[0].ClientID)
	assert.Nil(t, logs[0].DenyReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
