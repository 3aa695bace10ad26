package calllog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_Insert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO call_log`).
		WithArgs(pgxmock.AnyArg(), "call_1", "Acme Paving", "+15085551234", "analyzed",
			int64(64000), "Caller wants a driveway estimate next week.", "", true, "lead keywords", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := sampleRecord("call_1")
	require.NoError(t, s.Insert(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "call_id", "business", "caller", "status", "duration_ms",
		"summary", "recording_url", "notified", "reason", "created_at",
	}).AddRow("id-1", "call_1", "Acme Paving", "+15085551234", "analyzed",
		int64(64000), "summary", "", true, "urgent", now)

	mock.ExpectQuery(`SELECT .+ FROM call_log WHERE call_id = \$1`).
		WithArgs("call_1").
		WillReturnRows(rows)

	got, err := s.Get(context.Background(), "call_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Paving", got.Business)
	assert.True(t, got.Notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM call_log WHERE call_id = \$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "call_id", "business", "caller", "status", "duration_ms",
		"summary", "recording_url", "notified", "reason", "created_at",
	}).
		AddRow("id-2", "call_2", "Acme Paving", "", "analyzed", int64(9000), "", "", false, "", now).
		AddRow("id-1", "call_1", "Acme Paving", "", "analyzed", int64(64000), "", "", true, "urgent", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .+ FROM call_log WHERE business = \$1 ORDER BY created_at DESC`).
		WithArgs("Acme Paving", 50, 0).
		WillReturnRows(rows)

	got, err := s.List(context.Background(), Filter{Business: "Acme Paving"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "call_2", got[0].CallID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
