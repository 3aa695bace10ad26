package calllog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "calllog.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(callID string) *Record {
	return &Record{
		CallID:     callID,
		Business:   "Acme Paving",
		Caller:     "+15085551234",
		Status:     "analyzed",
		DurationMS: 64000,
		Summary:    "Caller wants a driveway estimate next week.",
		Notified:   true,
		Reason:     "lead keywords",
	}
}

func TestSQLite_InsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec := sampleRecord("call_1")
	require.NoError(t, s.Insert(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get(ctx, "call_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Paving", got.Business)
	assert.Equal(t, int64(64000), got.DurationMS)
	assert.True(t, got.Notified)
}

func TestSQLite_GetMissing(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_DuplicateCallID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, sampleRecord("call_1")))
	assert.Error(t, s.Insert(ctx, sampleRecord("call_1")))
}

func TestSQLite_ListFilterAndOrder(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	older := sampleRecord("call_1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.Insert(ctx, older))

	newer := sampleRecord("call_2")
	require.NoError(t, s.Insert(ctx, newer))

	other := sampleRecord("call_3")
	other.Business = "Valley HVAC"
	require.NoError(t, s.Insert(ctx, other))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	acme, err := s.List(ctx, Filter{Business: "Acme Paving"})
	require.NoError(t, err)
	require.Len(t, acme, 2)
	assert.Equal(t, "call_2", acme[0].CallID, "newest first")

	limited, err := s.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
