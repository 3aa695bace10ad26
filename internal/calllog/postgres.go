package calllog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS call_log (
	id            UUID PRIMARY KEY,
	call_id       TEXT NOT NULL UNIQUE,
	business      TEXT NOT NULL,
	caller        TEXT,
	status        TEXT NOT NULL,
	duration_ms   BIGINT NOT NULL DEFAULT 0,
	summary       TEXT,
	recording_url TEXT,
	notified      BOOLEAN NOT NULL DEFAULT FALSE,
	reason        TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_call_log_business ON call_log(business);
CREATE INDEX IF NOT EXISTS idx_call_log_created_at ON call_log(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO call_log (id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.CallID, rec.Business, rec.Caller, rec.Status, rec.DurationMS,
		rec.Summary, rec.RecordingURL, rec.Notified, rec.Reason, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert call record")
}

func (s *PostgresStore) Get(ctx context.Context, callID string) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at
		 FROM call_log WHERE call_id = $1`, callID)

	var rec Record
	err := row.Scan(&rec.ID, &rec.CallID, &rec.Business, &rec.Caller, &rec.Status,
		&rec.DurationMS, &rec.Summary, &rec.RecordingURL, &rec.Notified, &rec.Reason, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get call record %s", callID)
	}
	return &rec, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at
		 FROM call_log`
	args := []any{}
	if filter.Business != "" {
		query += ` WHERE business = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, filter.Business, limit, filter.Offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list call records")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CallID, &rec.Business, &rec.Caller, &rec.Status,
			&rec.DurationMS, &rec.Summary, &rec.RecordingURL, &rec.Notified, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan call record")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate call records")
}

var _ Store = (*PostgresStore)(nil)
