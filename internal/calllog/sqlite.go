package calllog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS call_log (
	id            TEXT PRIMARY KEY,
	call_id       TEXT NOT NULL UNIQUE,
	business      TEXT NOT NULL,
	caller        TEXT,
	status        TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	summary       TEXT,
	recording_url TEXT,
	notified      INTEGER NOT NULL DEFAULT 0,
	reason        TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_call_log_business ON call_log(business);
CREATE INDEX IF NOT EXISTS idx_call_log_created_at ON call_log(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO call_log (id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CallID, rec.Business, rec.Caller, rec.Status, rec.DurationMS,
		rec.Summary, rec.RecordingURL, rec.Notified, rec.Reason, rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert call record")
}

func (s *SQLiteStore) Get(ctx context.Context, callID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at
		 FROM call_log WHERE call_id = ?`, callID)

	var rec Record
	err := row.Scan(&rec.ID, &rec.CallID, &rec.Business, &rec.Caller, &rec.Status,
		&rec.DurationMS, &rec.Summary, &rec.RecordingURL, &rec.Notified, &rec.Reason, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get call record %s", callID)
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, call_id, business, caller, status, duration_ms, summary, recording_url, notified, reason, created_at
		 FROM call_log`
	args := []any{}
	if filter.Business != "" {
		query += ` WHERE business = ?`
		args = append(args, filter.Business)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list call records")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CallID, &rec.Business, &rec.Caller, &rec.Status,
			&rec.DurationMS, &rec.Summary, &rec.RecordingURL, &rec.Notified, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan call record")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate call records")
}

var _ Store = (*SQLiteStore)(nil)
