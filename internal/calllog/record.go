// Package calllog persists one structured record per analyzed call so the
// office has a durable history independent of the voice platform.
package calllog

import (
	"context"
	"time"
)

// Record is one logged call.
type Record struct {
	ID           string    `json:"id"`
	CallID       string    `json:"call_id"`
	Business     string    `json:"business"`
	Caller       string    `json:"caller"`
	Status       string    `json:"status"`
	DurationMS   int64     `json:"duration_ms"`
	Summary      string    `json:"summary"`
	RecordingURL string    `json:"recording_url,omitempty"`
	Notified     bool      `json:"notified"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter specifies criteria for listing records.
type Filter struct {
	Business string `json:"business,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the call-log persistence interface.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	Get(ctx context.Context, callID string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)

	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 50
