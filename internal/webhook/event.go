// Package webhook turns post-call platform events into at-most-once
// notifications: shared-secret auth, call-id dedup, a notification-worthiness
// decision, and best-effort sink fan-out.
package webhook

// EventType is the call lifecycle stage a webhook delivery reports.
type EventType string

const (
	EventCallStarted  EventType = "call_started"
	EventCallEnded    EventType = "call_ended"
	EventCallAnalyzed EventType = "call_analyzed"
	EventCallInbound  EventType = "call_inbound"
)

// CallAnalysis is the platform's post-call assessment.
type CallAnalysis struct {
	IsUrgent          bool   `json:"is_urgent"`
	CallbackRequested bool   `json:"callback_requested"`
	CallSummary       string `json:"call_summary"`
	UserSentiment     string `json:"user_sentiment,omitempty"`
}

// CallEvent is one webhook delivery. Identity is CallID.
type CallEvent struct {
	CallID         string            `json:"call_id"`
	Event          EventType         `json:"event"`
	CallDurationMS int64             `json:"call_duration_ms"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CallAnalysis   *CallAnalysis     `json:"call_analysis,omitempty"`
	FromNumber     string            `json:"from_number,omitempty"`
	RecordingURL   string            `json:"recording_url,omitempty"`
}

// Meta returns a metadata value or empty.
func (e CallEvent) Meta(key string) string {
	return e.Metadata[key]
}
