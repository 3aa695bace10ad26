package webhook

import (
	"fmt"
	"strings"
)

// Decision is the notification-worthiness verdict for one event.
type Decision struct {
	Notify bool   `json:"notify"`
	Reason string `json:"reason"`
}

// leadKeywords signal commercial intent in a call summary.
var leadKeywords = []string{
	"quote", "estimate", "pricing", "price",
	"appointment", "schedule", "book",
	"interested", "new customer", "job", "project",
	"come out", "call back", "callback",
}

// EvaluateNeeds decides whether an event warrants interrupting the owner.
// Only the final analysis event is ever notification-worthy; short calls
// are informational no matter what the analysis says.
func EvaluateNeeds(e CallEvent, minDurationMS int64, minSummaryLen int) Decision {
	if e.Event != EventCallAnalyzed {
		return Decision{Notify: false, Reason: fmt.Sprintf("event %s is not the final analysis", e.Event)}
	}
	if e.CallDurationMS < minDurationMS {
		return Decision{Notify: false, Reason: "call too short to be actionable"}
	}
	if e.CallAnalysis == nil {
		return Decision{Notify: false, Reason: "no analysis attached"}
	}

	if e.CallAnalysis.IsUrgent {
		return Decision{Notify: true, Reason: "urgent"}
	}
	if e.CallAnalysis.CallbackRequested {
		return Decision{Notify: true, Reason: "callback requested"}
	}

	summary := strings.ToLower(e.CallAnalysis.CallSummary)
	if len(summary) >= minSummaryLen {
		for _, kw := range leadKeywords {
			if strings.Contains(summary, kw) {
				return Decision{Notify: true, Reason: "lead keywords"}
			}
		}
	}

	return Decision{Notify: false, Reason: "informational"}
}
