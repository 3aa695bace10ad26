package webhook

import (
	"context"
	"crypto/subtle"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/dedup"
	"github.com/frontdesk-ai/reception-cli/internal/notify"
)

// Outcome is the processing result returned to the platform.
type Outcome struct {
	Deduped  bool     `json:"deduped,omitempty"`
	Decision Decision `json:"decision"`
	Sinks    []string `json:"sinks,omitempty"`
}

// Processor handles authenticated call events end to end.
type Processor struct {
	secret        string
	seen          dedup.Store
	dispatcher    *notify.Dispatcher
	minDurationMS int64
	minSummaryLen int
}

// Config wires a Processor.
type Config struct {
	// Secret is the shared webhook secret; empty disables authentication.
	Secret        string
	Seen          dedup.Store
	Dispatcher    *notify.Dispatcher
	MinDurationMS int64
	MinSummaryLen int
}

// NewProcessor creates a Processor.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		secret:        cfg.Secret,
		seen:          cfg.Seen,
		dispatcher:    cfg.Dispatcher,
		minDurationMS: cfg.MinDurationMS,
		minSummaryLen: cfg.MinSummaryLen,
	}
}

// Authorize checks the shared secret from the request header.
func (p *Processor) Authorize(provided string) bool {
	if p.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(p.secret), []byte(provided)) == 1
}

// Process handles one event. Lifecycle events other than the final analysis
// are acknowledged without side effects; the final analysis is deduped by
// call id, decided, and fanned out. Sink failures never fail processing.
func (p *Processor) Process(ctx context.Context, e CallEvent) (*Outcome, error) {
	if e.CallID == "" {
		return nil, eris.New("webhook: event has no call_id")
	}

	decision := EvaluateNeeds(e, p.minDurationMS, p.minSummaryLen)
	if e.Event != EventCallAnalyzed {
		return &Outcome{Decision: decision}, nil
	}

	already, err := p.seen.MarkSeen(ctx, e.CallID)
	if err != nil {
		return nil, eris.Wrap(err, "webhook: dedup check")
	}
	if already {
		zap.L().Debug("duplicate call event", zap.String("call_id", e.CallID))
		return &Outcome{Deduped: true, Decision: decision}, nil
	}

	n := notify.Notification{
		CallID:       e.CallID,
		Business:     e.Meta("business_name"),
		Caller:       e.FromNumber,
		Status:       string(e.Event),
		DurationMS:   e.CallDurationMS,
		RecordingURL: e.RecordingURL,
		Final:        true,
		Notify:       decision.Notify,
		Reason:       decision.Reason,
		ClientEmail:  e.Meta("client_email"),
		NotifyPhone:  e.Meta("notify_phone"),
	}
	if e.CallAnalysis != nil {
		n.Summary = e.CallAnalysis.CallSummary
	}

	sinks := p.dispatcher.Dispatch(ctx, n)
	zap.L().Info("call event processed",
		zap.String("call_id", e.CallID),
		zap.Bool("notify", decision.Notify),
		zap.String("reason", decision.Reason),
		zap.Strings("sinks", sinks))

	return &Outcome{Decision: decision, Sinks: sinks}, nil
}
