// Package notify fans a qualified call event out to its delivery sinks.
// Every sink is best-effort and independent: one failing sink never stops
// the others and never fails the webhook response.
package notify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notification is the payload delivered to sinks after a call event clears
// dedup and gating.
type Notification struct {
	CallID       string
	Business     string
	Caller       string
	Status       string
	Summary      string
	RecordingURL string
	DurationMS   int64

	// Final marks the platform's end-of-call analysis event.
	Final bool
	// Notify and Reason carry the gating decision.
	Notify bool
	Reason string

	ClientEmail string
	NotifyPhone string
}

// Sink is one delivery channel. Wants lets each sink own its gating rule so
// the dispatcher stays a dumb fan-out.
type Sink interface {
	Name() string
	Wants(n Notification) bool
	Deliver(ctx context.Context, n Notification) error
}

// Dispatcher runs every applicable sink concurrently.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a Dispatcher over the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Dispatch delivers n to every sink that wants it and returns the names of
// the sinks attempted. Failures are logged, never returned: delivery is
// best-effort by contract.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) []string {
	var attempted []string
	g := new(errgroup.Group)

	for _, sink := range d.sinks {
		if !sink.Wants(n) {
			continue
		}
		attempted = append(attempted, sink.Name())

		g.Go(func() error {
			if err := sink.Deliver(ctx, n); err != nil {
				zap.L().Warn("notification sink failed",
					zap.String("sink", sink.Name()),
					zap.String("call_id", n.CallID),
					zap.Error(err))
			}
			return nil
		})
	}

	_ = g.Wait()
	return attempted
}
