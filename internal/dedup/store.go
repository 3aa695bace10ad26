// Package dedup tracks recently seen call identifiers so webhook
// redeliveries notify at most once within a bounded window.
package dedup

import (
	"context"
	"sync"
	"time"
)

// Store is the dedup contract. MarkSeen is atomic: exactly one concurrent
// caller for a fresh id observes false.
type Store interface {
	// MarkSeen records id for the store's window and reports whether it
	// was already present.
	MarkSeen(ctx context.Context, id string) (bool, error)
	Close() error
}

// Memory is a single-process Store backed by a TTL map. Entries expire
// after the window; a sweeper bounds memory between accesses.
type Memory struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemory creates a Memory store with the given dedup window.
func NewMemory(window time.Duration) *Memory {
	m := &Memory{
		window: window,
		seen:   make(map[string]time.Time),
		stop:   make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Memory) MarkSeen(_ context.Context, id string) (bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if exp, ok := m.seen[id]; ok && now.Before(exp) {
		return true, nil
	}
	m.seen[id] = now.Add(m.window)
	return false, nil
}

// Close stops the sweeper.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) sweep() {
	interval := m.window
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for id, exp := range m.seen {
				if now.After(exp) {
					delete(m.seen, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
