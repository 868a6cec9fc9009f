// Package testbus provides a recording EventBus for tests.
package testbus

import (
	"sync"
	"testing"

	"github.com/colonyops/taskr/internal/core/eventbus"
)

// Record is a single captured event.
type Record struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus and records every published event.
type Bus struct {
	*eventbus.EventBus

	mu     sync.Mutex
	events []Record
}

// New creates a recording bus.
func New(t testing.TB) *Bus {
	t.Helper()

	b := &Bus{EventBus: eventbus.New()}
	b.OnPublish(func(event eventbus.Event, payload any) {
		b.mu.Lock()
		b.events = append(b.events, Record{Event: event, Payload: payload})
		b.mu.Unlock()
	})
	return b
}

// Events returns a copy of the recorded events.
func (b *Bus) Events() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.events))
	copy(out, b.events)
	return out
}

// Reset clears all recorded events.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}

// TasksChanged returns the recorded TasksChanged payloads in order.
func (b *Bus) TasksChanged() []eventbus.TasksChangedPayload {
	var out []eventbus.TasksChangedPayload
	for _, r := range b.Events() {
		if p, ok := r.Payload.(eventbus.TasksChangedPayload); ok {
			out = append(out, p)
		}
	}
	return out
}

// AssertPublished fails the test if no event of the given type was recorded.
func (b *Bus) AssertPublished(t testing.TB, event eventbus.Event) {
	t.Helper()
	for _, r := range b.Events() {
		if r.Event == event {
			return
		}
	}
	t.Errorf("expected event %q to be published", event)
}

// AssertNotPublished fails the test if an event of the given type was recorded.
func (b *Bus) AssertNotPublished(t testing.TB, event eventbus.Event) {
	t.Helper()
	for _, r := range b.Events() {
		if r.Event == event {
			t.Errorf("expected event %q not to be published", event)
			return
		}
	}
}
