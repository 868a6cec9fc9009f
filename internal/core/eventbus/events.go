// Package eventbus provides a typed, synchronous publish/subscribe bus. Every
// subscriber runs to completion before Publish returns, so a renderer that
// subscribes to task changes always sees the collection the store just
// persisted.
package eventbus

import (
	"sync"

	"github.com/colonyops/taskr/internal/core/task"
)

// Event names a kind of event.
type Event string

const (
	EventFilterChanged Event = "filter.changed"
	EventTasksChanged  Event = "tasks.changed"
)

// Op describes which store operation produced a TasksChanged event.
type Op string

const (
	OpAdd    Op = "add"
	OpToggle Op = "toggle"
	OpDelete Op = "delete"
	OpReload Op = "reload"
)

// TasksChangedPayload is emitted after every store mutation with the new
// collection. Tasks is a snapshot; subscribers may keep it.
type TasksChangedPayload struct {
	Op Op
	// Task is the task the operation touched, nil for reloads and for
	// operations on an unknown id.
	Task  *task.Task
	Tasks task.List
}

// FilterChangedPayload is emitted when the filter selection changes.
type FilterChangedPayload struct {
	Filter task.Filter
}

// EventBus dispatches events to subscribers synchronously.
type EventBus struct {
	mu            sync.RWMutex
	tasksChanged  []func(TasksChangedPayload)
	filterChanged []func(FilterChangedPayload)

	hooks hooks
}

// New creates an empty bus.
func New() *EventBus {
	return &EventBus{}
}

// SubscribeTasksChanged registers fn for EventTasksChanged.
func (bus *EventBus) SubscribeTasksChanged(fn func(TasksChangedPayload)) {
	bus.mu.Lock()
	bus.tasksChanged = append(bus.tasksChanged, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTasksChanged)
}

// PublishTasksChanged delivers p to every TasksChanged subscriber.
func (bus *EventBus) PublishTasksChanged(p TasksChangedPayload) {
	if bus == nil {
		return
	}
	bus.mu.RLock()
	subs := append([]func(TasksChangedPayload){}, bus.tasksChanged...)
	bus.mu.RUnlock()

	bus.runOnPublish(EventTasksChanged, p)
	for _, fn := range subs {
		dispatch(bus, EventTasksChanged, p, fn)
	}
}

// SubscribeFilterChanged registers fn for EventFilterChanged.
func (bus *EventBus) SubscribeFilterChanged(fn func(FilterChangedPayload)) {
	bus.mu.Lock()
	bus.filterChanged = append(bus.filterChanged, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventFilterChanged)
}

// PublishFilterChanged delivers p to every FilterChanged subscriber.
func (bus *EventBus) PublishFilterChanged(p FilterChangedPayload) {
	if bus == nil {
		return
	}
	bus.mu.RLock()
	subs := append([]func(FilterChangedPayload){}, bus.filterChanged...)
	bus.mu.RUnlock()

	bus.runOnPublish(EventFilterChanged, p)
	for _, fn := range subs {
		dispatch(bus, EventFilterChanged, p, fn)
	}
}

// dispatch calls fn, recovering a panic so one faulty subscriber cannot
// abort the mutation that published the event.
func dispatch[P any](bus *EventBus, event Event, payload P, fn func(P)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(event, payload, r)
		}
	}()
	fn(payload)
}
