package eventbus

import (
	"fmt"

	"github.com/colonyops/taskr/internal/core/task"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is a short message for a status line.
type Notification struct {
	Level   Level
	Message string
}

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus  *EventBus
	sink func(Notification)
}

// NewNotificationRouter constructs a router that hands notifications to sink.
func NewNotificationRouter(bus *EventBus, sink func(Notification)) *NotificationRouter {
	return &NotificationRouter{bus: bus, sink: sink}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil || r.sink == nil {
		return
	}

	r.bus.SubscribeTasksChanged(func(p TasksChangedPayload) {
		if n, ok := TaskNotification(p); ok {
			r.sink(n)
		}
	})

	r.bus.SubscribeFilterChanged(func(p FilterChangedPayload) {
		r.sink(Notification{Level: LevelInfo, Message: fmt.Sprintf("showing %s tasks", p.Filter)})
	})
}

// TaskNotification describes a TasksChanged event for the user. Reloads
// are reported only as a generic refresh.
func TaskNotification(p TasksChangedPayload) (Notification, bool) {
	switch p.Op {
	case OpReload:
		return Notification{Level: LevelInfo, Message: "tasks reloaded from disk"}, true
	case OpAdd, OpToggle, OpDelete:
	default:
		return Notification{}, false
	}

	if p.Task == nil {
		return Notification{Level: LevelWarning, Message: fmt.Sprintf("%s: task not found", p.Op)}, true
	}

	var verb string
	switch p.Op {
	case OpAdd:
		verb = "added"
	case OpDelete:
		verb = "deleted"
	default:
		verb = toggleVerb(*p.Task)
	}

	return Notification{Level: LevelInfo, Message: fmt.Sprintf("%s %q", verb, p.Task.Text)}, true
}

func toggleVerb(t task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "reopened"
}
