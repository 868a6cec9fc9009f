package tui

import (
	"sync"

	"github.com/colonyops/taskr/internal/core/eventbus"
)

// NotificationBuffer collects notifications published while the model
// handles a message, so Update can pick them up once it is done.
type NotificationBuffer struct {
	mu            sync.Mutex
	notifications []eventbus.Notification
}

// NewNotificationBuffer constructs an empty buffer.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		notifications: make([]eventbus.Notification, 0),
	}
}

// Push appends a notification.
func (b *NotificationBuffer) Push(n eventbus.Notification) {
	b.mu.Lock()
	b.notifications = append(b.notifications, n)
	b.mu.Unlock()
}

// Drain returns all buffered notifications and clears the buffer.
func (b *NotificationBuffer) Drain() []eventbus.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.notifications) == 0 {
		return nil
	}

	out := make([]eventbus.Notification, len(b.notifications))
	copy(out, b.notifications)
	b.notifications = b.notifications[:0]
	return out
}
