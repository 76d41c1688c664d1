package store

import "sync"

// EventType classifies a domain event published on the Bus.
type EventType string

const (
	EventTaskCreated      EventType = "task_created"
	EventTaskUpdated      EventType = "task_updated"
	EventTaskDeleted      EventType = "task_deleted"
	EventTaskStateChanged EventType = "task_state_changed"
	EventTaskAttached     EventType = "task_attached"
	EventTaskDetached     EventType = "task_detached"
	EventProjectCreated   EventType = "project_created"
	EventProjectUpdated   EventType = "project_updated"
	EventProjectDeleted   EventType = "project_deleted"
)

// Event is the payload published after a store mutation. AssigneeID carries
// the task's assignee so subscribers can target notifications at them.
type Event struct {
	Type       EventType `json:"type"`
	TaskID     string    `json:"taskId,omitempty"`
	ProjectID  string    `json:"projectId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	AssigneeID string    `json:"assigneeId,omitempty"`
}

// Bus is a synchronous in-process event mediator. The task store publishes
// membership events here and the project store subscribes, which keeps the
// dependency between the two stores one-directional. Subscribers run inline
// on the publishing goroutine, so mutations observed after Publish returns
// already include subscriber side effects.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers the event to every subscriber, in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}
