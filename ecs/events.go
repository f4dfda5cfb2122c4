package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventResetDynamics    = "reset_dynamics"
	EventToggleTargetMode = "toggle_target_mode"
	EventConfigReloaded   = "config_reloaded"
)

// EventQueue is a simple FIFO queue cleared at the end of every world update.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Has reports whether an event of the given type is queued this frame.
func (q *EventQueue) Has(eventType string) bool {
	if q == nil {
		return false
	}
	for _, evt := range q.items {
		if evt.Type == eventType {
			return true
		}
	}
	return false
}

// Peek returns queued events without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
