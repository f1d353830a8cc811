package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EmitterEventKind identifies emitter lifecycle events.
type EmitterEventKind string

const (
	EmitterStopped  EmitterEventKind = "emitter_stopped"
	EmitterExpired  EmitterEventKind = "emitter_expired"
	EmitterReloaded EmitterEventKind = "emitter_reloaded"
)

// EmitterEvent is pushed when an emitter entity changes state.
type EmitterEvent struct {
	Entity Entity
	Kind   EmitterEventKind
	Prefab string
}

// EventQueue is a simple FIFO queue.
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

// PushEmitter queues an emitter lifecycle event.
func (q *EventQueue) PushEmitter(evt EmitterEvent) {
	q.Push(Event{Type: string(evt.Kind), Data: evt})
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

// Peek returns queued events without removing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
