package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/todo-api/internal/events"
)

// RecordingEventEmitter implements events.EventEmitter and keeps every event it receives.
// Err, when set, is returned from EmitEvent after the event is recorded.
type RecordingEventEmitter struct {
	Err error

	mu     sync.Mutex
	events []*events.TaskEvent
}

var _ events.EventEmitter = (*RecordingEventEmitter)(nil)

// EmitEvent implements the EventEmitter.EmitEvent method
func (m *RecordingEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns a copy of the recorded events in emission order.
func (m *RecordingEventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the recorded event types in emission order.
func (m *RecordingEventEmitter) Types() []events.EventType {
	recorded := m.Events()
	out := make([]events.EventType, len(recorded))
	for i, e := range recorded {
		out[i] = e.Type
	}
	return out
}
