// recorder.go - Test doubles shared by package tests
package testutil

import (
	"sync"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
)

// EventRecorder collects data model events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	events []datamodel.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Listen satisfies datamodel.Listener.
func (r *EventRecorder) Listen(ev datamodel.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []datamodel.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]datamodel.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given type were recorded.
func (r *EventRecorder) Count(t datamodel.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// Reset forgets recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
