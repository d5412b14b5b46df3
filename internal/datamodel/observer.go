package datamodel

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType distinguishes model notifications.
type EventType int

const (
	// DataChanged fires after any attribute write or simulation step.
	DataChanged EventType = iota
	// SystemStateChanged fires when the running flag flips.
	SystemStateChanged
)

func (t EventType) String() string {
	switch t {
	case DataChanged:
		return "dataChanged"
	case SystemStateChanged:
		return "systemStateChanged"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers. Running is meaningful only for
// SystemStateChanged.
type Event struct {
	Type    EventType
	Running bool
}

// Listener receives model events on the goroutine that caused them. It must
// not block; it may read the model.
type Listener func(Event)

type subscription struct {
	id   string
	name string
	fn   Listener
}

type subscribers struct {
	mu   sync.RWMutex
	list []subscription
}

// Subscribe registers fn and returns its subscription ID.
func (m *Model) Subscribe(name string, fn Listener) string {
	id := uuid.New().String()
	m.subs.mu.Lock()
	m.subs.list = append(m.subs.list, subscription{id: id, name: name, fn: fn})
	m.subs.mu.Unlock()
	m.logger.Debug("subscriber added", zap.String("name", name), zap.String("id", id))
	return id
}

// Unsubscribe removes a subscription. It reports whether the ID was known.
func (m *Model) Unsubscribe(id string) bool {
	m.subs.mu.Lock()
	defer m.subs.mu.Unlock()
	for i, s := range m.subs.list {
		if s.id == id {
			m.subs.list = append(m.subs.list[:i], m.subs.list[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Model) notify(ev Event) {
	m.subs.mu.RLock()
	list := make([]subscription, len(m.subs.list))
	copy(list, m.subs.list)
	m.subs.mu.RUnlock()

	for _, s := range list {
		s.fn(ev)
	}
}
