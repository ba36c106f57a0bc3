package events

import "sync"

// Bus fans a single stream of events out to any number of attached sinks,
// the way Hub in the teacher's websocket gateway fans broadcasts out to
// registered clients.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Attach registers sink to receive every future Emit.
func (b *Bus) Attach(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Emit delivers e to every attached sink, in attachment order.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	for _, s := range sinks {
		s.Emit(e)
	}
}
