// ABOUTME: Typed playback event emitter
// ABOUTME: Ordered listener dispatch with snapshot-then-iterate semantics
package player

import (
	"sync"
	"time"
)

// EventType identifies a playback lifecycle event
type EventType string

const (
	EventLoaded       EventType = "loaded"
	EventPlay         EventType = "play"
	EventPause        EventType = "pause"
	EventEnded        EventType = "ended"
	EventTimeUpdate   EventType = "timeupdate"
	EventSeeked       EventType = "seeked"
	EventVolumeChange EventType = "volumechange"
	EventError        EventType = "error"
)

// Event is the payload delivered to listeners. Position is set for
// timeupdate and seeked, Volume for volumechange, Err for error.
type Event struct {
	Type     EventType
	Position time.Duration
	Volume   float64
	Err      error
}

// Listener receives playback events
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// Emitter dispatches events to registered listeners in registration
// order. Registering the same function twice invokes it twice. Emit
// snapshots the listener list before invoking, so removing a listener
// mid-emit does not affect the dispatch already in progress.
type Emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[EventType][]listenerEntry
}

// NewEmitter creates an event emitter
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventType][]listenerEntry)}
}

// On registers a listener for the event type and returns a handle for Off
func (e *Emitter) On(t EventType, fn Listener) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners[t] = append(e.listeners[t], listenerEntry{id: e.nextID, fn: fn})
	return e.nextID
}

// Off removes the listener registered under the handle.
// Removing a handle that is not registered is a no-op.
func (e *Emitter) Off(t EventType, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.listeners[t]
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[t] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Emit invokes all listeners registered for the event's type, in
// registration order, outside the emitter lock.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	entries := e.listeners[ev.Type]
	snapshot := make([]listenerEntry, len(entries))
	copy(snapshot, entries)
	e.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(ev)
	}
}
