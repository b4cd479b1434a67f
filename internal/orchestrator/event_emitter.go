package orchestrator

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// emitTimeout is how long Emit waits for a slow consumer before dropping.
const emitTimeout = 100 * time.Millisecond

// EventEmitter fans pipeline events out to an optional consumer.
// A nil emitter is valid and drops everything silently.
type EventEmitter struct {
	events       chan PipelineEvent
	droppedCount atomic.Uint64
	closeOnce    sync.Once
}

// NewEventEmitter creates an EventEmitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{events: make(chan PipelineEvent, bufferSize)}
}

// Emit sends an event to the consumer. A full channel gets a short grace
// period before the event is dropped; pipeline progress never blocks on a
// slow renderer.
func (e *EventEmitter) Emit(event PipelineEvent) {
	if e == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case e.events <- event:
		return
	default:
	}

	select {
	case e.events <- event:
	case <-time.After(emitTimeout):
		count := e.droppedCount.Add(1)
		if count%10 == 1 {
			log.Printf("[orchestrator] event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of dropped events.
func (e *EventEmitter) DroppedCount() uint64 {
	if e == nil {
		return 0
	}
	return e.droppedCount.Load()
}

// Events returns the read-only event channel for consumers.
func (e *EventEmitter) Events() <-chan PipelineEvent {
	if e == nil {
		return nil
	}
	return e.events
}

// Close closes the event channel. Safe to call more than once; call only
// after the last Emit.
func (e *EventEmitter) Close() {
	if e != nil {
		e.closeOnce.Do(func() { close(e.events) })
	}
}
