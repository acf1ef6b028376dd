package event

import (
	"sync"
	"time"
)

// DefaultBuffer is the sink buffer size used when none is configured.
const DefaultBuffer = 256

// Sink is the append-only progress channel for one workflow run. It is
// owned exclusively by the run that created it: the run's goroutine emits
// and closes, one consumer reads Events.
//
// The sink enforces the terminal-event invariant: once a step has emitted
// StepEnd, StepError or StepCancelled, further events for that step are
// rejected. The buffer bounds backpressure: a full buffer blocks the
// producer until the consumer catches up or the run's done channel fires,
// so a slow consumer can never stall a run past its own cancellation.
type Sink struct {
	ch   chan Event
	done <-chan struct{}

	mu         sync.Mutex
	terminated map[string]bool
}

// NewSink creates a sink for one run. done is the run's cancellation
// signal (typically ctx.Done()); buffer <= 0 selects DefaultBuffer.
func NewSink(done <-chan struct{}, buffer int) *Sink {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Sink{
		ch:         make(chan Event, buffer),
		done:       done,
		terminated: make(map[string]bool),
	}
}

// Events returns the consumer side of the sink. The channel is closed by
// Close once the run finishes emitting.
func (s *Sink) Events() <-chan Event {
	return s.ch
}

// Emit stamps and appends an event. It returns false if the event was
// rejected (the step already emitted its terminal event) or dropped (the
// run was cancelled while the buffer was full).
func (s *Sink) Emit(e Event) bool {
	if e.StepID != "" {
		s.mu.Lock()
		switch {
		case e.Type == StepStart:
			// A new execution of the step (a loop body re-entering) opens
			// a fresh start/progress/terminal sequence.
			delete(s.terminated, e.StepID)
		case s.terminated[e.StepID]:
			s.mu.Unlock()
			return false
		case e.Type.Terminal():
			s.terminated[e.StepID] = true
		}
		s.mu.Unlock()
	}

	e.Timestamp = time.Now()
	// Buffered space always wins: a cancelled run still delivers its
	// terminal events as long as the consumer is keeping up.
	select {
	case s.ch <- e:
		return true
	default:
	}
	select {
	case s.ch <- e:
		return true
	case <-s.done:
		return false
	}
}

// Close closes the event channel. Call exactly once, after the last Emit.
func (s *Sink) Close() {
	close(s.ch)
}
