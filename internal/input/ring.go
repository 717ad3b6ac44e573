package input

import "sync/atomic"

// Ring is the bounded event queue between the display goroutine (producer)
// and the frame loop (consumer). When full, the oldest event is dropped so
// the frame always sees the freshest input; staleness is worse than loss
// here, since hover and pick resolution must use the frame's latest ray.
type Ring struct {
	events  chan Event
	dropped atomic.Int64
}

// NewRing creates a ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{events: make(chan Event, capacity)}
}

// Push adds an event, evicting the oldest one if the ring is full. Never
// blocks the display goroutine.
func (r *Ring) Push(ev Event) {
	for {
		select {
		case r.events <- ev:
			return
		default:
		}
		select {
		case <-r.events:
			r.dropped.Add(1)
		default:
		}
	}
}

// Drain removes all pending events in arrival order. Called once per frame
// by the input system.
func (r *Ring) Drain(into []Event) []Event {
	for {
		select {
		case ev := <-r.events:
			into = append(into, ev)
		default:
			return into
		}
	}
}

// Dropped returns the number of evicted events since start.
func (r *Ring) Dropped() int64 { return r.dropped.Load() }
