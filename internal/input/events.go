// Package input defines the event and snapshot types that carry raw input
// from the display goroutine into the frame loop.
package input

import (
	"time"

	"warvr/internal/geo"
)

// Key is a logical movement key. WASD and the arrow keys map onto the same
// four logical keys.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight

	keyCount
)

// KeySet is a bitmask of held movement keys.
type KeySet uint8

func (s KeySet) Has(k Key) bool { return s&(1<<k) != 0 }

func (s KeySet) With(k Key) KeySet { return s | (1 << k) }

// EventKind discriminates raw input events.
type EventKind uint8

const (
	EventNone EventKind = iota

	// Desktop
	EventPointerMoved  // carries the current pointer ground ray
	EventSelect        // click or trigger; carries the pointer ray
	EventLook          // pointer deltas while capture is held
	EventKeyPressed    // logical movement key press (terminals repeat, never release)
	EventCaptureChange // pointer capture acquired or released

	// VR session lifecycle. Per-frame VR source data does not flow through
	// events; the session is sampled once per frame.
	EventSessionStart
	EventSessionEnd
)

// Event is one raw input occurrence. Fields are valid per Kind.
type Event struct {
	Kind EventKind

	Ray      geo.Ray // PointerMoved, Select
	RayValid bool

	DX, DY float64 // Look

	Key Key // KeyPressed

	Captured bool // CaptureChange

	Time time.Time
}
