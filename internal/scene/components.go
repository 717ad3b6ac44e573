// Package scene owns the static war-room world: panel boards on a ring,
// floor decorations, and the fixed arena of teleport targets. Entities are
// created once at startup and never destroyed; the only mutable component is
// Highlight.
package scene

import "warvr/internal/loader/schema"

// Position is a world-space point. Targets sit on the floor (Y = 0), boards
// hang at eye height.
type Position struct {
	X, Y, Z float64
}

// Disc is the flat circular footprint of a teleport target.
type Disc struct {
	Radius float64
}

// Highlight is the only component that mutates after startup. Hovered is
// driven by the locomotion controller, Pulse by the per-frame pulse system.
type Highlight struct {
	Hovered bool
	Pulse   float64 // phase in [0, 2π)
}

// Board is an information panel placed on the panel ring.
type Board struct {
	Slot  int
	Kind  schema.PanelKind
	Title string
}

// Decor is a static prop with no behavior.
type Decor struct {
	Kind string
}
