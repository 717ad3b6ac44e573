// Package render draws the war room as a top-down terminal map and translates
// terminal input back into raw locomotion events. It depends only on the
// input and vr plumbing, never on the controller, so the frame loop and the
// display stay decoupled.
package render

// TargetView is one teleport target as seen by the display.
type TargetView struct {
	X, Z    float64
	Radius  float64
	Pulse   float64 // highlight phase, [0, 2π)
	Hovered bool
}

// BoardView is one information panel: its position on the panel ring and the
// composed text lines shown in the panel pane.
type BoardView struct {
	Slot  int
	Title string
	X, Z  float64
	Lines []string
}

// DecorView is a static prop on the floor.
type DecorView struct {
	Kind string
	X, Z float64
}

// View is the complete per-frame draw input. The render system assembles it
// from the ECS world and the controller frame; the display only reads it.
type View struct {
	ViewerX, ViewerZ float64
	Yaw, Pitch       float64

	Mode       string
	HoverSlot  int // hovered target index, -1 when none
	Presenting bool
	Dropped    int64 // evicted input events, surfaced on the HUD

	Targets []TargetView
	Boards  []BoardView
	Decor   []DecorView
}

// Display is what the render system draws to. Draw is called at most once per
// frame-cap interval and never concurrently.
type Display interface {
	Draw(v *View) error
}
