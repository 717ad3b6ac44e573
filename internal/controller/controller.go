// Package controller implements the locomotion controller: the one stateful
// component of the war room. It owns the viewer frame (position, yaw, pitch),
// the input mode state machine, and the frame-local logic that turns pointer,
// key, and thumbstick input into viewer transforms and target highlights.
//
// No operation here can fail. Out-of-range input is clamped or treated as
// no-input; invalid target handles are guarded no-ops.
package controller

import (
	"math"

	"warvr/internal/geo"
	"warvr/internal/input"
	"warvr/internal/loader/schema"
	"warvr/internal/logger"
	"warvr/internal/scene"
	"warvr/internal/vr"
)

// Tuning holds the environment-tuned locomotion parameters. The values come
// from the manifest; they are calibration knobs, not invariants.
type Tuning struct {
	MoveSpeed       float64 // ground speed, units per second
	LookSensitivity float64 // radians per pointer delta unit
	StickDeadzone   float64 // thumbstick magnitude threshold
	EyeHeight       float64 // crosshair ray origin above the floor
}

// TuningFrom builds Tuning from manifest sections.
func TuningFrom(l schema.Locomotion, room schema.Room) Tuning {
	return Tuning{
		MoveSpeed:       l.MoveSpeed,
		LookSensitivity: l.LookSensitivity,
		StickDeadzone:   l.StickDeadzone,
		EyeHeight:       room.EyeHeight,
	}
}

// CaptureSurface is the display collaborator that owns pointer capture. The
// controller requests and releases capture; the surface answers with a
// capture-change event, which is what actually switches the mode.
type CaptureSurface interface {
	RequestCapture()
	ReleaseCapture()
}

// Frame is the viewer frame: the tuple defining the first-person viewpoint.
// Position Y is always 0; pitch is always within [-π/2, π/2]; yaw accumulates
// without bounds.
type Frame struct {
	Pos   geo.Vec3
	Yaw   float64
	Pitch float64
}

// Controller owns the viewer frame and target highlight state. It is
// constructed once per session and driven by the frame loop; nothing else
// mutates its state.
type Controller struct {
	arena   *scene.Arena
	capture CaptureSurface
	tuning  Tuning
	log     logger.Logger

	frame Frame
	mode  Mode
	hover scene.TargetID

	// hoverChanges counts highlight transitions, surfaced on the HUD and
	// used to verify hover idempotence.
	hoverChanges uint64
}

// New creates a controller at the room origin, looking down -Z, in desktop
// look mode.
func New(arena *scene.Arena, capture CaptureSurface, tuning Tuning, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		arena:   arena,
		capture: capture,
		tuning:  tuning,
		log:     log,
		mode:    ModeDesktopLook,
		hover:   scene.NoTarget,
	}
}

// Frame returns the current viewer frame.
func (c *Controller) Frame() Frame { return c.frame }

// Mode returns the active input mode.
func (c *Controller) Mode() Mode { return c.mode }

// HoverTarget returns the currently hovered target, or scene.NoTarget.
func (c *Controller) HoverTarget() scene.TargetID { return c.hover }

// CrosshairRay is the view-center ray: from the eye along the current look
// direction. Used for picking while pointer capture hides the cursor, and by
// the VR layer as the default controller ray.
func (c *Controller) CrosshairRay() geo.Ray {
	return geo.Ray{
		Origin: c.frame.Pos.Add(geo.Vec3{Y: c.tuning.EyeHeight}),
		Dir:    geo.Forward(c.frame.Yaw, c.frame.Pitch),
	}
}

// ResolvePick intersects a ray against the fixed target set. Deterministic
// and side-effect-free; both input modalities use it identically.
func (c *Controller) ResolvePick(r geo.Ray) (scene.TargetID, bool) {
	return c.arena.Pick(r)
}

// Teleport relocates the viewer to the target's floor point. Yaw and pitch
// are untouched; Y stays 0. A guarded no-op for invalid handles.
func (c *Controller) Teleport(id scene.TargetID) {
	if !c.arena.Valid(id) {
		return
	}
	p := c.arena.TargetPosition(id)
	c.frame.Pos = geo.Vec3{X: p.X, Y: 0, Z: p.Z}
	c.log.Debug("teleport",
		logger.Field{Key: "target", Value: int(id)},
		logger.Field{Key: "x", Value: p.X},
		logger.Field{Key: "z", Value: p.Z},
	)
}

// UpdateHover re-resolves the hovered target from a ray. Desktop only; in VR
// there is no hover state. Idempotent under an unchanged result: the
// highlight transition fires exactly once per actual change.
func (c *Controller) UpdateHover(r geo.Ray) {
	if !c.mode.Desktop() {
		return
	}
	id, ok := c.arena.Pick(r)
	if !ok {
		id = scene.NoTarget
	}
	if id == c.hover {
		return
	}
	c.arena.SetHovered(c.hover, false)
	c.arena.SetHovered(id, true)
	c.hover = id
	c.hoverChanges++
}

// HoverChanges returns the number of hover transitions so far.
func (c *Controller) HoverChanges() uint64 { return c.hoverChanges }

// clearHover drops any hover highlight, used on VR entry.
func (c *Controller) clearHover() {
	if c.hover != scene.NoTarget {
		c.arena.SetHovered(c.hover, false)
		c.hover = scene.NoTarget
		c.hoverChanges++
	}
}

// ApplyMouseLook accumulates look deltas into yaw and pitch. Only effective
// while pointer capture is held; pitch is clamped to ±π/2, yaw is unbounded.
func (c *Controller) ApplyMouseLook(dx, dy float64) {
	if c.mode != ModeDesktopLocked {
		return
	}
	c.frame.Yaw -= dx * c.tuning.LookSensitivity
	c.frame.Pitch = geo.Clamp(c.frame.Pitch-dy*c.tuning.LookSensitivity, -math.Pi/2, math.Pi/2)
}

// ApplyDiscreteMovement walks the viewer from held movement keys. Desktop
// only, but independent of capture state: walking works while hovering for a
// target. Diagonals are normalized, the vector is rotated into the yaw frame,
// and Y never changes.
func (c *Controller) ApplyDiscreteMovement(held input.KeySet, dt float64) {
	if !c.mode.Desktop() {
		return
	}
	var v geo.Vec3
	if held.Has(input.KeyForward) {
		v.Z -= 1
	}
	if held.Has(input.KeyBack) {
		v.Z += 1
	}
	if held.Has(input.KeyLeft) {
		v.X -= 1
	}
	if held.Has(input.KeyRight) {
		v.X += 1
	}
	if v == (geo.Vec3{}) {
		return
	}
	step := v.Normalized().RotateY(c.frame.Yaw).Scale(c.tuning.MoveSpeed * dt)
	c.frame.Pos = geo.Vec3{X: c.frame.Pos.X + step.X, Y: 0, Z: c.frame.Pos.Z + step.Z}
}

// ApplyThumbstickMovement glides the viewer from thumbstick axes. VR only.
// Axes are clamped to [-1, 1]; magnitudes below the deadzone are no-input;
// the direction is rotated by head yaw alone so movement stays on the ground
// plane; displacement scales with deflection, so partial tilt moves
// proportionally slower.
func (c *Controller) ApplyThumbstickMovement(axisX, axisZ, headYaw, dt float64) {
	if c.mode != ModeVRPresenting {
		return
	}
	axisX = geo.Clamp(axisX, -1, 1)
	axisZ = geo.Clamp(axisZ, -1, 1)
	mag := math.Hypot(axisX, axisZ)
	if mag < c.tuning.StickDeadzone {
		return
	}
	if mag > 1 {
		mag = 1
	}
	dir := geo.Vec3{X: axisX, Z: axisZ}.Normalized().RotateY(headYaw)
	step := dir.Scale(c.tuning.MoveSpeed * dt * mag)
	c.frame.Pos = geo.Vec3{X: c.frame.Pos.X + step.X, Y: 0, Z: c.frame.Pos.Z + step.Z}
}

// Select is the single click decision point on desktop: pick first, teleport
// on a hit, request pointer capture on a miss. While capture is held the
// pick uses the crosshair ray, since the cursor is hidden.
func (c *Controller) Select(pointerRay geo.Ray, rayValid bool) {
	if !c.mode.Desktop() {
		return
	}
	ray := pointerRay
	if c.mode == ModeDesktopLocked || !rayValid {
		ray = c.CrosshairRay()
	}
	if id, ok := c.arena.Pick(ray); ok {
		c.Teleport(id)
		return
	}
	if c.mode == ModeDesktopLook {
		c.capture.RequestCapture()
	}
}

// HandleCaptureChange applies a pointer-capture transition from the display
// surface. Ignored while VR presents.
func (c *Controller) HandleCaptureChange(held bool) {
	if c.mode == ModeVRPresenting {
		return
	}
	if held {
		c.mode = ModeDesktopLocked
	} else {
		c.mode = ModeDesktopLook
	}
	c.log.Debug("capture change", logger.Field{Key: "mode", Value: c.mode.String()})
}

// BeginSession enters VR. Hover state is dropped (VR has none) and any held
// capture is released; desktop input stays suppressed until EndSession.
func (c *Controller) BeginSession() {
	if c.mode == ModeVRPresenting {
		return
	}
	if c.mode == ModeDesktopLocked {
		c.capture.ReleaseCapture()
	}
	c.clearHover()
	c.mode = ModeVRPresenting
	c.log.Info("vr session started")
}

// EndSession leaves VR and returns to desktop look mode.
func (c *Controller) EndSession() {
	if c.mode != ModeVRPresenting {
		return
	}
	c.mode = ModeDesktopLook
	c.log.Info("vr session ended")
}

// Step consumes one frame of input. This is the only dispatch point between
// the two modalities: lifecycle transitions are applied first, then exactly
// one of the desktop or VR paths runs.
func (c *Controller) Step(snap *input.Snapshot, sources []vr.Source, dt float64) {
	if snap.SessionStarts > 0 {
		c.BeginSession()
	}
	if snap.SessionEnds > 0 {
		c.EndSession()
	}
	for _, held := range snap.CaptureChanges {
		c.HandleCaptureChange(held)
	}

	switch c.mode {
	case ModeDesktopLook, ModeDesktopLocked:
		c.stepDesktop(snap, dt)
	case ModeVRPresenting:
		c.stepVR(sources, dt)
	}
}

func (c *Controller) stepDesktop(snap *input.Snapshot, dt float64) {
	c.ApplyMouseLook(snap.LookDX, snap.LookDY)

	for _, sel := range snap.Selects {
		c.Select(sel.Ray, sel.RayValid)
	}

	// Hover follows the frame's latest ray: the cursor ray while free, the
	// crosshair while captured.
	switch c.mode {
	case ModeDesktopLocked:
		c.UpdateHover(c.CrosshairRay())
	default:
		if snap.RayValid {
			c.UpdateHover(snap.Ray)
		}
	}

	c.ApplyDiscreteMovement(snap.Held, dt)
}

func (c *Controller) stepVR(sources []vr.Source, dt float64) {
	for _, src := range sources {
		if src.Select {
			if id, ok := c.arena.Pick(src.SelectRay); ok {
				c.Teleport(id)
			}
		}
	}

	// First source reporting usable deflection wins the frame; a second
	// controller never compounds displacement.
	for _, src := range sources {
		if math.Hypot(geo.Clamp(src.StickX, -1, 1), geo.Clamp(src.StickY, -1, 1)) >= c.tuning.StickDeadzone {
			c.ApplyThumbstickMovement(src.StickX, src.StickY, c.frame.Yaw, dt)
			break
		}
	}
}
