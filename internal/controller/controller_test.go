package controller

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/geo"
	"warvr/internal/input"
	"warvr/internal/loader/schema"
	"warvr/internal/scene"
	"warvr/internal/vr"
)

const eps = 1e-9

// fakeSurface records capture requests like a display would.
type fakeSurface struct {
	requests int
	releases int
}

func (f *fakeSurface) RequestCapture() { f.requests++ }
func (f *fakeSurface) ReleaseCapture() { f.releases++ }

func testTuning() Tuning {
	return Tuning{
		MoveSpeed:       3.0,
		LookSensitivity: 0.002,
		StickDeadzone:   0.15,
		EyeHeight:       1.6,
	}
}

// newTestController builds a controller over a six-target ring of radius 2.2
// plus a center target, so target 0 sits at (2.2, 0, 0).
func newTestController() (*Controller, *fakeSurface, *scene.Arena) {
	world := ecs.NewWorld()
	arena := scene.Build(&world, schema.Room{
		PanelRadius: 3.2,
		EyeHeight:   1.6,
		Targets: schema.TargetLayout{
			RingRadius:    2.2,
			Count:         6,
			DiscRadius:    0.35,
			IncludeCenter: true,
		},
	}, nil)
	surface := &fakeSurface{}
	return New(arena, surface, testTuning(), nil), surface, arena
}

func rayAt(x, z float64) geo.Ray {
	return geo.Ray{Origin: geo.Vec3{X: x, Y: 5, Z: z}, Dir: geo.Vec3{Y: -1}}
}

func missRay() geo.Ray { return rayAt(1.2, 1.2) }

// lock puts the controller into desktop-locked mode through the same event
// path the display uses.
func lock(c *Controller) { c.HandleCaptureChange(true) }

func TestPitchClampUnderAnyDelta(t *testing.T) {
	c, _, _ := newTestController()
	lock(c)

	deltas := []float64{1, -1, 1e6, -1e6, 1e12, math.Pi, -0.0001}
	for _, dy := range deltas {
		c.ApplyMouseLook(0, dy)
		p := c.Frame().Pitch
		if p < -math.Pi/2-eps || p > math.Pi/2+eps {
			t.Fatalf("pitch %v escaped [-π/2, π/2] after delta %v", p, dy)
		}
	}
}

func TestMouseLookRequiresCapture(t *testing.T) {
	c, _, _ := newTestController()

	c.ApplyMouseLook(100, 100)
	if f := c.Frame(); f.Yaw != 0 || f.Pitch != 0 {
		t.Errorf("mouse look without capture changed orientation: %+v", f)
	}

	lock(c)
	c.ApplyMouseLook(100, 0)
	if c.Frame().Yaw == 0 {
		t.Error("mouse look with capture had no effect")
	}
}

func TestTeleportExactAndOrientationPreserving(t *testing.T) {
	c, _, _ := newTestController()
	lock(c)
	c.ApplyMouseLook(123, -456) // arbitrary orientation
	before := c.Frame()

	id, ok := c.ResolvePick(rayAt(2.2, 0))
	if !ok {
		t.Fatal("expected pick hit at (2.2, 0)")
	}
	c.Teleport(id)

	after := c.Frame()
	if after.Pos.X != 2.2 || after.Pos.Y != 0 || after.Pos.Z != 0 {
		t.Errorf("position = %v, want exactly (2.2, 0, 0)", after.Pos)
	}
	if after.Yaw != before.Yaw || after.Pitch != before.Pitch {
		t.Errorf("teleport changed orientation: yaw %v→%v pitch %v→%v",
			before.Yaw, after.Yaw, before.Pitch, after.Pitch)
	}
}

func TestTeleportInvalidHandleNoOp(t *testing.T) {
	c, _, _ := newTestController()
	before := c.Frame()
	c.Teleport(scene.NoTarget)
	c.Teleport(scene.TargetID(999))
	if c.Frame() != before {
		t.Error("invalid teleport changed the frame")
	}
}

func TestResolvePickDeterministic(t *testing.T) {
	c, _, _ := newTestController()
	r := rayAt(2.25, 0.05)
	id0, ok0 := c.ResolvePick(r)
	for i := 0; i < 50; i++ {
		id, ok := c.ResolvePick(r)
		if id != id0 || ok != ok0 {
			t.Fatalf("pick diverged: (%v,%v) vs (%v,%v)", id, ok, id0, ok0)
		}
	}
}

func TestUpdateHoverIdempotent(t *testing.T) {
	c, _, arena := newTestController()
	r := rayAt(2.2, 0)

	c.UpdateHover(r)
	if c.HoverTarget() != 0 || !arena.Hovered(0) {
		t.Fatalf("hover = %v, want target 0 highlighted", c.HoverTarget())
	}

	// Second call with the same ray: no transition, state unchanged.
	n := c.HoverChanges()
	c.UpdateHover(r)
	if c.HoverChanges() != n {
		t.Errorf("repeated hover retriggered the transition (%d → %d)", n, c.HoverChanges())
	}
	if c.HoverTarget() != 0 || !arena.Hovered(0) {
		t.Error("repeated hover corrupted state")
	}

	// Moving to another target un-highlights the old one.
	c.UpdateHover(rayAt(0, 0)) // center target
	center := scene.TargetID(arena.TargetCount() - 1)
	if c.HoverTarget() != center {
		t.Fatalf("hover = %v, want center %v", c.HoverTarget(), center)
	}
	if arena.Hovered(0) {
		t.Error("old hover still highlighted")
	}
	if !arena.Hovered(center) {
		t.Error("new hover not highlighted")
	}

	// Miss clears hover.
	c.UpdateHover(missRay())
	if c.HoverTarget() != scene.NoTarget || arena.Hovered(center) {
		t.Error("hover not cleared on miss")
	}
}

func TestAtMostOneHovered(t *testing.T) {
	c, _, arena := newTestController()
	rays := []geo.Ray{rayAt(2.2, 0), rayAt(0, 0), rayAt(-2.2, 0), missRay(), rayAt(2.2, 0)}
	for _, r := range rays {
		c.UpdateHover(r)
		hovered := 0
		for i := 0; i < arena.TargetCount(); i++ {
			if arena.Hovered(scene.TargetID(i)) {
				hovered++
			}
		}
		if hovered > 1 {
			t.Fatalf("%d targets hovered at once", hovered)
		}
	}
}

func TestDiagonalMovementNormalized(t *testing.T) {
	c, _, _ := newTestController()
	dt := 0.1
	held := input.KeySet(0).With(input.KeyForward).With(input.KeyLeft)

	c.ApplyDiscreteMovement(held, dt)
	p := c.Frame().Pos

	// Yaw 0: forward is -Z, left is -X; the diagonal is the normalized sum.
	wantMag := 3.0 * dt
	if got := math.Hypot(p.X, p.Z); math.Abs(got-wantMag) > eps {
		t.Errorf("diagonal displacement = %v, want %v (not double speed)", got, wantMag)
	}
	want := wantMag / math.Sqrt2
	if math.Abs(p.X+want) > eps || math.Abs(p.Z+want) > eps {
		t.Errorf("diagonal direction = (%v, %v), want (-%v, -%v)", p.X, p.Z, want, want)
	}
	if p.Y != 0 {
		t.Errorf("movement left the ground plane: Y = %v", p.Y)
	}
}

func TestMovementRotatesWithYaw(t *testing.T) {
	c, _, _ := newTestController()
	lock(c)
	// Turn 90° to the left: yaw = +π/2, so "forward" becomes -X.
	c.ApplyMouseLook(-math.Pi/2/testTuning().LookSensitivity, 0)

	c.ApplyDiscreteMovement(input.KeySet(0).With(input.KeyForward), 1)
	p := c.Frame().Pos
	if math.Abs(p.X+3) > 1e-6 || math.Abs(p.Z) > 1e-6 {
		t.Errorf("forward at yaw π/2 moved to (%v, %v), want (-3, 0)", p.X, p.Z)
	}
}

func TestMovementWorksWhileCaptured(t *testing.T) {
	c, _, _ := newTestController()
	lock(c)
	c.ApplyDiscreteMovement(input.KeySet(0).With(input.KeyForward), 0.5)
	if c.Frame().Pos == (geo.Vec3{}) {
		t.Error("movement suppressed by pointer capture")
	}
}

func TestThumbstickDeadzone(t *testing.T) {
	c, _, _ := newTestController()
	c.BeginSession()

	// 0.10 on both axes: magnitude ≈ 0.141, below the 0.15 deadzone.
	c.ApplyThumbstickMovement(0.10, 0.10, 0, 1)
	if c.Frame().Pos != (geo.Vec3{}) {
		t.Errorf("sub-deadzone input moved the viewer: %v", c.Frame().Pos)
	}
}

func TestThumbstickProportionalSpeed(t *testing.T) {
	dt := 0.25

	c1, _, _ := newTestController()
	c1.BeginSession()
	c1.ApplyThumbstickMovement(0.5, 0, 0, dt)
	half := c1.Frame().Pos.Length()

	c2, _, _ := newTestController()
	c2.BeginSession()
	c2.ApplyThumbstickMovement(1.0, 0, 0, dt)
	full := c2.Frame().Pos.Length()

	if half <= 0 {
		t.Fatal("half deflection produced no movement")
	}
	if !(half < full) {
		t.Errorf("half deflection (%v) not slower than full (%v)", half, full)
	}
	if math.Abs(full-2*half) > eps {
		t.Errorf("displacement not proportional: full %v vs 2×half %v", full, 2*half)
	}
}

func TestThumbstickClampsAxes(t *testing.T) {
	dt := 0.1
	c1, _, _ := newTestController()
	c1.BeginSession()
	c1.ApplyThumbstickMovement(50, 0, 0, dt)

	c2, _, _ := newTestController()
	c2.BeginSession()
	c2.ApplyThumbstickMovement(1, 0, 0, dt)

	if d := c1.Frame().Pos.Sub(c2.Frame().Pos).Length(); d > eps {
		t.Errorf("overdriven axis moved differently than full deflection (Δ %v)", d)
	}
}

func TestThumbstickGroundPlaneOnly(t *testing.T) {
	c, _, _ := newTestController()
	c.BeginSession()
	c.ApplyThumbstickMovement(1, 1, 1.3, 0.5)
	if c.Frame().Pos.Y != 0 {
		t.Errorf("thumbstick movement changed Y: %v", c.Frame().Pos.Y)
	}
}

func TestScenarioPickThenTeleport(t *testing.T) {
	// Viewer at origin, yaw 0; a target exists at (2.2, 0, 0).
	c, _, _ := newTestController()

	r := rayAt(2.2, 0)
	id, ok := c.ResolvePick(r)
	if !ok {
		t.Fatal("ray at the target did not pick it")
	}
	c.Teleport(id)
	if p := c.Frame().Pos; p != (geo.Vec3{X: 2.2, Y: 0, Z: 0}) {
		t.Errorf("viewer at %v, want exactly (2.2, 0, 0)", p)
	}
}

func TestSelectHitTeleports(t *testing.T) {
	c, surface, _ := newTestController()
	c.Select(rayAt(2.2, 0), true)
	if c.Frame().Pos.X != 2.2 {
		t.Errorf("select on a target did not teleport: %v", c.Frame().Pos)
	}
	if surface.requests != 0 {
		t.Error("select on a target requested capture")
	}
}

func TestSelectMissRequestsCapture(t *testing.T) {
	c, surface, _ := newTestController()
	c.Select(missRay(), true)
	if surface.requests != 1 {
		t.Errorf("capture requests = %d, want 1", surface.requests)
	}
	if c.Frame().Pos != (geo.Vec3{}) {
		t.Error("missed select moved the viewer")
	}
	// Mode changes only once the surface reports the capture.
	if c.Mode() != ModeDesktopLook {
		t.Errorf("mode = %v before capture granted", c.Mode())
	}
	c.HandleCaptureChange(true)
	if c.Mode() != ModeDesktopLocked {
		t.Errorf("mode = %v after capture granted", c.Mode())
	}
}

func TestSelectWhileLockedUsesCrosshair(t *testing.T) {
	c, surface, _ := newTestController()
	lock(c)
	// Look down at the center target.
	c.ApplyMouseLook(0, math.Pi/2/testTuning().LookSensitivity)

	// The carried pointer ray aims at target 0, but while locked the
	// crosshair (straight down at the center) must win.
	c.Select(rayAt(2.2, 0), true)
	if p := c.Frame().Pos; p.X != 0 || p.Z != 0 {
		t.Errorf("locked select used the cursor ray: viewer at %v", p)
	}
	// A locked miss must not re-request capture.
	if surface.requests != 0 {
		t.Errorf("capture requests = %d, want 0", surface.requests)
	}
}

func TestVRSuppressesDesktopInput(t *testing.T) {
	c, _, arena := newTestController()
	c.BeginSession()
	if c.Mode() != ModeVRPresenting {
		t.Fatalf("mode = %v", c.Mode())
	}

	before := c.Frame()
	c.ApplyMouseLook(100, 100)
	c.ApplyDiscreteMovement(input.KeySet(0).With(input.KeyForward), 1)
	c.Select(rayAt(2.2, 0), true)
	c.UpdateHover(rayAt(2.2, 0))

	if c.Frame() != before {
		t.Errorf("desktop input changed the frame during VR: %+v", c.Frame())
	}
	if c.HoverTarget() != scene.NoTarget || arena.Hovered(0) {
		t.Error("hover state set during VR")
	}

	// Session end restores desktop handling.
	c.EndSession()
	c.ApplyDiscreteMovement(input.KeySet(0).With(input.KeyForward), 1)
	if c.Frame() == before {
		t.Error("desktop input still suppressed after session end")
	}
}

func TestVRSuppressesDesktopThroughStep(t *testing.T) {
	c, _, _ := newTestController()

	snap := &input.Snapshot{SessionStarts: 1}
	snap.Held = input.KeySet(0).With(input.KeyForward)
	snap.Selects = append(snap.Selects, input.Event{Kind: input.EventSelect, Ray: rayAt(2.2, 0), RayValid: true})
	c.Step(snap, nil, 0.016)

	if p := c.Frame().Pos; p != (geo.Vec3{}) {
		t.Errorf("keyboard/click leaked through Step during VR: %v", p)
	}
}

func TestBeginSessionClearsHoverAndCapture(t *testing.T) {
	c, surface, arena := newTestController()
	c.UpdateHover(rayAt(2.2, 0))
	lock(c)

	c.BeginSession()
	if arena.Hovered(0) {
		t.Error("hover survived VR entry")
	}
	if surface.releases != 1 {
		t.Errorf("capture releases = %d, want 1", surface.releases)
	}
}

func TestThumbstickInertWithoutSession(t *testing.T) {
	c, _, _ := newTestController()
	c.ApplyThumbstickMovement(1, 0, 0, 1)
	if c.Frame().Pos != (geo.Vec3{}) {
		t.Error("thumbstick moved the viewer with no active session")
	}
}

func TestFirstControllerWins(t *testing.T) {
	c, _, _ := newTestController()
	c.BeginSession()

	// Both hands push full forward; displacement must equal one hand's worth.
	sources := []vr.Source{
		{Hand: "left", StickX: 0, StickY: -1},
		{Hand: "right", StickX: 0, StickY: -1},
	}
	dt := 0.5
	c.Step(&input.Snapshot{}, sources, dt)

	want := 3.0 * dt
	if got := c.Frame().Pos.Length(); math.Abs(got-want) > eps {
		t.Errorf("two controllers displaced %v, want single-hand %v", got, want)
	}
}

func TestSecondControllerWinsWhenFirstIdle(t *testing.T) {
	c, _, _ := newTestController()
	c.BeginSession()

	sources := []vr.Source{
		{Hand: "left"}, // inside deadzone
		{Hand: "right", StickX: 1, StickY: 0},
	}
	c.Step(&input.Snapshot{}, sources, 0.5)
	if c.Frame().Pos == (geo.Vec3{}) {
		t.Error("idle first controller blocked the second")
	}
}

func TestVRSelectTeleports(t *testing.T) {
	c, _, _ := newTestController()
	c.BeginSession()

	sources := []vr.Source{
		{Hand: "right", Select: true, SelectRay: rayAt(2.2, 0)},
	}
	c.Step(&input.Snapshot{}, sources, 0.016)
	if p := c.Frame().Pos; p.X != 2.2 || p.Z != 0 {
		t.Errorf("VR select did not teleport: %v", p)
	}
}

func TestStepHoverUsesLatestRay(t *testing.T) {
	c, _, _ := newTestController()
	snap := &input.Snapshot{Ray: rayAt(0, 0), RayValid: true}
	c.Step(snap, nil, 0.016)

	center := scene.TargetID(c.arena.TargetCount() - 1)
	if c.HoverTarget() != center {
		t.Errorf("hover = %v, want latest-ray target %v", c.HoverTarget(), center)
	}
}

func BenchmarkStepDesktop(b *testing.B) {
	c, _, _ := newTestController()
	snap := &input.Snapshot{Ray: rayAt(2.2, 0), RayValid: true}
	snap.Held = input.KeySet(0).With(input.KeyForward)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Step(snap, nil, 0.016)
	}
}
