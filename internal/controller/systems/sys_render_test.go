package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/controller"
	"warvr/internal/input"
	"warvr/internal/loader/schema"
	"warvr/internal/panels"
	"warvr/internal/render"
	"warvr/internal/scene"
	"warvr/internal/vr"
)

type recordingDisplay struct {
	draws int
	last  render.View
}

func (d *recordingDisplay) Draw(v *render.View) error {
	d.draws++
	d.last = *v
	d.last.Targets = append([]render.TargetView(nil), v.Targets...)
	d.last.Boards = append([]render.BoardView(nil), v.Boards...)
	return nil
}

func TestRenderSystemAssemblesView(t *testing.T) {
	world := ecs.NewWorld()
	defs := []schema.Panel{
		{Kind: schema.PanelAlerts, Title: "Alerts"},
		{Kind: schema.PanelRunbook, Title: "Runbook"},
	}
	arena := scene.Build(&world, testRoom(), defs)
	ctrl := controller.New(arena, nopSurface{}, testTuning(), nil)

	boards, err := panels.Compose(schema.Incident{Title: "drill"}, defs, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	disp := &recordingDisplay{}
	sys := &RenderSystem{
		Display:    disp,
		Controller: ctrl,
		Ring:       input.NewRing(8),
		Sessions:   &vr.Holder{},
		Boards:     boards,
	}
	sys.Initialize(&world)
	sys.Update(&world)

	if disp.draws != 1 {
		t.Fatalf("expected one draw, got %d", disp.draws)
	}
	v := disp.last
	if len(v.Targets) != 7 {
		t.Fatalf("expected 6 ring targets plus center, got %d", len(v.Targets))
	}
	if len(v.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(v.Boards))
	}
	for _, b := range v.Boards {
		if len(b.Lines) == 0 {
			t.Fatalf("board %d carries no composed lines", b.Slot)
		}
	}
	if v.HoverSlot != int(scene.NoTarget) {
		t.Fatalf("expected no hover, got slot %d", v.HoverSlot)
	}
	if v.Mode != "desktop-look" {
		t.Fatalf("unexpected mode %q", v.Mode)
	}
}

func TestRenderSystemThrottlesToCap(t *testing.T) {
	world := ecs.NewWorld()
	arena := scene.Build(&world, testRoom(), nil)
	ctrl := controller.New(arena, nopSurface{}, testTuning(), nil)

	disp := &recordingDisplay{}
	sys := &RenderSystem{
		Display:    disp,
		Controller: ctrl,
		Ring:       input.NewRing(8),
		Sessions:   &vr.Holder{},
		FPSCap:     1, // one frame per second, so back-to-back updates skip
	}
	sys.Initialize(&world)

	sys.Update(&world)
	sys.Update(&world)
	sys.Update(&world)

	if disp.draws != 1 {
		t.Fatalf("expected the cap to swallow repeat draws, got %d", disp.draws)
	}
}
