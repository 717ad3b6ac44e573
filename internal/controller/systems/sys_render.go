package systems

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/controller"
	"warvr/internal/input"
	"warvr/internal/panels"
	"warvr/internal/render"
	"warvr/internal/scene"
	"warvr/internal/vr"
)

// RenderSystem assembles the per-frame view from the ECS world and the
// controller frame and hands it to the display. The simulation ticks faster
// than the terminal can usefully redraw, so drawing is throttled to FPSCap;
// a zero cap draws every tick.
type RenderSystem struct {
	Display    render.Display
	Controller *controller.Controller
	Ring       *input.Ring
	Sessions   *vr.Holder
	Boards     []panels.Board
	FPSCap     int

	interval time.Duration
	lastDraw time.Time
	view     render.View

	targetFilter ecs.Filter3[scene.Position, scene.Disc, scene.Highlight]
	boardFilter  ecs.Filter2[scene.Position, scene.Board]
	decorFilter  ecs.Filter2[scene.Position, scene.Decor]
}

func (s *RenderSystem) Initialize(w *ecs.World) {
	if s.FPSCap > 0 {
		s.interval = time.Second / time.Duration(s.FPSCap)
	}
	s.targetFilter = *ecs.NewFilter3[scene.Position, scene.Disc, scene.Highlight](w)
	s.boardFilter = *ecs.NewFilter2[scene.Position, scene.Board](w)
	s.decorFilter = *ecs.NewFilter2[scene.Position, scene.Decor](w)
}

func (s *RenderSystem) Update(w *ecs.World) {
	now := time.Now()
	if s.interval > 0 && now.Sub(s.lastDraw) < s.interval {
		return
	}
	s.lastDraw = now

	v := &s.view
	v.Targets = v.Targets[:0]
	v.Boards = v.Boards[:0]
	v.Decor = v.Decor[:0]

	query := s.targetFilter.Query()
	for query.Next() {
		pos, disc, hl := query.Get()
		v.Targets = append(v.Targets, render.TargetView{
			X: pos.X, Z: pos.Z,
			Radius:  disc.Radius,
			Pulse:   hl.Pulse,
			Hovered: hl.Hovered,
		})
	}

	bq := s.boardFilter.Query()
	for bq.Next() {
		pos, board := bq.Get()
		bv := render.BoardView{Slot: board.Slot, Title: board.Title, X: pos.X, Z: pos.Z}
		if board.Slot >= 0 && board.Slot < len(s.Boards) {
			bv.Lines = s.Boards[board.Slot].Lines
		}
		v.Boards = append(v.Boards, bv)
	}

	dq := s.decorFilter.Query()
	for dq.Next() {
		pos, decor := dq.Get()
		v.Decor = append(v.Decor, render.DecorView{Kind: decor.Kind, X: pos.X, Z: pos.Z})
	}

	frame := s.Controller.Frame()
	v.ViewerX, v.ViewerZ = frame.Pos.X, frame.Pos.Z
	v.Yaw, v.Pitch = frame.Yaw, frame.Pitch
	v.Mode = s.Controller.Mode().String()
	v.HoverSlot = int(s.Controller.HoverTarget())
	v.Presenting = s.Sessions.Current() != nil
	v.Dropped = s.Ring.Dropped()

	_ = s.Display.Draw(v)
}

func (s *RenderSystem) Finalize(w *ecs.World) {}
