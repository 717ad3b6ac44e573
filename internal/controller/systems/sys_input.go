package systems

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/input"
	"warvr/internal/vr"
)

// InputSystem drains the raw event ring once per tick and folds it into the
// FrameInput resource. Pointer rays collapse last-writer-wins so pick and
// hover resolution always see the frame's latest ray; look deltas accumulate;
// key presses feed the repeat-decay tracker.
type InputSystem struct {
	Ring       *input.Ring
	Sessions   *vr.Holder
	HoldWindow time.Duration

	tracker  input.HeldTracker
	buf      []input.Event
	inputRes ecs.Resource[FrameInput]
}

func (s *InputSystem) Initialize(w *ecs.World) {
	s.tracker = input.HeldTracker{Window: s.HoldWindow}
	s.buf = make([]input.Event, 0, 64)
	s.inputRes = ecs.NewResource[FrameInput](w)
	if !s.inputRes.Has() {
		s.inputRes.Add(&FrameInput{})
	}
}

func (s *InputSystem) Update(w *ecs.World) {
	fi := s.inputRes.Get()
	snap := &fi.Snap
	snap.Reset()

	now := time.Now()
	s.buf = s.Ring.Drain(s.buf[:0])
	for _, ev := range s.buf {
		switch ev.Kind {
		case input.EventPointerMoved:
			snap.Ray = ev.Ray
			snap.RayValid = ev.RayValid
		case input.EventSelect:
			snap.Selects = append(snap.Selects, ev)
		case input.EventLook:
			snap.LookDX += ev.DX
			snap.LookDY += ev.DY
		case input.EventKeyPressed:
			t := ev.Time
			if t.IsZero() {
				t = now
			}
			s.tracker.Press(ev.Key, t)
		case input.EventCaptureChange:
			snap.CaptureChanges = append(snap.CaptureChanges, ev.Captured)
		case input.EventSessionStart:
			snap.SessionStarts++
		case input.EventSessionEnd:
			snap.SessionEnds++
		}
	}
	snap.Held = s.tracker.Held(now)

	fi.Sources = fi.Sources[:0]
	if sess := s.Sessions.Current(); sess != nil {
		fi.Sources = append(fi.Sources, sess.Frame()...)
	}
}

func (s *InputSystem) Finalize(w *ecs.World) {}
