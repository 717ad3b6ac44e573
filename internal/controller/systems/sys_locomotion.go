package systems

import (
	"github.com/mlange-42/ark/ecs"

	"warvr/internal/controller"
)

// LocomotionSystem feeds the frame's digested input into the locomotion
// controller. DT is the fixed tick length in seconds.
type LocomotionSystem struct {
	Controller *controller.Controller
	DT         float64

	inputRes ecs.Resource[FrameInput]
}

func (s *LocomotionSystem) Initialize(w *ecs.World) {
	s.inputRes = ecs.NewResource[FrameInput](w)
	if !s.inputRes.Has() {
		s.inputRes.Add(&FrameInput{})
	}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	fi := s.inputRes.Get()
	s.Controller.Step(&fi.Snap, fi.Sources, s.DT)
}

func (s *LocomotionSystem) Finalize(w *ecs.World) {}
