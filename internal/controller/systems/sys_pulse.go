package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/scene"
)

// PulseSystem advances the highlight pulse phase of every teleport target.
// The display maps the phase to opacity; hovered targets pulse faster so the
// highlight reads as active.
type PulseSystem struct {
	Rate      float64 // radians per second, normal state
	HoverRate float64 // radians per second while hovered
	DT        float64

	filter ecs.Filter1[scene.Highlight]
}

func (s *PulseSystem) Initialize(w *ecs.World) {
	if s.Rate == 0 {
		s.Rate = 2 * math.Pi / 2.4 // one cycle every 2.4s
	}
	if s.HoverRate == 0 {
		s.HoverRate = 3 * s.Rate
	}
	s.filter = *ecs.NewFilter1[scene.Highlight](w)
}

func (s *PulseSystem) Update(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		hl := query.Get()
		rate := s.Rate
		if hl.Hovered {
			rate = s.HoverRate
		}
		hl.Pulse += rate * s.DT
		if hl.Pulse >= 2*math.Pi {
			hl.Pulse -= 2 * math.Pi
		}
	}
}

func (s *PulseSystem) Finalize(w *ecs.World) {}
