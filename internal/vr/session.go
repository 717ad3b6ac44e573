// Package vr simulates an immersive session. No HMD exists in this
// environment, so a session is a pair of synthetic hand controllers whose
// thumbstick axes and trigger are driven by the display layer while the
// session is active. The locomotion controller consumes the per-frame source
// list exactly as it would consume real controllers.
package vr

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"warvr/internal/geo"
)

// Source is one hand controller's per-frame reading. Stick axes are always
// within [-1, 1]; Select is an edge, reported on exactly one frame per
// trigger pull, carrying the controller's forward ray.
type Source struct {
	ID        uuid.UUID
	Hand      string
	StickX    float64
	StickY    float64
	Select    bool
	SelectRay geo.Ray
}

// Session holds the synthetic sources. The display goroutine writes stick
// and trigger state; the frame loop samples it once per tick.
type Session struct {
	mu      sync.Mutex
	id      uuid.UUID
	started time.Time
	sources [2]Source
	pending [2]bool // trigger pulls not yet sampled
	rays    [2]geo.Ray
}

// NewSession creates a session with a left and a right controller.
func NewSession() *Session {
	s := &Session{id: uuid.New(), started: time.Now()}
	s.sources[0] = Source{ID: uuid.New(), Hand: "left"}
	s.sources[1] = Source{ID: uuid.New(), Hand: "right"}
	return s
}

// ID returns the session identifier used for log correlation.
func (s *Session) ID() uuid.UUID { return s.id }

// Started returns the session start time.
func (s *Session) Started() time.Time { return s.started }

// SetStick updates a hand's thumbstick axes, clamped to [-1, 1]. Out-of-range
// hands are ignored.
func (s *Session) SetStick(hand int, x, y float64) {
	if hand < 0 || hand >= len(s.sources) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[hand].StickX = geo.Clamp(x, -1, 1)
	s.sources[hand].StickY = geo.Clamp(y, -1, 1)
}

// PullTrigger records a trigger pull with the controller's current forward
// ray. The pull is delivered on the next Frame call.
func (s *Session) PullTrigger(hand int, ray geo.Ray) {
	if hand < 0 || hand >= len(s.sources) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[hand] = true
	s.rays[hand] = ray
}

// Frame returns the per-frame source list. Trigger pulls recorded since the
// previous call are delivered exactly once.
func (s *Session) Frame() []Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Source, len(s.sources))
	for i := range s.sources {
		out[i] = s.sources[i]
		if s.pending[i] {
			out[i].Select = true
			out[i].SelectRay = s.rays[i]
			s.pending[i] = false
		}
	}
	return out
}
