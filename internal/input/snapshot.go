package input

import (
	"time"

	"warvr/internal/geo"
)

// Snapshot is the per-frame digest of raw events, produced by the input
// system and consumed by the locomotion controller. It is rebuilt every
// frame; only the held-key tracker carries state across frames.
type Snapshot struct {
	// Held movement keys, after repeat-decay folding.
	Held KeySet

	// Latest pointer ray of the frame (last writer wins within the frame).
	Ray      geo.Ray
	RayValid bool

	// Accumulated look deltas while capture was held.
	LookDX, LookDY float64

	// Select events in arrival order, each carrying its pointer ray.
	Selects []Event

	// Capture and session transitions. Arrival order relative to selects is
	// not preserved; transitions apply before selects of the same frame,
	// which is indistinguishable at 60 ticks per second.
	CaptureChanges []bool
	SessionStarts  int
	SessionEnds    int
}

// Reset clears the snapshot for reuse without reallocating slices.
func (s *Snapshot) Reset() {
	s.Held = 0
	s.RayValid = false
	s.LookDX, s.LookDY = 0, 0
	s.Selects = s.Selects[:0]
	s.CaptureChanges = s.CaptureChanges[:0]
	s.SessionStarts = 0
	s.SessionEnds = 0
}

// HeldTracker folds terminal key-press events into a held-key set. Terminals
// report key repeats but no releases, so a key counts as held until no press
// has been seen for the decay window.
type HeldTracker struct {
	Window time.Duration
	last   [keyCount]time.Time
}

// DefaultHoldWindow comfortably covers typical terminal key-repeat gaps.
const DefaultHoldWindow = 200 * time.Millisecond

func (h *HeldTracker) window() time.Duration {
	if h.Window <= 0 {
		return DefaultHoldWindow
	}
	return h.Window
}

// Press records a key press at the given time.
func (h *HeldTracker) Press(k Key, now time.Time) {
	if k < keyCount {
		h.last[k] = now
	}
}

// Held returns the set of keys still inside their decay window.
func (h *HeldTracker) Held(now time.Time) KeySet {
	var s KeySet
	w := h.window()
	for k := Key(0); k < keyCount; k++ {
		if !h.last[k].IsZero() && now.Sub(h.last[k]) <= w {
			s = s.With(k)
		}
	}
	return s
}
