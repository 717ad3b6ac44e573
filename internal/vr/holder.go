package vr

import "sync"

// Holder owns the lifecycle of the current session. The display goroutine
// begins and ends sessions; the frame loop samples whichever session is
// active. At most one session exists at a time.
type Holder struct {
	mu      sync.Mutex
	current *Session
}

// Begin starts a new session and returns it. A no-op returning the existing
// session if one is already active.
func (h *Holder) Begin() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		h.current = NewSession()
	}
	return h.current
}

// End terminates the active session, if any.
func (h *Holder) End() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

// Current returns the active session, or nil.
func (h *Holder) Current() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
