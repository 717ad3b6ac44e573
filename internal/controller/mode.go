package controller

// Mode is the active input modality. Exactly one modality is authoritative
// at a time; every input path dispatches through the mode in one place
// (Controller.Step), so desktop and VR logic can never interleave.
type Mode uint8

const (
	// ModeDesktopLook: pointer moves freely, clicks either teleport or
	// request pointer capture.
	ModeDesktopLook Mode = iota
	// ModeDesktopLocked: pointer capture held, pointer deltas drive the view,
	// clicks re-pick from the crosshair ray.
	ModeDesktopLocked
	// ModeVRPresenting: a VR session is active; desktop input is suppressed
	// entirely.
	ModeVRPresenting
)

func (m Mode) String() string {
	switch m {
	case ModeDesktopLook:
		return "desktop-look"
	case ModeDesktopLocked:
		return "desktop-locked"
	case ModeVRPresenting:
		return "vr-presenting"
	default:
		return "unknown"
	}
}

// Desktop reports whether a desktop sub-mode is active.
func (m Mode) Desktop() bool {
	return m == ModeDesktopLook || m == ModeDesktopLocked
}
