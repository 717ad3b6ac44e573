// Package validator checks a loaded manifest for values the simulator
// cannot run with. Loading is the only place the program can fail; every
// later operation is a pure frame-local state transformation.
package validator

import (
	"fmt"

	"warvr/internal/loader/schema"
)

type fieldError struct {
	Field  string
	Reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("manifest field %s: %s", e.Field, e.Reason)
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateManifest(m *schema.Manifest) error {
	if err := v.validateRoom(&m.Room); err != nil {
		return err
	}
	if err := v.validateLocomotion(&m.Locomotion); err != nil {
		return err
	}
	if err := v.validatePanels(m.Panels); err != nil {
		return err
	}
	if m.Display.TPS < 1 || m.Display.TPS > 1000 {
		return &fieldError{Field: "display.tps", Reason: "must be in [1, 1000]"}
	}
	if m.Display.FPSCap < 1 || m.Display.FPSCap > m.Display.TPS {
		return &fieldError{Field: "display.fps_cap", Reason: "must be in [1, tps]"}
	}
	return nil
}

func (v *Validator) validateRoom(r *schema.Room) error {
	if r.PanelRadius <= 0 {
		return &fieldError{Field: "room.panel_radius", Reason: "must be positive"}
	}
	if r.EyeHeight <= 0 {
		return &fieldError{Field: "room.eye_height", Reason: "must be positive"}
	}
	t := r.Targets
	if t.RingRadius <= 0 {
		return &fieldError{Field: "room.targets.ring_radius", Reason: "must be positive"}
	}
	if t.Count < 1 || t.Count > 64 {
		return &fieldError{Field: "room.targets.count", Reason: "must be in [1, 64]"}
	}
	if t.DiscRadius <= 0 {
		return &fieldError{Field: "room.targets.disc_radius", Reason: "must be positive"}
	}
	// Overlapping discs make nearest-hit picking ambiguous to users even
	// though resolution stays deterministic.
	if t.Count > 1 {
		circumference := 2 * 3.141592653589793 * t.RingRadius
		if circumference/float64(t.Count) < 2*t.DiscRadius {
			return &fieldError{Field: "room.targets", Reason: "discs overlap on the ring; reduce count or disc_radius"}
		}
	}
	return nil
}

func (v *Validator) validateLocomotion(l *schema.Locomotion) error {
	if l.MoveSpeed <= 0 {
		return &fieldError{Field: "locomotion.move_speed", Reason: "must be positive"}
	}
	if l.LookSensitivity <= 0 {
		return &fieldError{Field: "locomotion.look_sensitivity", Reason: "must be positive"}
	}
	if l.StickDeadzone < 0 || l.StickDeadzone >= 1 {
		return &fieldError{Field: "locomotion.stick_deadzone", Reason: "must be in [0, 1)"}
	}
	return nil
}

func (v *Validator) validatePanels(panels []schema.Panel) error {
	known := map[schema.PanelKind]bool{
		schema.PanelAlerts:   true,
		schema.PanelStatus:   true,
		schema.PanelMetrics:  true,
		schema.PanelTimeline: true,
		schema.PanelRunbook:  true,
	}
	for i, p := range panels {
		if !known[p.Kind] {
			return &fieldError{
				Field:  fmt.Sprintf("panels[%d].kind", i),
				Reason: fmt.Sprintf("unknown kind %q", p.Kind),
			}
		}
		if p.Title == "" {
			return &fieldError{
				Field:  fmt.Sprintf("panels[%d].title", i),
				Reason: "cannot be empty",
			}
		}
	}
	return nil
}
