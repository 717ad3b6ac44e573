package validator

import (
	"strings"
	"testing"

	"warvr/internal/loader/schema"
)

func validManifest() schema.Manifest {
	return schema.Manifest{
		Room: schema.Room{
			PanelRadius: 3.2,
			EyeHeight:   1.6,
			Targets: schema.TargetLayout{
				RingRadius: 2.2,
				Count:      6,
				DiscRadius: 0.35,
			},
		},
		Locomotion: schema.Locomotion{
			MoveSpeed:       3.0,
			LookSensitivity: 0.002,
			StickDeadzone:   0.15,
		},
		Panels: []schema.Panel{
			{Kind: schema.PanelAlerts, Title: "Active Alerts"},
		},
		Display: schema.Display{TPS: 60, FPSCap: 30},
	}
}

func TestValidateManifestOK(t *testing.T) {
	m := validManifest()
	if err := New().ValidateManifest(&m); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
}

func TestValidateManifestRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.Manifest)
		field  string
	}{
		{"deadzone too large", func(m *schema.Manifest) { m.Locomotion.StickDeadzone = 1.0 }, "stick_deadzone"},
		{"negative deadzone", func(m *schema.Manifest) { m.Locomotion.StickDeadzone = -0.1 }, "stick_deadzone"},
		{"zero speed", func(m *schema.Manifest) { m.Locomotion.MoveSpeed = 0 }, "move_speed"},
		{"zero sensitivity", func(m *schema.Manifest) { m.Locomotion.LookSensitivity = 0 }, "look_sensitivity"},
		{"zero ring radius", func(m *schema.Manifest) { m.Room.Targets.RingRadius = 0 }, "ring_radius"},
		{"too many targets", func(m *schema.Manifest) { m.Room.Targets.Count = 100 }, "count"},
		{"overlapping discs", func(m *schema.Manifest) { m.Room.Targets.DiscRadius = 2.0 }, "targets"},
		{"unknown panel kind", func(m *schema.Manifest) { m.Panels[0].Kind = "weather" }, "kind"},
		{"empty panel title", func(m *schema.Manifest) { m.Panels[0].Title = "" }, "title"},
		{"fps above tps", func(m *schema.Manifest) { m.Display.FPSCap = 120 }, "fps_cap"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := validManifest()
			tc.mutate(&m)
			err := New().ValidateManifest(&m)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention %q", err, tc.field)
			}
		})
	}
}

func TestValidateDeadzoneZeroAllowed(t *testing.T) {
	m := validManifest()
	m.Locomotion.StickDeadzone = 0
	if err := New().ValidateManifest(&m); err != nil {
		t.Fatalf("deadzone 0 should be allowed: %v", err)
	}
}
