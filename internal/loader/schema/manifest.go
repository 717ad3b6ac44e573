// Package schema defines the YAML manifest that describes a war-room
// session: room layout, teleport targets, locomotion tuning, the five
// information panels and the mock incident shown on them.
package schema

import (
	"fmt"
	"time"
)

//// UTILITY TYPES

// Duration parses yaml strings like "90s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	p, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(p)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// StringList accepts a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}
	var multi []string
	if err := unmarshal(&multi); err == nil {
		*s = multi
		return nil
	}
	return fmt.Errorf("value must be a string or list of strings")
}

//// ROOM LAYOUT

// TargetLayout describes the fixed teleport target set. Targets are placed
// once at startup on a ring around the room center, optionally plus a center
// target; they are never created or destroyed afterwards.
type TargetLayout struct {
	RingRadius    float64 `yaml:"ring_radius"`
	Count         int     `yaml:"count"`
	DiscRadius    float64 `yaml:"disc_radius"`
	IncludeCenter bool    `yaml:"include_center"`
}

type Decor struct {
	Kind string  `yaml:"kind"` // desk, rack, plant, column
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
}

type Room struct {
	PanelRadius float64      `yaml:"panel_radius"` // distance of the panel ring from center
	EyeHeight   float64      `yaml:"eye_height"`   // ray origin height; viewer ground Y stays 0
	Targets     TargetLayout `yaml:"targets"`
	Decor       []Decor      `yaml:"decor"`
}

//// LOCOMOTION TUNING
// Environment-tuned values (3 u/s walk speed, 0.15 stick deadzone by
// default). Calibration knobs, not invariants.

type Locomotion struct {
	MoveSpeed       float64 `yaml:"move_speed"`       // units per second
	LookSensitivity float64 `yaml:"look_sensitivity"` // radians per pointer unit
	StickDeadzone   float64 `yaml:"stick_deadzone"`   // [0,1) magnitude threshold
}

//// PANELS AND INCIDENT CONTENT

type PanelKind string

const (
	PanelAlerts   PanelKind = "alerts"
	PanelStatus   PanelKind = "status"
	PanelMetrics  PanelKind = "metrics"
	PanelTimeline PanelKind = "timeline"
	PanelRunbook  PanelKind = "runbook"
)

type Panel struct {
	Kind  PanelKind `yaml:"kind"`
	Title string    `yaml:"title"`
}

type Service struct {
	Name      string `yaml:"name"`
	Status    string `yaml:"status"` // ok, degraded, down
	LatencyMS int    `yaml:"latency_ms"`
}

type Alert struct {
	Severity string   `yaml:"severity"` // critical, warning, info
	Source   string   `yaml:"source"`
	Message  string   `yaml:"message"`
	Age      Duration `yaml:"age"`
}

type TimelineEvent struct {
	Offset Duration `yaml:"offset"` // since incident start
	Text   string   `yaml:"text"`
}

type Incident struct {
	Title    string          `yaml:"title"`
	Severity string          `yaml:"severity"`
	Services []Service       `yaml:"services"`
	Alerts   []Alert         `yaml:"alerts"`
	Timeline []TimelineEvent `yaml:"timeline"`
	Runbook  StringList      `yaml:"runbook"`
}

//// DISPLAY

type Display struct {
	TPS    int `yaml:"tps"`     // simulation ticks per second
	FPSCap int `yaml:"fps_cap"` // render throttle
}

//// MANIFEST

type Manifest struct {
	Room       Room       `yaml:"room"`
	Locomotion Locomotion `yaml:"locomotion"`
	Panels     []Panel    `yaml:"panels"`
	Incident   Incident   `yaml:"incident"`
	Display    Display    `yaml:"display"`
}
