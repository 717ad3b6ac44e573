package loader

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"warvr/internal/loader/schema"
)

type YamlLoader struct {
	File     string
	Manifest schema.Manifest
}

func NewYamlLoader(fileName string) *YamlLoader {
	return &YamlLoader{
		File:     fileName,
		Manifest: schema.Manifest{},
	}
}

func (l *YamlLoader) Load() error {
	file, err := os.Open(l.File)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	reader := bufio.NewReaderSize(file, 64*1024)
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var manifest schema.Manifest
	if err := decoder.Decode(&manifest); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				if strings.HasPrefix(msg, "line") {
					return fmt.Errorf("invalid manifest: %s", msg)
				}
			}
		}
		return fmt.Errorf("invalid manifest: %w", err)
	}

	applyDefaults(&manifest)
	l.Manifest = manifest
	return nil
}

func (l *YamlLoader) GetManifest() schema.Manifest {
	return l.Manifest
}

// applyDefaults fills unset values with the standard room setup. These are
// calibration knobs; see the locomotion section of the manifest.
func applyDefaults(m *schema.Manifest) {
	if m.Room.PanelRadius == 0 {
		m.Room.PanelRadius = 3.2
	}
	if m.Room.EyeHeight == 0 {
		m.Room.EyeHeight = 1.6
	}
	if m.Room.Targets.RingRadius == 0 {
		m.Room.Targets.RingRadius = 2.2
	}
	if m.Room.Targets.Count == 0 {
		m.Room.Targets.Count = 6
	}
	if m.Room.Targets.DiscRadius == 0 {
		m.Room.Targets.DiscRadius = 0.35
	}

	if m.Locomotion.MoveSpeed == 0 {
		m.Locomotion.MoveSpeed = 3.0
	}
	if m.Locomotion.LookSensitivity == 0 {
		m.Locomotion.LookSensitivity = 0.002
	}
	if m.Locomotion.StickDeadzone == 0 {
		m.Locomotion.StickDeadzone = 0.15
	}

	if m.Display.TPS == 0 {
		m.Display.TPS = 60
	}
	if m.Display.FPSCap == 0 {
		m.Display.FPSCap = 30
	}

	if len(m.Panels) == 0 {
		m.Panels = []schema.Panel{
			{Kind: schema.PanelAlerts, Title: "Active Alerts"},
			{Kind: schema.PanelStatus, Title: "Service Status"},
			{Kind: schema.PanelMetrics, Title: "Key Metrics"},
			{Kind: schema.PanelTimeline, Title: "Incident Timeline"},
			{Kind: schema.PanelRunbook, Title: "Runbook"},
		}
	}
}
