package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlange-42/ark-tools/app"

	"warvr/internal/controller"
	"warvr/internal/controller/systems"
	"warvr/internal/geo"
	"warvr/internal/input"
	"warvr/internal/loader/loader"
	"warvr/internal/loader/validator"
	"warvr/internal/logger"
	"warvr/internal/panels"
	"warvr/internal/render"
	"warvr/internal/scene"
	"warvr/internal/vr"
)

const defaultManifest = "warroom.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal owns stderr once tcell starts, so default logs to a file
	// unless the environment says otherwise.
	if os.Getenv("WARVR_LOG_FILE") == "" {
		os.Setenv("WARVR_LOG_FILE", "warvr.log")
	}
	log, err := logger.NewComponent("main")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	manifestPath := defaultManifest
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	l := loader.NewLoader("yaml", manifestPath)
	if err := l.Load(); err != nil {
		return fmt.Errorf("load manifest %s: %w", manifestPath, err)
	}
	manifest := l.GetManifest()
	if err := validator.New().ValidateManifest(&manifest); err != nil {
		return fmt.Errorf("validate manifest %s: %w", manifestPath, err)
	}
	log.Info("manifest loaded",
		logger.Field{Key: "path", Value: manifestPath},
		logger.Field{Key: "incident", Value: manifest.Incident.Title},
		logger.Field{Key: "targets", Value: manifest.Room.Targets.Count},
	)

	boards, err := panels.Compose(manifest.Incident, manifest.Panels, log)
	if err != nil {
		return fmt.Errorf("compose panels: %w", err)
	}

	tool := app.New(1024)
	tool.TPS = float64(manifest.Display.TPS)

	arena := scene.Build(&tool.World, manifest.Room, manifest.Panels)

	ring := input.NewRing(256)
	sessions := &vr.Holder{}

	// The controller and the terminal reference each other: the terminal is
	// the controller's capture surface, and the terminal needs the crosshair
	// ray for keyboard selects and VR trigger pulls. The crosshair closure
	// breaks the cycle.
	var ctrl *controller.Controller
	term, err := render.NewTerminal(ring, sessions,
		func() geo.Ray { return ctrl.CrosshairRay() },
		manifest.Room.EyeHeight, log)
	if err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer term.Close()

	ctrl = controller.New(arena,
		term,
		controller.TuningFrom(manifest.Locomotion, manifest.Room),
		log,
	)

	dt := 1.0 / tool.TPS
	tool.AddSystem(&systems.InputSystem{
		Ring:       ring,
		Sessions:   sessions,
		HoldWindow: input.DefaultHoldWindow,
	})
	tool.AddSystem(&systems.LocomotionSystem{Controller: ctrl, DT: dt})
	tool.AddSystem(&systems.PulseSystem{DT: dt})
	tool.AddSystem(&systems.RenderSystem{
		Display:    term,
		Controller: ctrl,
		Ring:       ring,
		Sessions:   sessions,
		Boards:     boards,
		FPSCap:     manifest.Display.FPSCap,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	tool.Initialize()
	go term.Run()

	log.Info("war room up",
		logger.Field{Key: "tps", Value: manifest.Display.TPS},
		logger.Field{Key: "fps_cap", Value: manifest.Display.FPSCap},
	)

	mainLoop(tool, term, sigChan)

	tool.Finalize()
	log.Info("shutdown complete", logger.Field{Key: "dropped_events", Value: ring.Dropped()})
	return nil
}

func mainLoop(tool *app.App, term *render.Terminal, sigChan chan os.Signal) {
	ticker := time.NewTicker(time.Second / time.Duration(tool.TPS))
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			return
		case <-term.Done():
			return
		case <-ticker.C:
			tool.Update()
		}
	}
}
