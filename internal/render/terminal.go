package render

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"warvr/internal/geo"
	"warvr/internal/input"
	"warvr/internal/logger"
	"warvr/internal/vr"
)

// lookCellScale converts terminal cell deltas into pointer units. Cells are
// coarse compared to pixels, so one cell counts as several units.
const lookCellScale = 10.0

// stickDecay resets a synthetic thumbstick to center once its driving key
// stops repeating. Matches the key-repeat decay used for walking.
const stickDecay = 250 * time.Millisecond

// Terminal is the tcell-backed display. It draws the top-down room map plus
// the panel pane, and runs the event loop that feeds the input ring. It also
// implements the controller's CaptureSurface: "pointer capture" here is a
// simulated state in which mouse motion turns into look deltas instead of a
// pointer ray.
type Terminal struct {
	screen    tcell.Screen
	ring      *input.Ring
	sessions  *vr.Holder
	crosshair func() geo.Ray
	eyeHeight float64
	log       logger.Logger

	captured atomic.Bool

	// Projection parameters, written by Draw and read by the event loop when
	// mapping mouse cells back to floor coordinates.
	mu             sync.Mutex
	cx, cy         int
	scaleX, scaleY float64

	lastMouseX, lastMouseY int
	haveMouse              bool
	lastButtons            tcell.ButtonMask

	stickMu   sync.Mutex
	lastStick time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewTerminal initializes the tcell screen. The crosshair callback supplies
// the current view-center ray for keyboard selects and VR trigger pulls.
func NewTerminal(ring *input.Ring, sessions *vr.Holder, crosshair func() geo.Ray, eyeHeight float64, log logger.Logger) (*Terminal, error) {
	if log == nil {
		log = logger.Nop()
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	return &Terminal{
		screen:    screen,
		ring:      ring,
		sessions:  sessions,
		crosshair: crosshair,
		eyeHeight: eyeHeight,
		log:       log,
		scaleX:    1,
		scaleY:    1,
		done:      make(chan struct{}),
	}, nil
}

// Done is closed when the user quits.
func (t *Terminal) Done() <-chan struct{} { return t.done }

// Close releases the terminal. Safe to call more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		t.screen.Fini()
	})
}

// RequestCapture simulates pointer-capture acquisition. The transition is
// reported through the event ring like any other input, so the controller
// changes mode on the frame that observes it.
func (t *Terminal) RequestCapture() {
	if t.captured.CompareAndSwap(false, true) {
		t.ring.Push(input.Event{Kind: input.EventCaptureChange, Captured: true, Time: time.Now()})
	}
}

// ReleaseCapture simulates pointer-capture release.
func (t *Terminal) ReleaseCapture() {
	if t.captured.CompareAndSwap(true, false) {
		t.ring.Push(input.Event{Kind: input.EventCaptureChange, Captured: false, Time: time.Now()})
	}
}

// Run is the display event loop. It blocks until the user quits or the
// screen is closed; main runs it on its own goroutine.
func (t *Terminal) Run() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if t.handleKey(ev) {
				t.Close()
				return
			}
		case *tcell.EventMouse:
			t.handleMouse(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// handleKey translates one key event. Returns true on quit.
func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	now := ev.When()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if t.captured.Load() {
			t.ReleaseCapture()
			return false
		}
		return true
	case tcell.KeyUp:
		t.pushKey(input.KeyForward, now)
		return false
	case tcell.KeyDown:
		t.pushKey(input.KeyBack, now)
		return false
	case tcell.KeyLeft:
		t.pushKey(input.KeyLeft, now)
		return false
	case tcell.KeyRight:
		t.pushKey(input.KeyRight, now)
		return false
	case tcell.KeyEnter:
		if sess := t.sessions.Current(); sess != nil {
			sess.PullTrigger(0, t.crosshair())
		} else {
			// Keyboard select falls back to the crosshair ray.
			t.ring.Push(input.Event{Kind: input.EventSelect, Time: now})
		}
		return false
	}

	switch ev.Rune() {
	case 'w', 'W':
		t.pushKey(input.KeyForward, now)
	case 's', 'S':
		t.pushKey(input.KeyBack, now)
	case 'a', 'A':
		t.pushKey(input.KeyLeft, now)
	case 'd', 'D':
		t.pushKey(input.KeyRight, now)
	case 'v', 'V':
		t.toggleSession(now)
	case 'i', 'I':
		t.setStick(0, -1, now)
	case 'k', 'K':
		t.setStick(0, 1, now)
	case 'j', 'J':
		t.setStick(-1, 0, now)
	case 'l', 'L':
		t.setStick(1, 0, now)
	case 'q', 'Q':
		return true
	}
	return false
}

func (t *Terminal) pushKey(k input.Key, now time.Time) {
	t.ring.Push(input.Event{Kind: input.EventKeyPressed, Key: k, Time: now})
}

// toggleSession flips the simulated immersive session on 'v'.
func (t *Terminal) toggleSession(now time.Time) {
	if t.sessions.Current() == nil {
		sess := t.sessions.Begin()
		t.ring.Push(input.Event{Kind: input.EventSessionStart, Time: now})
		t.log.Info("session toggle on", logger.Field{Key: "session", Value: sess.ID().String()})
		return
	}
	t.sessions.End()
	t.ring.Push(input.Event{Kind: input.EventSessionEnd, Time: now})
	t.log.Info("session toggle off")
}

// setStick drives the left synthetic thumbstick while a session is active.
func (t *Terminal) setStick(x, y float64, now time.Time) {
	sess := t.sessions.Current()
	if sess == nil {
		return
	}
	sess.SetStick(0, x, y)
	t.stickMu.Lock()
	t.lastStick = now
	t.stickMu.Unlock()
}

// decayStick recenters the stick once its key stops repeating. Called from
// Draw, which runs every frame.
func (t *Terminal) decayStick() {
	sess := t.sessions.Current()
	if sess == nil {
		return
	}
	t.stickMu.Lock()
	stale := !t.lastStick.IsZero() && time.Since(t.lastStick) > stickDecay
	t.stickMu.Unlock()
	if stale {
		sess.SetStick(0, 0, 0)
	}
}

func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	now := ev.When()

	if t.captured.Load() {
		if t.haveMouse {
			dx := float64(x-t.lastMouseX) * lookCellScale
			dy := float64(y-t.lastMouseY) * lookCellScale
			if dx != 0 || dy != 0 {
				t.ring.Push(input.Event{Kind: input.EventLook, DX: dx, DY: dy, Time: now})
			}
		}
	} else {
		wx, wz := t.cellToWorld(x, y)
		t.ring.Push(input.Event{
			Kind:     input.EventPointerMoved,
			Ray:      t.pointerRay(wx, wz),
			RayValid: true,
			Time:     now,
		})
	}
	t.lastMouseX, t.lastMouseY = x, y
	t.haveMouse = true

	buttons := ev.Buttons()
	if buttons&tcell.Button1 != 0 && t.lastButtons&tcell.Button1 == 0 {
		evt := input.Event{Kind: input.EventSelect, Time: now}
		if !t.captured.Load() {
			wx, wz := t.cellToWorld(x, y)
			evt.Ray = t.pointerRay(wx, wz)
			evt.RayValid = true
		}
		t.ring.Push(evt)
	}
	t.lastButtons = buttons
}

// pointerRay casts straight down onto the floor point under the cursor. The
// top-down map makes the eye-to-floor ray degenerate, so the vertical ray is
// the faithful equivalent: it hits exactly the pointed-at floor coordinate.
func (t *Terminal) pointerRay(wx, wz float64) geo.Ray {
	return geo.Ray{
		Origin: geo.Vec3{X: wx, Y: t.eyeHeight, Z: wz},
		Dir:    geo.Vec3{Y: -1},
	}
}

func (t *Terminal) cellToWorld(x, y int) (float64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(x-t.cx) / t.scaleX, float64(y-t.cy) / t.scaleY
}

func (t *Terminal) worldToCell(wx, wz float64) (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cx + int(math.Round(wx*t.scaleX)), t.cy + int(math.Round(wz*t.scaleY))
}

//// DRAWING

const panelPaneWidth = 44

var (
	styleDefault = tcell.StyleDefault
	styleDim     = tcell.StyleDefault.Dim(true)
	styleBold    = tcell.StyleDefault.Bold(true)
	styleHover   = tcell.StyleDefault.Reverse(true).Bold(true)
	styleViewer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBoard   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleHUD     = tcell.StyleDefault.Dim(true)
)

// Draw renders one frame. Called from the frame loop, never concurrently
// with itself.
func (t *Terminal) Draw(v *View) error {
	select {
	case <-t.done:
		return nil
	default:
	}

	t.decayStick()

	w, h := t.screen.Size()
	mapW := w - panelPaneWidth
	if mapW < 20 {
		mapW = w
	}
	mapH := h - 2

	// Fit the whole room into the map pane. Terminal cells are roughly twice
	// as tall as wide, so Z gets half the X scale.
	extent := roomExtent(v)
	t.mu.Lock()
	t.cx, t.cy = mapW/2, mapH/2
	t.scaleX = float64(mapW-4) / (2 * extent)
	t.scaleY = float64(mapH-2) / (2 * extent)
	if t.scaleY > t.scaleX/2 {
		t.scaleY = t.scaleX / 2
	}
	t.mu.Unlock()

	t.screen.Clear()

	for _, d := range v.Decor {
		x, y := t.worldToCell(d.X, d.Z)
		t.setCell(x, y, decorGlyph(d.Kind), styleDim)
	}

	for i, tg := range v.Targets {
		x, y := t.worldToCell(tg.X, tg.Z)
		style := pulseStyle(tg.Pulse)
		glyph := 'o'
		if tg.Hovered {
			style = styleHover
			glyph = 'O'
		}
		t.setCell(x, y, glyph, style)
		if i == v.HoverSlot {
			t.setCell(x-1, y, '[', style)
			t.setCell(x+1, y, ']', style)
		}
	}

	for _, b := range v.Boards {
		x, y := t.worldToCell(b.X, b.Z)
		t.setCell(x, y, rune('1'+b.Slot), styleBoard)
	}

	vx, vy := t.worldToCell(v.ViewerX, v.ViewerZ)
	t.setCell(vx, vy, yawGlyph(v.Yaw), styleViewer)

	if mapW < w {
		t.drawPanels(mapW, v.Boards, h)
	}
	t.drawHUD(v, w, h)

	t.screen.Show()
	return nil
}

func (t *Terminal) drawPanels(x0 int, boards []BoardView, h int) {
	for y := 0; y < h; y++ {
		t.setCell(x0, y, '|', styleDim)
	}
	y := 0
	for _, b := range boards {
		if y >= h-2 {
			break
		}
		t.drawText(x0+2, y, fmt.Sprintf("%d. %s", b.Slot+1, b.Title), styleBold)
		y++
		for _, line := range b.Lines {
			if y >= h-2 {
				break
			}
			t.drawText(x0+4, y, line, styleDefault)
			y++
		}
		y++
	}
}

func (t *Terminal) drawHUD(v *View, w, h int) {
	hover := "-"
	if v.HoverSlot >= 0 {
		hover = fmt.Sprintf("%d", v.HoverSlot)
	}
	status := fmt.Sprintf(" %s  pos(%.1f, %.1f)  yaw %.0f°  pitch %.0f°  hover %s  dropped %d",
		v.Mode, v.ViewerX, v.ViewerZ,
		v.Yaw*180/math.Pi, v.Pitch*180/math.Pi, hover, v.Dropped)
	t.drawText(0, h-2, status, styleBold)

	help := " click: teleport/capture  wasd: walk  v: vr  ijkl: stick  enter: trigger  esc: release/quit"
	if v.Presenting {
		help = " PRESENTING  ijkl: glide  enter: teleport at crosshair  v: leave vr"
	}
	if len(help) > w {
		help = help[:w]
	}
	t.drawText(0, h-1, help, styleHUD)
}

func (t *Terminal) setCell(x, y int, r rune, style tcell.Style) {
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// roomExtent returns the half-width of the world square that must fit on the
// map pane.
func roomExtent(v *View) float64 {
	extent := 1.0
	for _, b := range v.Boards {
		if r := math.Hypot(b.X, b.Z); r > extent {
			extent = r
		}
	}
	for _, tg := range v.Targets {
		if r := math.Hypot(tg.X, tg.Z) + tg.Radius; r > extent {
			extent = r
		}
	}
	if r := math.Hypot(v.ViewerX, v.ViewerZ); r > extent {
		extent = r
	}
	return extent + 1
}

// pulseStyle maps the highlight phase onto three brightness steps.
func pulseStyle(phase float64) tcell.Style {
	switch s := math.Sin(phase); {
	case s > 0.33:
		return styleBold
	case s < -0.33:
		return styleDim
	default:
		return styleDefault
	}
}

// yawGlyph points the viewer marker along the look direction. Yaw 0 faces -Z,
// which is up on the map.
func yawGlyph(yaw float64) rune {
	a := geo.WrapAngle(yaw)
	switch {
	case a > -math.Pi/4 && a <= math.Pi/4:
		return '^'
	case a > math.Pi/4 && a <= 3*math.Pi/4:
		return '<'
	case a <= -math.Pi/4 && a > -3*math.Pi/4:
		return '>'
	default:
		return 'v'
	}
}

func decorGlyph(kind string) rune {
	switch kind {
	case "desk":
		return '='
	case "rack":
		return '#'
	case "plant":
		return '*'
	case "column":
		return '+'
	}
	return '.'
}
