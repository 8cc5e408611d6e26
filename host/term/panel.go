// Package term implements a host panel that renders the engine's frames in a
// terminal using bubbletea.
//
// Terminals report key presses but not releases, so the panel taps keys into
// a host.KeyQueue and lets the queue synthesize releases after a hold window.
package term

import (
	"sync"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/host"
)

// Panel is a bridge.Host that keeps the latest frame for the terminal view.
type Panel struct {
	clock    *host.Clock
	keys     *host.KeyQueue
	sleep    func(ms uint64)
	maxSleep uint64

	mu     sync.Mutex
	rgba   []byte
	width  int
	height int
	title  string
	frames uint64
	inited bool
}

// Options configures a Panel.
type Options struct {
	// Geometry is the engine's frame layout.
	Geometry bridge.Geometry
	// HoldMs is how long a tapped key stays pressed. Zero uses host.DefaultHoldMs.
	HoldMs uint64
	// MaxSleepMs caps engine sleeps so the UI stays responsive. Zero means no cap.
	MaxSleepMs uint64
}

// NewPanel returns a panel for frames of the given geometry.
func NewPanel(opts Options) *Panel {
	g := opts.Geometry
	if !g.Valid() {
		g = bridge.DefaultGeometry
	}
	p := &Panel{
		clock:  host.NewClock(),
		keys:   host.NewKeyQueue(opts.HoldMs),
		width:  g.Width,
		height: g.Height,
		rgba:   make([]byte, g.Width*g.Height*4),
		title:  "doom",
		sleep:  host.Sleep,
	}
	p.maxSleep = opts.MaxSleepMs
	return p
}

// Init implements bridge.Host.
func (p *Panel) Init() {
	p.mu.Lock()
	p.inited = true
	p.mu.Unlock()
}

// DrawFrame implements bridge.Host. The frame is converted into the panel's
// own RGBA store; the buffer is not retained.
func (p *Panel) DrawFrame(buf *bridge.FrameBuffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	host.XRGBToRGBA(p.rgba, buf.Bytes())
	p.frames++
}

// SleepMs implements bridge.Host.
func (p *Panel) SleepMs(ms uint64) {
	if p.maxSleep > 0 && ms > p.maxSleep {
		ms = p.maxSleep
	}
	p.sleep(ms)
}

// GetTickMs implements bridge.Host.
func (p *Panel) GetTickMs() uint64 {
	return p.clock.Millis()
}

// GetKey implements bridge.Host.
func (p *Panel) GetKey() int32 {
	return p.keys.Poll(p.clock.Millis())
}

// SetWindowTitle implements bridge.Host.
func (p *Panel) SetWindowTitle(title string) {
	p.mu.Lock()
	p.title = title
	p.mu.Unlock()
}

// Tap records a key press from the terminal.
func (p *Panel) Tap(code uint8) {
	p.keys.Tap(code, p.clock.Millis())
}

// Title returns the last title set by the engine.
func (p *Panel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Frames returns the number of frames drawn.
func (p *Panel) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Size returns the frame dimensions in pixels.
func (p *Panel) Size() (width, height int) {
	return p.width, p.height
}

// snapshot calls fn with the current RGBA frame under the panel lock.
func (p *Panel) snapshot(fn func(rgba []byte, width, height int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.rgba, p.width, p.height)
}

// Initialized reports whether the engine has called Init.
func (p *Panel) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inited
}
