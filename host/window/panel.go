// Package window implements a host panel backed by an ebiten desktop window.
//
// The ebiten game loop drives the engine: every Update runs one engine tick,
// and Draw shows the most recent frame scaled to the window with the aspect
// ratio preserved. Key presses and releases come from inpututil, so no
// release synthesis is needed.
//
// Builds tagged headless omit the window; Run then reports it unavailable.
package window

import (
	"sync"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/host"
)

// Panel is a bridge.Host that keeps the latest frame for the window.
type Panel struct {
	clock *host.Clock
	keys  *host.KeyQueue
	sleep func(ms uint64)

	mu         sync.Mutex
	rgba       []byte
	width      int
	height     int
	title      string
	titleDirty bool
	frames     uint64
}

// NewPanel returns a panel for frames of the given geometry.
func NewPanel(geom bridge.Geometry) *Panel {
	if !geom.Valid() {
		geom = bridge.DefaultGeometry
	}
	return &Panel{
		clock:  host.NewClock(),
		keys:   host.NewKeyQueue(0),
		sleep:  host.Sleep,
		rgba:   make([]byte, geom.Width*geom.Height*4),
		width:  geom.Width,
		height: geom.Height,
		title:  "doom",
	}
}

// Init implements bridge.Host.
func (p *Panel) Init() {}

// DrawFrame implements bridge.Host.
func (p *Panel) DrawFrame(buf *bridge.FrameBuffer) {
	p.mu.Lock()
	host.XRGBToRGBA(p.rgba, buf.Bytes())
	p.frames++
	p.mu.Unlock()
}

// SleepMs implements bridge.Host.
func (p *Panel) SleepMs(ms uint64) {
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

// SetWindowTitle implements bridge.Host. The window title is applied on the
// next game update.
func (p *Panel) SetWindowTitle(title string) {
	p.mu.Lock()
	p.title = title
	p.titleDirty = true
	p.mu.Unlock()
}

// Press queues a key-down event.
func (p *Panel) Press(code uint8) {
	p.keys.Press(code)
}

// Release queues a key-up event.
func (p *Panel) Release(code uint8) {
	p.keys.Release(code)
}

// Title returns the current title.
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

// takeTitle returns the title and whether it changed since the last call.
func (p *Panel) takeTitle() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dirty := p.titleDirty
	p.titleDirty = false
	return p.title, dirty
}

// copyPixels copies the current RGBA frame into dst.
func (p *Panel) copyPixels(dst []byte) {
	p.mu.Lock()
	copy(dst, p.rgba)
	p.mu.Unlock()
}

// fitRect returns the scale and offset that place a width x height frame
// inside an outW x outH surface with the aspect ratio preserved.
func fitRect(width, height, outW, outH int) (scale, offX, offY float64) {
	if width <= 0 || height <= 0 || outW <= 0 || outH <= 0 {
		return 0, 0, 0
	}
	sx := float64(outW) / float64(width)
	sy := float64(outH) / float64(height)
	scale = sx
	if sy < sx {
		scale = sy
	}
	offX = (float64(outW) - float64(width)*scale) / 2
	offY = (float64(outH) - float64(height)*scale) / 2
	return scale, offX, offY
}
